package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/talentbridge/matchai/internal/cli"
	"github.com/talentbridge/matchai/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "matchaid",
		Short: "Matchai daemon and CLI",
		Long:  "Matchai daemon for running the match scoring API server and managing the score cache",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.PrecomputeCmd())
	rootCmd.AddCommand(admin.InvalidateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
