package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/talentbridge/matchai/internal/config"
	"github.com/talentbridge/matchai/internal/database"
	"github.com/talentbridge/matchai/internal/logger"
	"github.com/talentbridge/matchai/internal/repository"
)

// InvalidateCmd returns the invalidate command and its subcommands
func InvalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Remove cached match scores",
		Long:  "Remove cached match scores for a deleted candidate or job posting",
	}

	cmd.AddCommand(invalidateCandidateCmd())
	cmd.AddCommand(invalidateJobCmd())

	return cmd
}

func invalidateCandidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidate <id>",
		Short: "Remove every cached score for a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvalidate(args[0], "candidate")
		},
	}
}

func invalidateJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "Remove every cached score for a job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvalidate(args[0], "job")
		},
	}
}

func runInvalidate(rawID, kind string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid %s ID: %s", kind, rawID)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer zlog.Sync()

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	scoreRepo := repository.NewMatchScoreRepository(pool, zlog)

	var deleted int64
	switch kind {
	case "candidate":
		deleted, err = scoreRepo.DeleteForCandidate(ctx, id)
	case "job":
		deleted, err = scoreRepo.DeleteForJob(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("invalidate failed: %w", err)
	}

	fmt.Printf("Removed %d cached scores for %s %d\n", deleted, kind, id)
	return nil
}
