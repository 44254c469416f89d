package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/talentbridge/matchai/internal/config"
	"github.com/talentbridge/matchai/internal/database"
	"github.com/talentbridge/matchai/internal/logger"
	"github.com/talentbridge/matchai/internal/openai"
	"github.com/talentbridge/matchai/internal/repository"
	"github.com/talentbridge/matchai/internal/service"
)

// PrecomputeCmd returns the precompute command
func PrecomputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precompute",
		Short: "Precompute match scores for a candidate",
		Long:  "Compute and cache match scores for one candidate against every active job posting",
		RunE:  runPrecompute,
	}

	cmd.Flags().Int64("user", 0, "Candidate user ID")
	cmd.MarkFlagRequired("user")

	return cmd
}

func runPrecompute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	userID, _ := cmd.Flags().GetInt64("user")
	if userID <= 0 {
		return fmt.Errorf("--user must be a positive candidate ID")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("precompute requires an embedding provider: set MATCHAI_OPENAI_API_KEY")
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

	store := repository.NewStore(pool)
	scoreRepo := repository.NewMatchScoreRepository(pool, zlog)
	embedder := service.NewEmbeddingProviderWithClient(cfg.EmbeddingDim, openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingDimensions: cfg.EmbeddingDim,
	}))

	svc := service.NewPrecomputeService(store, scoreRepo, embedder, zlog)

	computed, err := svc.PrecomputeForCandidate(ctx, userID)
	if err != nil {
		return fmt.Errorf("precompute failed: %w", err)
	}

	fmt.Printf("Precomputed %d match scores for candidate %d\n", computed, userID)
	return nil
}
