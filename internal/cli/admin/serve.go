package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/talentbridge/matchai/internal/advice"
	"github.com/talentbridge/matchai/internal/api/handlers"
	"github.com/talentbridge/matchai/internal/cache"
	"github.com/talentbridge/matchai/internal/config"
	"github.com/talentbridge/matchai/internal/database"
	"github.com/talentbridge/matchai/internal/jobs"
	"github.com/talentbridge/matchai/internal/logger"
	"github.com/talentbridge/matchai/internal/openai"
	"github.com/talentbridge/matchai/internal/repository"
	"github.com/talentbridge/matchai/internal/server"
	"github.com/talentbridge/matchai/internal/service"
	"github.com/talentbridge/matchai/internal/telemetry"
	"go.uber.org/zap"
)

const refreshInterval = time.Minute

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the matchai API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-refresh", false, "Disable the background stale score refresh worker")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if a DSN is configured
	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	zlog, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer zlog.Sync()

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	zlog.Info("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	store := repository.NewStore(pool)
	scoreRepo := repository.NewMatchScoreRepository(pool, zlog)

	embedder := service.NewEmbeddingProvider(cfg.EmbeddingDim, func() (service.EmbeddingClient, error) {
		if !cfg.HasOpenAI() {
			return nil, openai.ErrNoAPIKey
		}
		return openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			EmbeddingDimensions: cfg.EmbeddingDim,
		}), nil
	})

	matchSvc := service.NewMatchService(store, scoreRepo, embedder, zlog)
	precomputeSvc := service.NewPrecomputeService(store, scoreRepo, embedder, zlog)

	var adviceCache advice.AdviceCache
	if cfg.HasRedis() {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, zlog)
		defer redisCache.Close()
		adviceCache = redisCache
	} else {
		adviceCache = cache.NewMemory()
	}

	var adviceProvider service.AdviceProvider
	if cfg.HasGemini() {
		generator, err := advice.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			zlog.Warn("failed to create advice generator, gap advice disabled", zap.Error(err))
		} else {
			adviceProvider = advice.NewService(generator, adviceCache, zlog)
			zlog.Info("gap advice enabled", zap.String("model", generator.Model()))
		}
	}

	gapSvc := service.NewGapService(store, service.NewGapAnalyzer(zlog), adviceProvider)

	matchHandler := handlers.NewMatchHandler(matchSvc, precomputeSvc, gapSvc)

	router := server.NewRouter(server.RouterConfig{
		MatchHandler: matchHandler,
		Logger:       zlog,
	})

	// The refresh worker recomputes cached scores invalidated by profile
	// or job edits. It needs the embedding provider, so it only runs when
	// one is configured.
	noRefresh, _ := cmd.Flags().GetBool("no-refresh")
	var refreshWorker *jobs.Worker
	if cfg.HasOpenAI() && !noRefresh {
		processor := jobs.NewRefreshWorker(scoreRepo, matchSvc, zlog)
		refreshWorker = jobs.NewWorker(processor, refreshInterval, zlog)
		go refreshWorker.Start(ctx)
		zlog.Info("stale score refresh worker started")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down...")

	if refreshWorker != nil {
		refreshWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zlog.Info("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
