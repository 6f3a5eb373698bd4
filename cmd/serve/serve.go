// Package serve implements the serve command: the long-running ingestion
// service with its HTTP API and background refresh loop.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sammenlign/pricefeed/internal/api"
	"github.com/sammenlign/pricefeed/internal/cache"
	"github.com/sammenlign/pricefeed/internal/clicks"
	"github.com/sammenlign/pricefeed/internal/config"
	"github.com/sammenlign/pricefeed/internal/database"
	"github.com/sammenlign/pricefeed/internal/fetch"
	"github.com/sammenlign/pricefeed/internal/health"
	"github.com/sammenlign/pricefeed/internal/jobs"
	"github.com/sammenlign/pricefeed/internal/logger"
	"github.com/sammenlign/pricefeed/internal/refresh"
	"github.com/sammenlign/pricefeed/internal/scheduler"
	"github.com/sammenlign/pricefeed/internal/storage"
	"github.com/sammenlign/pricefeed/internal/urlcheck"
	"github.com/sammenlign/pricefeed/internal/validate"
)

// userAgent identifies the service to upstream endpoints.
const userAgent = "pricefeed/0.1"

// Command returns the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion service",
		Long: `Run the pricefeed service: the HTTP API, the staleness-aware price
cache, and the periodic background refresh loop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
}

func run(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if migrateErr := database.MigrateUp(cfg.Database); migrateErr != nil {
		return fmt.Errorf("failed to apply migrations: %w", migrateErr)
	}

	offerRepo := storage.NewOfferRepository(db)
	jobRepo := storage.NewJobRepository(db)

	// Elasticsearch and Redis are best-effort collaborators: the pipeline
	// keeps running without them, with reduced observability.
	var errlog storage.ErrorLog = storage.NoopErrorLog{}
	if esClient, esErr := storage.NewElasticClient(cfg.Elasticsearch); esErr == nil {
		errlog = storage.NewElasticErrorLog(esClient, cfg.Elasticsearch.Index, log)
	} else {
		log.Warn("Error log disabled, Elasticsearch unavailable", "error", esErr)
	}

	var clickSink clicks.Sink = clicks.NoopSink{}
	if redisClient, redisErr := clicks.NewRedisClient(ctx, cfg.Redis.URL); redisErr == nil {
		clickSink = clicks.NewRedisSink(redisClient, cfg.Redis.ClickKey, log)
		defer redisClient.Close()
	} else {
		log.Warn("Click sink disabled, Redis unavailable", "error", redisErr)
	}

	registry := fetch.NewRegistry(fetch.NewHTTPAdapter(
		cfg.Providers,
		&http.Client{Timeout: cfg.Ingest.FetchTimeout},
		userAgent,
	))

	tracker := jobs.NewTracker(jobRepo, log)
	monitor := health.NewMonitor()
	executor := refresh.NewExecutor(registry, validate.New(), offerRepo, errlog, cfg.Ingest, log)
	coordinator := refresh.NewCoordinator(
		cfg.Providers, executor, tracker, monitor, cfg.Ingest.Concurrency, log,
	)

	priceCache := cache.New(
		ctx,
		cfg.Ingest.StaleAfter,
		cfg.Ingest.ExpireAfter,
		coordinator.RefreshOffer,
		log,
	)

	sched := scheduler.New(cfg.Providers, priceCache, cfg.Ingest.RefreshInterval, log)
	if schedErr := sched.Start(ctx); schedErr != nil {
		return fmt.Errorf("failed to start scheduler: %w", schedErr)
	}

	checker := urlcheck.NewChecker(nil, urlcheck.DefaultConcurrency, log)

	server := api.NewServer(cfg.Server, api.Handlers{
		Prices:   api.NewPricesHandler(priceCache),
		Offers:   api.NewOffersHandler(offerRepo),
		Jobs:     api.NewJobsHandler(tracker, cfg.Ingest.StaleRunningAge),
		Health:   api.NewHealthHandler(monitor),
		Clicks:   api.NewClicksHandler(clickSink),
		URLCheck: api.NewURLCheckHandler(checker),
	}, cfg.App.Debug, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err = <-serverErr:
		cancel()
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(), cfg.Server.ShutdownTimeout,
	)
	defer shutdownCancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error("Server shutdown failed", "error", shutdownErr)
	}

	// In-flight refreshes were cancelled with ctx; wait for them to
	// release their cache flags.
	priceCache.Wait()

	return err
}
