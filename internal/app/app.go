package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/internal/config"
	"github.com/crlabs/royale-retention/internal/server"
	"github.com/crlabs/royale-retention/internal/storage"
	"github.com/crlabs/royale-retention/pkg/collector"
	"github.com/crlabs/royale-retention/pkg/deck"
	"github.com/crlabs/royale-retention/pkg/retention"
	"github.com/crlabs/royale-retention/pkg/royale"
	"github.com/crlabs/royale-retention/pkg/store"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	db                *storage.DB
	collector         *collector.Collector
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance. Components are
// initialized in dependency order: external stores first, then the analysis
// pipeline, then the metrics server and telemetry.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	apiClient := royale.NewClient(cfg.APIToken, royale.WithBaseURL(cfg.APIBaseURL))

	if cfg.RedisEnabled {
		client, err := store.InitRedisClient(ctx, cfg.RedisAddr(), cfg.RedisPassword,
			cfg.RedisMaxRetries, time.Duration(cfg.RedisRetryDelayMs)*time.Millisecond)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.redisClient = client
	}

	db, err := storage.Open(&storage.Config{
		Path:            cfg.DatabasePath,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
		AutoMigrate:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open match database: %w", err)
	}
	app.db = db
	logrus.Infof("match database ready at %s", cfg.DatabasePath)

	registry, err := loadRegistry(cfg.ArchetypeConfigPath)
	if err != nil {
		return nil, err
	}

	gap := time.Duration(cfg.SessionGapMinutes) * time.Minute
	analyzer := retention.NewAnalyzer(apiClient, gap)

	metrics := collector.NewMetrics()
	coll, err := collector.New(collector.Config{
		Source:    apiClient,
		Analyzer:  analyzer,
		Registry:  registry,
		Archive:   storage.NewMatchStore(db),
		Redis:     app.redisClient,
		Metrics:   metrics,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init collector: %w", err)
	}
	app.collector = coll

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(metrics); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.OtelEndpoint, cfg.OtelServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")
	return app, nil
}

// loadRegistry loads the archetype registry from the configured path, or the
// built-in defaults when no path is set.
func loadRegistry(path string) (*deck.Registry, error) {
	if path == "" {
		logrus.Info("using built-in archetype registry")
		return deck.DefaultRegistry(), nil
	}

	registry, err := deck.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load archetype config from %s: %w", path, err)
	}
	logrus.Infof("loaded archetype registry from %s", path)
	return registry, nil
}
