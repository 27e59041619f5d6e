package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Run starts the application. With a collection interval configured it keeps
// collecting until a shutdown signal arrives; otherwise it performs a single
// collection run and exits.
func (a *App) Run(ctx context.Context) error {
	if err := a.metricsServer.Start(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Info("application started successfully")

	a.collector.Collect(ctx, a.cfg.PlayerTags)

	interval := time.Duration(a.cfg.CollectionInterval) * time.Minute
	if interval <= 0 {
		logrus.Info("single collection run complete")
		return a.Shutdown(context.Background())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("shutdown signal received")
			return a.Shutdown(context.Background())
		case <-ticker.C:
			a.collector.Collect(ctx, a.cfg.PlayerTags)
		}
	}
}

// Shutdown gracefully shuts down all application components in reverse
// dependency order. Shutdown errors are logged but don't stop the sequence.
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logrus.Errorf("database close error: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
	}

	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(shutdownCtx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}
