package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/internal/app"
	"github.com/crlabs/royale-retention/internal/config"
)

func main() {
	logrus.Infof("starting retention analysis service..")

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logrus.Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Errorf("invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Errorf("failed to initialize application: %v", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logrus.Errorf("application error: %v", err)
		os.Exit(1)
	}
}
