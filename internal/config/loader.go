package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.APIToken == "" {
		return fmt.Errorf("CR_API_TOKEN is required")
	}

	if len(c.PlayerTags) == 0 {
		return fmt.Errorf("PLAYER_TAGS must list at least one player tag")
	}
	for _, tag := range c.PlayerTags {
		if !strings.HasPrefix(tag, "#") {
			return fmt.Errorf("invalid player tag %q: tags start with '#'", tag)
		}
	}

	if c.SessionGapMinutes < 1 {
		return fmt.Errorf("invalid SESSION_GAP_MINUTES: %d (must be positive)", c.SessionGapMinutes)
	}

	if c.CollectionInterval < 0 {
		return fmt.Errorf("invalid COLLECTION_INTERVAL_MINUTES: %d (must be non-negative)", c.CollectionInterval)
	}

	return nil
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
