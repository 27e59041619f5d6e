package config

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// Server configuration
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"RoyaleRetention"`

	// Game API configuration
	APIToken   string `env:"CR_API_TOKEN,required"`
	APIBaseURL string `env:"CR_API_BASE_URL" envDefault:"https://api.clashroyale.com/v1"`

	// Collection configuration
	PlayerTags          []string `env:"PLAYER_TAGS" envSeparator:","`
	OutputDir           string   `env:"OUTPUT_DIR" envDefault:"data"`
	SessionGapMinutes   int      `env:"SESSION_GAP_MINUTES" envDefault:"30"`
	CollectionInterval  int      `env:"COLLECTION_INTERVAL_MINUTES" envDefault:"0"`
	ArchetypeConfigPath string   `env:"ARCHETYPE_CONFIG_PATH"`

	// Redis configuration
	RedisEnabled      bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// SQLite configuration
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/matches.db"`

	// Telemetry configuration
	OtelEnabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint    string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT" envDefault:"http://localhost:9411/api/v2/spans"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"royale-retention"`
}
