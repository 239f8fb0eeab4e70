package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/costwatch/internal/observability"
)

// Snapshot source kinds.
const (
	SnapshotSourceFile  = "file"
	SnapshotSourceHTTP  = "http"
	SnapshotSourceRedis = "redis"
	SnapshotSourceNone  = "none"
)

// Config represents the estimator service configuration.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Snapshot SnapshotConfig
	Redis    RedisConfig
	Scraper  ScraperConfig
	Log      observability.LogConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// SnapshotConfig controls where the price snapshot is loaded from.
// Timeout is in seconds.
type SnapshotConfig struct {
	Source   string `env:"SNAPSHOT_SOURCE"    envDefault:"file"`
	Path     string `env:"SNAPSHOT_PATH"      envDefault:"prices.json"`
	URL      string `env:"SNAPSHOT_URL"`
	RedisKey string `env:"SNAPSHOT_REDIS_KEY" envDefault:"prices.json"`
	Timeout  int    `env:"SNAPSHOT_TIMEOUT"   envDefault:"10"`
}

// RedisConfig contains Redis connection settings for the redis snapshot source.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// ScraperConfig controls the price fetcher that produces the snapshot document.
// Timeout is in seconds and bounds each page fetch.
type ScraperConfig struct {
	ModelsURL    string `env:"SCRAPER_MODELS_URL"    envDefault:"https://docs.anthropic.com/en/docs/about-claude/models"`
	Output       string `env:"SCRAPER_OUTPUT"        envDefault:"prices.json"`
	Timeout      int    `env:"SCRAPER_TIMEOUT"       envDefault:"30"`
	PublishRedis bool   `env:"SCRAPER_PUBLISH_REDIS" envDefault:"false"`
	Concurrency  int    `env:"SCRAPER_CONCURRENCY"   envDefault:"3"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*SnapshotConfig
	*RedisConfig
	*ScraperConfig
	*observability.LogConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Snapshot,
		&cfg.Redis,
		&cfg.Scraper,
		&cfg.Log,
	}
}
