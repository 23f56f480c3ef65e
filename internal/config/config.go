package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/catalog.db" validate:"required"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// Empty RedisURL disables the dataset cache.
	RedisURL string        `env:"REDIS_URL" validate:"omitempty,url"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m" validate:"gt=0"`

	// When both URLs are set the datasets are fetched over HTTP instead of
	// read from the sqlite catalog.
	PlacesURL    string `env:"PLACES_URL" validate:"required_with=QuestionsURL,omitempty,url"`
	QuestionsURL string `env:"QUESTIONS_URL" validate:"required_with=PlacesURL,omitempty,url"`

	RoundLength int           `env:"ROUND_LENGTH" envDefault:"20" validate:"min=1"`
	TickPeriod  time.Duration `env:"TICK_PERIOD" envDefault:"1s" validate:"gt=0"`
	SeedDemo    bool          `env:"SEED_DEMO" envDefault:"true"`
}

// RemoteDatasets reports whether the datasets come from PLACES_URL and
// QUESTIONS_URL.
func (c *Config) RemoteDatasets() bool {
	return c.PlacesURL != "" && c.QuestionsURL != ""
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
