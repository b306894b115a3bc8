package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration sourced from environment
// variables. A local .env file is loaded best-effort; production should
// use real env injection.
type Config struct {
	AppEnv        string `env:"APP_ENV" envDefault:"dev"`
	Port          string `env:"PORT" envDefault:"8080"`
	DBPath        string `env:"DB_PATH" envDefault:"./dev.db"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// CatalogFile optionally points at a YAML file whose entries are
	// upserted into the catalog on startup.
	CatalogFile string `env:"CATALOG_FILE"`

	// SampleHistory seeds that many fake calculation records on startup
	// for local analytics demos. Zero disables it.
	SampleHistory int `env:"SAMPLE_HISTORY" envDefault:"0"`
}

// Load reads environment variables and returns a populated Config.
func Load() (Config, error) {
	var cfg Config
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}
