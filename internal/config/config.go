package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aretw0/formflow/internal/logging"
)

// Config holds the process settings shared by the CLI commands.
// Values come from the environment; command-line flags override them.
type Config struct {
	OutputDir   string        `env:"FORMFLOW_OUTPUT_DIR"   envDefault:"published"`
	TemplateDir string        `env:"FORMFLOW_TEMPLATE_DIR" envDefault:"templates"`
	Pdftk       string        `env:"FORMFLOW_PDFTK"        envDefault:"pdftk"`
	RedisAddr   string        `env:"FORMFLOW_REDIS_ADDR"`
	RedisTTL    time.Duration `env:"FORMFLOW_REDIS_TTL"    envDefault:"10m"`
	Addr        string        `env:"FORMFLOW_ADDR"         envDefault:":8080"`
	LogLevel    string        `env:"FORMFLOW_LOG_LEVEL"    envDefault:"info"`
	Lanes       int           `env:"FORMFLOW_LANES"        envDefault:"4"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Lanes < 1 {
		return Config{}, fmt.Errorf("FORMFLOW_LANES must be positive, got %d", cfg.Lanes)
	}
	return cfg, nil
}

// Level resolves the configured log level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}
