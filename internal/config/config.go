// Package config loads service configuration from the environment,
// with optional .env file support.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Auth for the web API. Empty disables the authenticated routes.
	APIKey string `env:"ERST_API_KEY"`

	// Default provider selection.
	Provider string `env:"ERST_PROVIDER" envDefault:"Google"`
	Model    string `env:"ERST_MODEL" envDefault:"gemini-2.5-flash"`

	// Provider credentials (the keystore is consulted when empty).
	GeminiKey     string `env:"GEMINI_KEY"`
	OpenRouterKey string `env:"OPENROUTER_KEY"`

	// Pipeline tuning.
	MaxChars   int    `env:"MAX_CHARS" envDefault:"8000"`
	MaxWorkers int    `env:"MAX_WORKERS" envDefault:"10"`
	TargetLang string `env:"TARGET_LANG" envDefault:"ko"`

	// Upload limits and job retention for the web service.
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`
	JobTTL         time.Duration `env:"JOB_TTL" envDefault:"24h"`
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 8000
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 10
	}
	return cfg, nil
}

// Validate checks the fields the pipeline depends on.
func (c Config) Validate() error {
	if _, err := language.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("invalid TARGET_LANG %q: %w", c.TargetLang, err)
	}
	if c.Provider != "Google" && c.Provider != "OpenRouter" {
		return fmt.Errorf("unsupported provider %q (supported: Google, OpenRouter)", c.Provider)
	}
	return nil
}
