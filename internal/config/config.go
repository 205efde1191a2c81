package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all environment configuration for the CLI
type Config struct {
	// Portal overrides portal selection (URL or alias from healthease.yaml)
	Portal string `env:"HEALTHEASE_PORTAL"`

	// Credentials for non-interactive use (CI, scripts)
	Credentials CredentialsConfig

	// Storage Configuration
	Storage StorageConfig

	// Logging Configuration
	Logging LoggingConfig
}

// CredentialsConfig holds credentials supplied through the environment
type CredentialsConfig struct {
	Email    string `env:"HEALTHEASE_EMAIL"`
	Password string `env:"HEALTHEASE_PASSWORD"`
}

// StorageConfig holds local storage configuration
type StorageConfig struct {
	// Path of the local storage database; empty means ~/.config/healthease/storage.db
	Path string `env:"HEALTHEASE_STORAGE_PATH"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL, default=warn"`
	Format string `env:"LOG_FORMAT, default=console"` // json, console
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying cfg
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the Config stored by WithContext, if any
func FromContext(ctx context.Context) (*Config, bool) {
	if ctx == nil {
		return nil, false
	}
	cfg, ok := ctx.Value(contextKey{}).(*Config)
	return cfg, ok && cfg != nil
}
