// Package config loads application settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries everything outside the database/redis connection settings,
// which internal/db reads directly.
type Config struct {
	Port string `env:"PORT" envDefault:"3000"`

	// JWTSecret verifies externally issued HS256 bearer tokens.
	JWTSecret string `env:"HBUK_JWT_SECRET"`

	// SigningKid selects the active witness key; SigningSecrets holds the
	// full keyring as comma-separated kid:secret pairs so rotated-out keys
	// keep verifying historical signatures.
	SigningKid     string `env:"HBUK_SIGNING_KID" envDefault:"v1"`
	SigningSecrets string `env:"HBUK_SIGNING_SECRETS"`

	// MetricsToken gates the plaintext metrics endpoint; empty disables it.
	MetricsToken string `env:"HBUK_METRICS_TOKEN"`

	// Maintenance short-circuits every request with a 503 when set.
	Maintenance bool `env:"HBUK_MAINTENANCE"`

	CommitSHA string `env:"COMMIT_SHA" envDefault:"dev"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
