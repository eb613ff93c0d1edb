// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components via constructors.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the department site API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	Database

	// Key-Value store (Redis), used for the event change feed
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for admin token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"cs.example.edu"`

	// SiteTimezone is the IANA location used to compute "start of today"
	// for upcoming-event queries.
	SiteTimezone string `env:"SITE_TIMEZONE" envDefault:"Local"`

	// CrossRef metadata API
	CrossRefBaseURL string        `env:"CROSSREF_BASE_URL" envDefault:"https://api.crossref.org"`
	CrossRefMailto  string        `env:"CROSSREF_MAILTO"`
	CrossRefTimeout time.Duration `env:"CROSSREF_TIMEOUT"  envDefault:"10s"`

	// ResearchAtomicWrites wraps paper and join-row writes in one transaction.
	ResearchAtomicWrites bool `env:"RESEARCH_ATOMIC_WRITES" envDefault:"true"`
}

// Database is the subset of [Config] needed by tools that only talk to
// PostgreSQL, such as the deptsite-admin command.
type Database struct {
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// ActivityRetentionDays is the default age cutoff for audit log purges.
	ActivityRetentionDays int `env:"ACTIVITY_RETENTION_DAYS" envDefault:"90"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.ActivityRetentionDays < 1 {
		return nil, fmt.Errorf("config: ACTIVITY_RETENTION_DAYS must be positive, got %d", cfg.ActivityRetentionDays)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("config: invalid SITE_TIMEZONE %q: %w", cfg.SiteTimezone, err)
	}

	return cfg, nil
}

// LoadDatabase parses only the PostgreSQL settings.
func LoadDatabase() (*Database, error) {
	cfg := &Database{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if cfg.ActivityRetentionDays < 1 {
		return nil, fmt.Errorf("config: ACTIVITY_RETENTION_DAYS must be positive, got %d", cfg.ActivityRetentionDays)
	}
	return cfg, nil
}

// Location resolves [Config.SiteTimezone].
func (c *Config) Location() (*time.Location, error) {
	if c.SiteTimezone == "" || c.SiteTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.SiteTimezone)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// OriginAllowed reports whether a browser origin belongs to the site domain.
func (c *Config) OriginAllowed(origin string) bool {
	if c.AllowedOriginSuffix == "" {
		return false
	}
	host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	return host == c.AllowedOriginSuffix || strings.HasSuffix(host, "."+c.AllowedOriginSuffix)
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
