// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (store, rest client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the client is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/doatroca/troca/internal/platform/constants"
)

// State backend identifiers accepted by STATE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the Troca client.
type Config struct {

	// Backend API the client talks to
	APIBaseURL  string `env:"TROCA_API_URL"     envDefault:"http://localhost:8000"`
	Environment string `env:"TROCA_ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"TROCA_DEBUG"       envDefault:"false"`

	// Persistent token store selection.
	// file:     JSON state file on disk (default, the CLI analog of browser storage)
	// memory:   no persistence, session dies with the process
	// redis:    shared Redis, for headless deployments
	// postgres: key-value table in PostgreSQL, for headless deployments
	StateBackend string `env:"TROCA_STATE_BACKEND" envDefault:"file"`

	// StateFile is the JSON state file path for the file backend.
	// Empty means "<home>/.troca/session.json".
	StateFile string `env:"TROCA_STATE_FILE"`

	// Key-Value store (Redis), required only for the redis backend
	RedisURL string `env:"TROCA_REDIS_URL"`

	// Relational store (PostgreSQL), required only for the postgres backend
	DatabaseURL string `env:"TROCA_DATABASE_URL"`

	// Stub API server (troca serve)
	ServePort    string `env:"TROCA_SERVE_PORT"    envDefault:"8000"`
	ServeSecret  string `env:"TROCA_SERVE_SECRET"  envDefault:"change-me-in-prod-please"`
	ServeDialect string `env:"TROCA_SERVE_DIALECT" envDefault:"bearer"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	switch cfg.StateBackend {
	case BackendFile, BackendMemory, BackendRedis, BackendPostgres:
	default:
		return nil, fmt.Errorf("config: unknown state backend %q", cfg.StateBackend)
	}

	if cfg.StateBackend == BackendRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: TROCA_REDIS_URL is required for the redis backend")
	}
	if cfg.StateBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: TROCA_DATABASE_URL is required for the postgres backend")
	}

	return cfg, nil
}

// ResolveStateFile returns the state file path, falling back to the
// per-user default under the home directory.
func (c *Config) ResolveStateFile() (string, error) {
	if c.StateFile != "" {
		return c.StateFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, filepath.FromSlash(constants.DefaultStateFileName)), nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
