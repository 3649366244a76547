// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest priority
// last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, /etc/rankfeed/config.yaml,
//     or CONFIG_PATH)
//  3. Environment variables (SERVER_PORT, DUCKDB_PATH, MODEL_PATH, ...)
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Features FeaturesConfig `koanf:"features"`
	Model    ModelConfig    `koanf:"model"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - SERVER_HOST: Bind address (default: 0.0.0.0)
//   - SERVER_PORT: Listen port (default: 8899)
//   - SERVER_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
//
// The database is opened read_write so the idempotent schema bootstrap and
// optional mock-data seeding can run; request handling never writes.
//
// Environment variables:
//   - DUCKDB_PATH: Database file path, or ":memory:" (default: /data/rankfeed.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
//   - DUCKDB_THREADS: Worker threads, 0 = NumCPU (default: 0)
//   - DATABASE_SEED_MOCK_DATA: Populate demo rows on startup (default: false)
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	SeedMockData bool          `koanf:"seed_mock_data"`
}

// FeaturesConfig controls the startup feature-store load.
//
// RowLimit caps each feature table load; the upstream tables are large and
// the service only needs the candidate slice prepared for it.
type FeaturesConfig struct {
	RowLimit int `koanf:"row_limit"`
}

// ModelConfig locates the serialized classifier artifact.
//
// Environment variables:
//   - MODEL_PATH: Artifact path (default: model/classifier.json)
//   - HOSTED_EVAL: When "1", load from the fixed hosted-evaluation path
//     instead of MODEL_PATH
type ModelConfig struct {
	Path string `koanf:"path"`
}

// APIConfig holds request-level defaults and bounds.
type APIConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// SecurityConfig holds CORS and rate-limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would break startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Features.RowLimit <= 0 {
		return fmt.Errorf("features.row_limit must be positive, got %d", c.Features.RowLimit)
	}
	if c.API.DefaultLimit <= 0 {
		return fmt.Errorf("api.default_limit must be positive, got %d", c.API.DefaultLimit)
	}
	if c.API.MaxLimit < c.API.DefaultLimit {
		return fmt.Errorf("api.max_limit (%d) must be >= api.default_limit (%d)",
			c.API.MaxLimit, c.API.DefaultLimit)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path must not be empty")
	}
	return nil
}
