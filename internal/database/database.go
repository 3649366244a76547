// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/rankfeed/rankfeed/internal/config"
	"github.com/rankfeed/rankfeed/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
//
// The service reads users, posts and feed events per request, and loads the
// feature tables once at startup. Nothing in the request path writes; the
// connection is opened read_write only so the schema bootstrap and optional
// mock-data seeding can run.
type DB struct {
	conn         *sql.DB
	cfg          *config.DatabaseConfig
	queryTimeout time.Duration
}

// New opens the database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	// 0750 per gosec G301.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable extension auto-install/auto-load to prevent hangs in restricted
	// network environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	queryTimeout := cfg.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}

	db := &DB{
		conn:         conn,
		cfg:          cfg,
		queryTimeout: queryTimeout,
	}

	if err := db.initSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if cfg.SeedMockData {
		if err := db.SeedMockData(context.Background()); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to seed mock data: %w", err)
		}
		logging.Info().Msg("Seeded mock data")
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Database ready")
	return db, nil
}

// initSchema creates all tables if they do not exist. Idempotent; the
// production tables are owned and populated by upstream systems.
func (db *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			gender INTEGER NOT NULL DEFAULT 0,
			age INTEGER NOT NULL DEFAULT 0,
			country VARCHAR NOT NULL DEFAULT '',
			city VARCHAR NOT NULL DEFAULT '',
			exp_group INTEGER NOT NULL DEFAULT 0,
			os VARCHAR NOT NULL DEFAULT '',
			source VARCHAR NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGINT PRIMARY KEY,
			text VARCHAR NOT NULL DEFAULT '',
			topic VARCHAR NOT NULL DEFAULT ''
		)`,
		// Append-only interaction log. Uniqueness on the full key tuple.
		`CREATE TABLE IF NOT EXISTS feed_actions (
			user_id BIGINT NOT NULL,
			post_id BIGINT NOT NULL,
			action VARCHAR NOT NULL,
			time TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, post_id, action, time)
		)`,
		// Scoring covariates, one row per user. Numeric-encoded upstream.
		`CREATE TABLE IF NOT EXISTS user_features (
			user_id BIGINT PRIMARY KEY,
			gender DOUBLE NOT NULL DEFAULT 0,
			age DOUBLE NOT NULL DEFAULT 0,
			country DOUBLE NOT NULL DEFAULT 0,
			city DOUBLE NOT NULL DEFAULT 0,
			exp_group DOUBLE NOT NULL DEFAULT 0,
			os DOUBLE NOT NULL DEFAULT 0,
			source DOUBLE NOT NULL DEFAULT 0
		)`,
		// Scoring covariates plus display fields, one row per post.
		`CREATE TABLE IF NOT EXISTS post_features (
			post_id BIGINT PRIMARY KEY,
			text VARCHAR NOT NULL DEFAULT '',
			topic VARCHAR NOT NULL DEFAULT '',
			text_length DOUBLE NOT NULL DEFAULT 0,
			tfidf_sum DOUBLE NOT NULL DEFAULT 0,
			tfidf_mean DOUBLE NOT NULL DEFAULT 0,
			tfidf_max DOUBLE NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
