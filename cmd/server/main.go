// Rankfeed - Social Feed Recommendation Service
// Copyright 2026 Rankfeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rankfeed/rankfeed

// Package main is the entry point for the Rankfeed server.
//
// Rankfeed serves personalized post recommendations for a social feed. It
// exposes user and post lookups, per-user and per-post interaction history,
// and a ranked recommendation endpoint backed by a pre-trained binary
// classifier.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: load settings from environment variables and config files (Koanf v2)
//  2. Database: open DuckDB and bootstrap the schema
//  3. Feature store: load user features, post features and like history into memory
//  4. Classifier: load the model artifact and validate it against the feature columns
//  5. HTTP server: REST API with health and Prometheus metrics endpoints
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. Common variables:
//
//	export SERVER_PORT=8899
//	export DUCKDB_PATH=/data/rankfeed.duckdb
//	export MODEL_PATH=model/classifier.json
//	export LOG_LEVEL=info
//
// Setting HOSTED_EVAL=1 overrides the model path with the fixed
// hosted-evaluation location.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10 seconds for in-flight requests,
// then closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rankfeed/rankfeed/internal/api"
	"github.com/rankfeed/rankfeed/internal/classifier"
	"github.com/rankfeed/rankfeed/internal/config"
	"github.com/rankfeed/rankfeed/internal/database"
	"github.com/rankfeed/rankfeed/internal/features"
	"github.com/rankfeed/rankfeed/internal/logging"
	"github.com/rankfeed/rankfeed/internal/ranking"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Rankfeed")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := features.Load(ctx, db, cfg.Features.RowLimit)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load feature store")
	}

	modelPath := classifier.ResolvePath(cfg.Model.Path)
	model, err := classifier.Load(modelPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", modelPath).Msg("Failed to load model")
	}

	ranker, err := ranking.New(store, model)
	if err != nil {
		logging.Fatal().Err(err).Msg("Model does not match feature store columns")
	}

	handler := api.NewHandler(db, store, ranker, cfg)
	router := api.NewRouter(handler, &cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Service is up and running")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
