// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package main is the reelmatch HTTP server.
//
// Startup order:
//
//  1. Configuration: defaults, then config.yaml (or CONFIG_PATH), then
//     environment variables (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Model: optional download from S3-compatible storage, then a single
//     load from MODEL_PATH; a missing or corrupt model is fatal
//  4. Engine, aggregator and poster resolver built around the model
//  5. HTTP server and poster cache janitor started under the suture tree
//
// # Configuration
//
//	PORT                   listen port (default 5000)
//	MODEL_PATH             model file (default model.json.zst)
//	MODEL_REMOTE_ENABLED   fetch MODEL_REMOTE_KEY from MODEL_REMOTE_BUCKET first
//	POSTER_CHECK_ENABLED   probe poster URLs before returning them
//	CORS_ORIGINS           comma-separated allowed origins
//	LOG_LEVEL, LOG_FORMAT  logging
//
// See internal/config for the full list.
//
// # Signals
//
// SIGINT and SIGTERM stop accepting connections and drain in-flight
// requests for up to SHUTDOWN_TIMEOUT.
//
// # Example
//
//	./buildindex -csv movies.csv -out model.json.zst
//	MODEL_PATH=model.json.zst ./server
package main
