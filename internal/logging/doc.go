// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides the process-wide zerolog logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Model load failed")
//
//	// Request-scoped fields (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Str("seed", title).Msg("Recommendation served")
//
// Components receive a zerolog.Logger and derive a child with a component
// field rather than reaching for the global:
//
//	logger := logging.WithComponent("recommend")
//
// # slog Bridge
//
// NewSlogHandler adapts the global logger to log/slog for libraries that
// only accept a *slog.Logger, such as sutureslog in the supervisor tree.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
