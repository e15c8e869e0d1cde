// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend serves content-based movie recommendations from a
// precomputed similarity model.
//
// # Architecture
//
//   - Provider: owns the persisted model and loads it exactly once
//   - Engine: seed lookup, randomized neighbor sampling, genre/language
//     filtering, and score normalization
//   - Aggregator: random sampling, featured picks, vocabularies, and
//     catalog summary statistics
//
// # Variety
//
// Repeated requests for the same seed intentionally return different
// subsets of its neighbor list in different orders. Randomness comes from
// an injectable *rand.Rand (WithRand) so tests can fix the draw; without
// one, Config.Seed is used, and a zero seed means a time-based seed.
//
// # Seeds
//
// Only the first seed title of a request is used. Additional titles are
// accepted and ignored.
//
// # Filters
//
// Genre and language filters are OR within a filter and AND across the two:
// an item must share at least one genre with the genre filter and at least
// one language with the language filter. Language tokens are always
// derived through catalog.LanguageTokens.
//
// # Thread Safety
//
// Engine and Aggregator are safe for concurrent use. The model is
// read-only after load; only the random source is guarded by a mutex.
package recommend
