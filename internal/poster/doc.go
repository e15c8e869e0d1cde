// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package poster resolves raw poster references into displayable URLs.
//
// A reference is one of:
//
//   - a local static path ("/static/..."), returned unchanged
//   - an absolute http(s) URL, used directly
//   - a TMDB-relative path, prefixed with the configured image base URL
//
// Remote URLs are checked with a HEAD request and accepted only when the
// server answers 200 with an image content type. Results, including
// failures, are memoized in a bounded TTL LRU so a broken poster costs at
// most one probe per TTL window.
//
// # Resilience
//
// Probes are bounded by a per-probe timeout, throttled by a token-bucket
// limiter (golang.org/x/time/rate), and routed through a circuit breaker
// (sony/gobreaker). While the breaker is open, posters resolve to "" and the
// result is not cached, so they are retried once the upstream recovers.
//
// The resolver never returns an error. Callers receive "" for any poster
// that cannot be shown and render a placeholder.
package poster
