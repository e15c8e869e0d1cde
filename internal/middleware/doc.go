// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package middleware provides HTTP middleware for the recommendation API.

All middleware uses the chi-compatible signature func(http.Handler) http.Handler
so it can be passed straight to chi.Router.Use.

# Available Middleware

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - RequestLogger: one structured zerolog line per request
  - PrometheusMetrics: request counters, latency histograms and the
    in-flight gauge, labelled by chi route pattern
  - Compression: gzip responses above 1KB via klauspost/compress/gzhttp

# Ordering

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

RequestID must run first so every later log line carries the IDs.
PrometheusMetrics reads the route pattern after the handler runs, so it
works at any position inside the chi router.
*/
package middleware
