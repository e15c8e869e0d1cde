// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package metrics provides Prometheus instrumentation for the recommendation
// service.
//
// All collectors are registered on the default registry through promauto and
// exposed by the API router at /metrics.
//
// # Metric Families
//
//   - api_*: request counts, latency, in-flight gauge, rate-limit rejections
//   - recommend_*: outcomes (ok, empty, not_found, error), latency, result size
//   - poster_probe_*: HEAD probe results and latency
//   - cache_*: hit/miss/size/eviction counters labelled by cache_type
//   - circuit_breaker_*: breaker state and transitions
//   - model_*: catalog size and load time of the served model
//
// # Usage
//
//	start := time.Now()
//	res, err := engine.Recommend(ctx, req)
//	metrics.RecordRecommendation("ok", len(res.Recommendations), time.Since(start))
package metrics
