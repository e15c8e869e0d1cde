// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api provides the HTTP layer of the recommendation service.

Routes are served by a chi router (see Router.SetupChi) with request IDs,
structured request logging, panic recovery, CORS, per-IP rate limiting,
Prometheus instrumentation and gzip compression.

Endpoints:

	POST /api/v1/recommend     similar titles for a seed (alias: POST /recommend)
	GET  /api/v1/featured      variety-biased featured picks
	GET  /api/v1/random        uniform random sample (?count=)
	GET  /api/v1/genres        sorted genre vocabulary
	GET  /api/v1/languages     sorted language vocabulary
	GET  /api/v1/titles        sorted catalog titles
	GET  /api/v1/summary       catalog statistics (alias: GET /summary)
	GET  /api/v1/health        model and dependency status
	GET  /metrics              Prometheus exposition

Response Shapes:

Successful data responses are written bare so the browser client can read
them directly: the recommend endpoint returns {"recommendations": [...]}, or
{"not_found": true, "searched_movie": ..., "suggestions": [...]} when the
seed title is unknown. Errors always use the APIResponse envelope:

	{"status": "error", "error": {"code": "BAD_REQUEST", "message": "..."}, "metadata": {...}}

JSON bodies carry an ETag; a matching If-None-Match yields 304.

Usage:

	handler := api.NewHandler(engine, aggregator, api.HandlerConfig{Timeout: 10 * time.Second},
	    api.WithHealthSources(provider, resolver))
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
