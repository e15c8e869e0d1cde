// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// quietRoutes are logged at debug level to keep probes out of info logs.
var quietRoutes = map[string]bool{
	"/api/v1/health": true,
	"/metrics":       true,
}

// RequestLogger writes one log line per request using the request-scoped
// logger from the context.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		route := routePattern(r)
		var event *zerolog.Event
		logger := logging.Ctx(r.Context())
		switch {
		case sw.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case quietRoutes[route]:
			event = logger.Debug()
		default:
			event = logger.Info()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", sw.statusCode).
			Int("bytes", sw.bytes).
			Str("remote_ip", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
