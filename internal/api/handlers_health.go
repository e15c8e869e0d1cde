// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status      string                 `json:"status"` // healthy, degraded, unavailable
	Version     string                 `json:"version"`
	GoVersion   string                 `json:"go_version"`
	Uptime      float64                `json:"uptime_seconds"`
	ModelLoaded bool                   `json:"model_loaded"`
	Model       *storage.ModelMetadata `json:"model,omitempty"`
	Posters     *PosterHealth          `json:"posters,omitempty"`

	Recommendations *recommend.EngineStats `json:"recommendations,omitempty"`
}

// PosterHealth summarizes the poster resolver.
type PosterHealth struct {
	BreakerState string `json:"breaker_state"`
	CacheSize    int    `json:"cache_size"`
	CacheHits    int64  `json:"cache_hits"`
	CacheMisses  int64  `json:"cache_misses"`
}

// Health handles GET /api/v1/health.
//
// The service is unavailable (503) until the model is loaded and degraded
// while the poster circuit breaker is open. Degraded still returns 200:
// recommendations are served, only without verified posters.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:      "healthy",
		Version:     h.config.Version,
		GoVersion:   runtime.Version(),
		Uptime:      time.Since(h.startTime).Seconds(),
		ModelLoaded: true,
	}

	if h.model != nil {
		health.ModelLoaded = h.model.Loaded()
		health.Model = h.model.Metadata()
	}

	if rs, ok := h.recommender.(RecommenderStats); ok {
		stats := rs.Stats()
		health.Recommendations = &stats
	}

	if h.posters != nil {
		stats := h.posters.CacheStats()
		health.Posters = &PosterHealth{
			BreakerState: h.posters.BreakerState(),
			CacheSize:    stats.Size,
			CacheHits:    stats.Hits,
			CacheMisses:  stats.Misses,
		}
		if health.Posters.BreakerState == "open" {
			health.Status = "degraded"
		}
	}

	status := http.StatusOK
	if !health.ModelLoaded {
		health.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, status, &APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
