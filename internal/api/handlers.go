// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// Recommender answers recommendation queries.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// CatalogReader serves the read-only catalog views.
type CatalogReader interface {
	Random(ctx context.Context, count int) ([]recommend.Record, error)
	Featured(ctx context.Context) ([]recommend.Record, error)
	Genres(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
	Titles(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (*recommend.Summary, error)
}

// RecommenderStats is implemented by recommenders that count their outcomes.
// The health endpoint reports the counters when the recommender has them.
type RecommenderStats interface {
	Stats() recommend.EngineStats
}

// ModelStatus reports on the loaded model.
type ModelStatus interface {
	Loaded() bool
	Metadata() *storage.ModelMetadata
}

// PosterStatus reports on the poster resolver.
type PosterStatus interface {
	BreakerState() string
	CacheStats() cache.Stats
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// Timeout bounds each handler's work.
	Timeout time.Duration

	// Version is reported by the health endpoint.
	Version string
}

// Handler holds the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: POST /recommend
//   - handlers_catalog.go: featured, random, vocabularies, summary
//   - handlers_health.go: health
type Handler struct {
	recommender Recommender
	catalog     CatalogReader
	model       ModelStatus
	posters     PosterStatus
	config      HandlerConfig
	startTime   time.Time
}

// HandlerOption configures optional handler dependencies.
type HandlerOption func(*Handler)

// WithHealthSources attaches the model and poster status reported by the
// health endpoint. Either may be nil.
func WithHealthSources(model ModelStatus, posters PosterStatus) HandlerOption {
	return func(h *Handler) {
		h.model = model
		h.posters = posters
	}
}

// NewHandler creates the API handler.
func NewHandler(recommender Recommender, catalog CatalogReader, cfg HandlerConfig, opts ...HandlerOption) *Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	h := &Handler{
		recommender: recommender,
		catalog:     catalog,
		config:      cfg,
		startTime:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// withTimeout derives the per-request handler context.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.config.Timeout)
}
