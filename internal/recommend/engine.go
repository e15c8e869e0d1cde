// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Engine answers recommendation requests against the provider's model.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider *Provider
	posters  PosterResolver
	rand     *sampler

	requestCount  atomic.Int64
	notFoundCount atomic.Int64
	emptyCount    atomic.Int64
}

// EngineStats is a snapshot of engine counters.
type EngineStats struct {
	Requests int64 `json:"requests"`
	NotFound int64 `json:"not_found"`
	Empty    int64 `json:"empty"`
}

// NewEngine creates an engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(provider *Provider, cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := buildOptions(cfg.Seed, opts)
	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		provider: provider,
		posters:  o.posters,
		rand:     &sampler{rng: o.rng},
	}, nil
}

// Recommend returns a randomized, filtered subset of the first seed's
// neighbors. An unknown seed yields Result.NotFound rather than an error.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	if len(req.Seeds) == 0 {
		return nil, ErrNoSeed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := e.provider.Get(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	e.requestCount.Add(1)

	seed := req.Seeds[0]
	seedPos, ok := model.Titles[catalog.NormalizeTitle(seed)]
	if !ok {
		e.notFoundCount.Add(1)
		e.logger.Debug().Str("seed", seed).Msg("seed title not found")
		return &Result{NotFound: true, SearchedTitle: seed, SeedPosition: -1}, nil
	}

	count := req.Count
	if count <= 0 {
		count = e.config.DefaultCount
	}
	if count > e.config.MaxCount {
		count = e.config.MaxCount
	}

	candidates := model.Similarity[seedPos]
	if len(candidates) > e.config.CandidatePool {
		candidates = candidates[:e.config.CandidatePool]
	}

	picks := e.rand.sample(len(candidates), count)

	maxScore := 0.0
	for _, i := range picks {
		if candidates[i].Score > maxScore {
			maxScore = candidates[i].Score
		}
	}
	if maxScore <= 0 {
		maxScore = 1.0
	}

	var genreSet, langSet *roaring.Bitmap
	if len(req.Genres) > 0 {
		genreSet = model.Catalog.Genres().Union(req.Genres)
	}
	if len(req.Languages) > 0 {
		langSet = model.Catalog.Languages().Union(req.Languages)
	}

	items := make([]*catalog.Item, 0, len(picks))
	scores := make([]float64, 0, len(picks))
	for _, i := range picks {
		nb := candidates[i]
		if nb.Pos == seedPos || nb.Score <= 0 {
			continue
		}
		pos := uint32(nb.Pos) //nolint:gosec // catalog positions fit in uint32
		if genreSet != nil && !genreSet.Contains(pos) {
			continue
		}
		if langSet != nil && !langSet.Contains(pos) {
			continue
		}
		items = append(items, model.Catalog.At(nb.Pos))
		scores = append(scores, NormalizeScore(nb.Score, maxScore))
	}

	refs := make([]string, len(items))
	for i, it := range items {
		refs[i] = it.PosterRef
	}
	posters := e.posters.ResolveAll(ctx, refs)

	recs := make([]Record, len(items))
	for i, it := range items {
		recs[i] = newRecord(it, posters[i])
		recs[i].Industry = ""
		recs[i].Similarity = &scores[i]
	}

	if len(recs) == 0 {
		e.emptyCount.Add(1)
	}

	e.logger.Debug().
		Str("seed", seed).
		Int("candidates", len(candidates)).
		Int("drawn", len(picks)).
		Int("returned", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("recommendation complete")

	return &Result{
		Recommendations: recs,
		SearchedTitle:   seed,
		SeedPosition:    seedPos,
	}, nil
}

// NormalizeScore scales score against maxScore onto 0-100 with one
// decimal place.
func NormalizeScore(score, maxScore float64) float64 {
	if maxScore == 0 {
		maxScore = 1.0
	}
	return math.Round(score/maxScore*1000) / 10
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Requests: e.requestCount.Load(),
		NotFound: e.notFoundCount.Load(),
		Empty:    e.emptyCount.Load(),
	}
}
