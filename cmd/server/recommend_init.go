// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/poster"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// RecommendComponents holds the query-side objects built from one model.
type RecommendComponents struct {
	Provider   *recommend.Provider
	Engine     *recommend.Engine
	Aggregator *recommend.Aggregator
	Posters    *poster.Resolver

	// PosterStore is nil unless poster.store_path is set.
	PosterStore *poster.BadgerStore
}

// Close releases the poster store.
func (c *RecommendComponents) Close() error {
	if c.PosterStore == nil {
		return nil
	}
	return c.PosterStore.Close()
}

// initRecommend loads the model and builds the engine, aggregator and
// poster resolver around it. A model that cannot be loaded is fatal to the
// caller.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	if err := fetchRemoteModel(ctx, &cfg.Model, logger); err != nil {
		return nil, err
	}

	codec, err := storage.ParseCompression(cfg.Model.Compression)
	if err != nil {
		return nil, err
	}
	store := storage.NewStore(storage.StoreConfig{
		Path:           cfg.Model.Path,
		Compression:    codec,
		VerifyChecksum: cfg.Model.VerifyChecksum,
	})

	provider := recommend.NewProvider(store, logger)
	provider.OnLoad = metrics.RecordModelLoad

	if _, err := provider.Get(ctx); err != nil {
		return nil, fmt.Errorf("load model %s: %w", store.Path(), err)
	}

	var (
		posterOpts []poster.Option
		probeStore *poster.BadgerStore
	)
	if cfg.Poster.Enabled && cfg.Poster.StorePath != "" {
		probeStore, err = poster.OpenBadgerStore(cfg.Poster.StorePath, logger)
		if err != nil {
			return nil, err
		}
		posterOpts = append(posterOpts, poster.WithProbeStore(probeStore))
	}

	resolver, err := poster.NewResolver(buildPosterConfig(&cfg.Poster), logger, posterOpts...)
	if err != nil {
		closeStore(probeStore, logger)
		return nil, fmt.Errorf("create poster resolver: %w", err)
	}

	engineCfg := buildEngineConfig(&cfg.Recommend)
	engine, err := recommend.NewEngine(provider, engineCfg, logger, recommend.WithPosterResolver(resolver))
	if err != nil {
		closeStore(probeStore, logger)
		return nil, fmt.Errorf("create engine: %w", err)
	}
	aggregator, err := recommend.NewAggregator(provider, engineCfg, logger, recommend.WithPosterResolver(resolver))
	if err != nil {
		closeStore(probeStore, logger)
		return nil, fmt.Errorf("create aggregator: %w", err)
	}

	logger.Info().
		Int("default_count", engineCfg.DefaultCount).
		Int("candidate_pool", engineCfg.CandidatePool).
		Bool("poster_checks", cfg.Poster.Enabled).
		Msg("Recommendation engine ready")

	return &RecommendComponents{
		Provider:    provider,
		Engine:      engine,
		Aggregator:  aggregator,
		Posters:     resolver,
		PosterStore: probeStore,
	}, nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func closeStore(store *poster.BadgerStore, logger zerolog.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close poster store")
	}
}

// fetchRemoteModel downloads the model from object storage when remote
// loading is enabled. An existing local file is kept if the remote object
// is missing.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func fetchRemoteModel(ctx context.Context, cfg *config.ModelConfig, logger zerolog.Logger) error {
	if !cfg.Remote.Enabled {
		return nil
	}

	src, err := storage.NewRemoteSource(buildRemoteConfig(&cfg.Remote), logger)
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	err = src.Fetch(fetchCtx, cfg.Path)
	if errors.Is(err, storage.ErrModelNotFound) {
		if _, statErr := os.Stat(cfg.Path); statErr == nil {
			logger.Warn().Err(err).Str("path", cfg.Path).Msg("Remote model missing, using local copy")
			return nil
		}
	}
	return err
}

func buildRemoteConfig(cfg *config.RemoteModelConfig) storage.RemoteConfig {
	return storage.RemoteConfig{
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		Key:             cfg.Key,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          cfg.UseSSL,
	}
}

// buildEngineConfig maps the recommend section onto the engine config.
// MaxCount follows the request validation bound.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	out := recommend.DefaultConfig()
	out.DefaultCount = cfg.DefaultCount
	out.CandidatePool = cfg.CandidatePool
	out.FeaturedSize = cfg.FeaturedSize
	out.FeaturedTopPool = cfg.FeaturedTopPool
	out.FeaturedTopPicks = cfg.FeaturedTopPicks
	out.Seed = cfg.Seed
	return out
}

// buildPosterConfig maps the poster section onto the resolver config.
func buildPosterConfig(cfg *config.PosterConfig) poster.Config {
	out := poster.DefaultConfig()
	out.Enabled = cfg.Enabled
	out.BaseURL = cfg.BaseURL
	out.Timeout = cfg.Timeout
	out.CacheSize = cfg.CacheSize
	out.CacheTTL = cfg.CacheTTL
	out.RateLimit = cfg.RateLimit
	out.RateBurst = cfg.RateBurst
	out.BreakerFailures = cfg.BreakerFailures
	out.Concurrency = cfg.Concurrency
	return out
}
