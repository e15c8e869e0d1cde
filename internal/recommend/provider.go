// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// ModelLoader loads the persisted model.
type ModelLoader interface {
	Load(ctx context.Context) (*storage.Model, *storage.ModelMetadata, error)
}

// Provider owns the process's model. The first Get performs the load;
// concurrent first callers wait for that single load and share its result,
// including its error.
type Provider struct {
	loader ModelLoader
	logger zerolog.Logger

	once  sync.Once
	model *storage.Model
	meta  *storage.ModelMetadata
	err   error

	loads    atomic.Int32
	loadTime time.Duration

	// OnLoad, when set before the first Get, observes a successful load.
	OnLoad func(items int, took time.Duration)
}

// NewProvider creates a provider backed by loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProvider(loader ModelLoader, logger zerolog.Logger) *Provider {
	return &Provider{
		loader: loader,
		logger: logger.With().Str("component", "model_provider").Logger(),
	}
}

// Get returns the model, loading it on first use. Load failures wrap
// ErrModelUnavailable.
func (p *Provider) Get(ctx context.Context) (*storage.Model, error) {
	p.once.Do(func() {
		p.load(context.WithoutCancel(ctx))
	})
	return p.model, p.err
}

func (p *Provider) load(ctx context.Context) {
	p.loads.Add(1)
	start := time.Now()

	model, meta, err := p.loader.Load(ctx)
	if err != nil {
		p.err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		p.logger.Error().Err(err).Msg("Model load failed")
		return
	}

	p.model = model
	p.meta = meta
	p.loadTime = time.Since(start)

	event := p.logger.Info().
		Int("items", model.Catalog.Len()).
		Int("titles", len(model.Titles)).
		Dur("took", p.loadTime)
	if meta != nil {
		event = event.Str("checksum", meta.Checksum).Time("built_at", meta.BuiltAt)
	}
	event.Msg("Model loaded")

	if p.OnLoad != nil {
		p.OnLoad(model.Catalog.Len(), p.loadTime)
	}
}

// Metadata returns the sidecar metadata of the loaded model, if any.
func (p *Provider) Metadata() *storage.ModelMetadata {
	if !p.Loaded() {
		return nil
	}
	return p.meta
}

// Loaded reports whether a model has been loaded successfully.
func (p *Provider) Loaded() bool {
	if p.loads.Load() == 0 {
		return false
	}
	m, err := p.Get(context.Background())
	return err == nil && m != nil
}
