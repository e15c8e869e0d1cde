// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// staticLoader implements ModelLoader for testing.
type staticLoader struct {
	model *storage.Model
	meta  *storage.ModelMetadata
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (l *staticLoader) Load(ctx context.Context) (*storage.Model, *storage.ModelMetadata, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.err != nil {
		return nil, nil, l.err
	}
	return l.model, l.meta, nil
}

func newModel(items []catalog.Item, sim [][]algorithms.Neighbor) *storage.Model {
	cat := catalog.New(items)
	return &storage.Model{Catalog: cat, Similarity: sim, Titles: cat.TitleIndex()}
}

// threeItemModel is the A/B/C fixture: A's neighbors are B (0.9) and C (0.1).
func threeItemModel() *storage.Model {
	return newModel(
		[]catalog.Item{
			{Title: "A", Genres: "Drama", Languages: "English"},
			{Title: "B", Genres: "Drama", Languages: "Hindi"},
			{Title: "C", Genres: "Comedy", Languages: "English"},
		},
		[][]algorithms.Neighbor{
			{{Pos: 1, Score: 0.9}, {Pos: 2, Score: 0.1}},
			{{Pos: 0, Score: 0.9}},
			{{Pos: 0, Score: 0.1}},
		},
	)
}

func newTestProvider(m *storage.Model) *Provider {
	return NewProvider(&staticLoader{model: m}, zerolog.Nop())
}

func newTestEngine(t *testing.T, m *storage.Model, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(newTestProvider(m), nil, zerolog.Nop(), WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func newTestAggregator(t *testing.T, m *storage.Model, seed int64) *Aggregator {
	t.Helper()
	a, err := NewAggregator(newTestProvider(m), nil, zerolog.Nop(), WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	return a
}
