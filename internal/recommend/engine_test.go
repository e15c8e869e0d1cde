// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

func titles(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestEngine_Recommend_ThreeItems(t *testing.T) {
	ctx := context.Background()

	t.Run("returns both neighbors ranked by similarity", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		res, err := e.Recommend(ctx, Request{Seeds: []string{"A"}, Count: 2})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if res.NotFound {
			t.Fatal("NotFound = true, want false")
		}
		if len(res.Recommendations) != 2 {
			t.Fatalf("got %v, want B and C", titles(res.Recommendations))
		}

		scores := map[string]float64{}
		for _, r := range res.Recommendations {
			if r.Title == "A" {
				t.Error("seed returned in results")
			}
			scores[r.Title] = *r.Similarity
		}
		if scores["B"] != 100 {
			t.Errorf("B similarity = %v, want 100", scores["B"])
		}
		if scores["C"] != 11.1 {
			t.Errorf("C similarity = %v, want 11.1", scores["C"])
		}
	})

	t.Run("genre filter keeps only comedy", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		res, err := e.Recommend(ctx, Request{Seeds: []string{"A"}, Genres: []string{"Comedy"}, Count: 2})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if got := titles(res.Recommendations); len(got) != 1 || got[0] != "C" {
			t.Errorf("got %v, want [C]", got)
		}
		// Normalization uses the max over the draw, before filtering.
		if got := *res.Recommendations[0].Similarity; got != 11.1 {
			t.Errorf("C similarity = %v, want 11.1", got)
		}
	})

	t.Run("language filter", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		res, err := e.Recommend(ctx, Request{Seeds: []string{"a"}, Languages: []string{"Hindi"}, Count: 2})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if got := titles(res.Recommendations); len(got) != 1 || got[0] != "B" {
			t.Errorf("got %v, want [B]", got)
		}
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		res, err := e.Recommend(ctx, Request{
			Seeds:     []string{"A"},
			Genres:    []string{"Comedy"},
			Languages: []string{"Hindi"},
			Count:     2,
		})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(res.Recommendations) != 0 {
			t.Errorf("got %v, want none", titles(res.Recommendations))
		}
		if res.NotFound {
			t.Error("found-but-empty reported as NotFound")
		}
	})

	t.Run("unknown seed", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		res, err := e.Recommend(ctx, Request{Seeds: []string{"Unknown Title"}})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if !res.NotFound || res.SearchedTitle != "Unknown Title" || res.SeedPosition != -1 {
			t.Errorf("result = %+v, want not found for Unknown Title", res)
		}
		if e.Stats().NotFound != 1 {
			t.Errorf("Stats().NotFound = %d, want 1", e.Stats().NotFound)
		}
	})

	t.Run("only first seed is used", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		res, err := e.Recommend(ctx, Request{Seeds: []string{"  B ", "A"}, Count: 5})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if got := titles(res.Recommendations); len(got) != 1 || got[0] != "A" {
			t.Errorf("got %v, want [A]", got)
		}
		if res.SeedPosition != 1 {
			t.Errorf("SeedPosition = %d, want 1", res.SeedPosition)
		}
	})

	t.Run("no seed is an error", func(t *testing.T) {
		e := newTestEngine(t, threeItemModel(), 1)
		if _, err := e.Recommend(ctx, Request{}); !errors.Is(err, ErrNoSeed) {
			t.Errorf("Recommend() error = %v, want ErrNoSeed", err)
		}
	})
}

// largeModel builds n items where item 0 lists every other item (and
// itself) as a neighbor with decreasing scores.
func largeModel(n int) *storage.Model {
	items := make([]catalog.Item, n)
	genres := []string{"Drama", "Comedy", "Action Drama", "Horror"}
	langs := []string{"English", "Hindi, English", "French", "Tamil"}
	for i := range items {
		items[i] = catalog.Item{
			Title:     fmt.Sprintf("Movie %d", i),
			Genres:    genres[i%len(genres)],
			Languages: langs[i%len(langs)],
		}
	}

	sim := make([][]algorithms.Neighbor, n)
	row := []algorithms.Neighbor{{Pos: 0, Score: 1}}
	for i := 1; i < n; i++ {
		row = append(row, algorithms.Neighbor{Pos: i, Score: 1 - float64(i)/float64(n)})
	}
	row = append(row, algorithms.Neighbor{Pos: 1, Score: 0})
	sim[0] = row
	return newModel(items, sim)
}

func TestEngine_Recommend_Properties(t *testing.T) {
	ctx := context.Background()
	m := largeModel(80)

	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			unfiltered, err := newTestEngine(t, m, seed).Recommend(ctx, Request{Seeds: []string{"Movie 0"}, Count: 20})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			filtered, err := newTestEngine(t, m, seed).Recommend(ctx, Request{
				Seeds:     []string{"Movie 0"},
				Count:     20,
				Genres:    []string{"Drama"},
				Languages: []string{"English"},
			})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}

			if len(filtered.Recommendations) > len(unfiltered.Recommendations) {
				t.Errorf("filter increased results: %d > %d", len(filtered.Recommendations), len(unfiltered.Recommendations))
			}
			if len(unfiltered.Recommendations) > 20 {
				t.Errorf("got %d results, want <= 20", len(unfiltered.Recommendations))
			}

			for _, r := range unfiltered.Recommendations {
				if r.Title == "Movie 0" {
					t.Error("seed returned in results")
				}
				s := *r.Similarity
				if s <= 0 || s > 100 {
					t.Errorf("similarity %v outside (0, 100]", s)
				}
				if math.Abs(s*10-math.Round(s*10)) > 1e-9 {
					t.Errorf("similarity %v has more than one decimal", s)
				}
			}

			for _, r := range filtered.Recommendations {
				if !strings.Contains(r.Genres, "Drama") || !strings.Contains(r.Languages, "English") {
					t.Errorf("filtered result %q (%s / %s) does not match filters", r.Title, r.Genres, r.Languages)
				}
			}
		})
	}
}

func TestEngine_Recommend_CandidatePoolBound(t *testing.T) {
	m := largeModel(120)
	e := newTestEngine(t, m, 3)
	res, err := e.Recommend(context.Background(), Request{Seeds: []string{"Movie 0"}, Count: 50})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	// The first 50 neighbors are positions 0..49; the seed is skipped.
	for _, r := range res.Recommendations {
		var n int
		if _, err := fmt.Sscanf(r.Title, "Movie %d", &n); err != nil || n >= 50 {
			t.Errorf("result %q outside the candidate pool", r.Title)
		}
	}
	if len(res.Recommendations) != 49 {
		t.Errorf("got %d results, want 49", len(res.Recommendations))
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	m := largeModel(60)
	a, _ := newTestEngine(t, m, 99).Recommend(context.Background(), Request{Seeds: []string{"Movie 0"}})
	b, _ := newTestEngine(t, m, 99).Recommend(context.Background(), Request{Seeds: []string{"Movie 0"}})
	if fmt.Sprint(titles(a.Recommendations)) != fmt.Sprint(titles(b.Recommendations)) {
		t.Errorf("same seed gave different results: %v vs %v", titles(a.Recommendations), titles(b.Recommendations))
	}
}

func TestEngine_Recommend_ZeroScores(t *testing.T) {
	m := newModel(
		[]catalog.Item{{Title: "A"}, {Title: "B"}, {Title: "C"}},
		[][]algorithms.Neighbor{{{Pos: 1, Score: 0}, {Pos: 2, Score: 0}}, nil, nil},
	)
	res, err := newTestEngine(t, m, 1).Recommend(context.Background(), Request{Seeds: []string{"A"}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("got %v, want none for zero scores", titles(res.Recommendations))
	}
}

type recordingPosters struct {
	seen []string
}

func (r *recordingPosters) ResolveAll(_ context.Context, refs []string) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		r.seen = append(r.seen, ref)
		out[i] = "resolved:" + ref
	}
	return out
}

func TestEngine_Recommend_ResolvesPosters(t *testing.T) {
	m := newModel(
		[]catalog.Item{{Title: "A"}, {Title: "B", PosterRef: "/b.jpg"}},
		[][]algorithms.Neighbor{{{Pos: 1, Score: 0.5}}, nil},
	)
	posters := &recordingPosters{}
	e, err := NewEngine(newTestProvider(m), nil, zerolog.Nop(),
		WithRand(rand.New(rand.NewSource(1))), WithPosterResolver(posters))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	res, err := e.Recommend(context.Background(), Request{Seeds: []string{"A"}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].PosterURL != "resolved:/b.jpg" {
		t.Errorf("recommendations = %+v", res.Recommendations)
	}
}

func TestEngine_Recommend_ModelUnavailable(t *testing.T) {
	p := NewProvider(&staticLoader{err: storage.ErrModelNotFound}, zerolog.Nop())
	e, err := NewEngine(p, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	_, err = e.Recommend(context.Background(), Request{Seeds: []string{"A"}})
	if !errors.Is(err, ErrModelUnavailable) || !errors.Is(err, storage.ErrModelNotFound) {
		t.Errorf("Recommend() error = %v, want ErrModelUnavailable wrapping ErrModelNotFound", err)
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidatePool = 0
	if _, err := NewEngine(newTestProvider(threeItemModel()), cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() error = nil, want invalid config error")
	}
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		score, max, want float64
	}{
		{0.9, 0.9, 100},
		{0.1, 0.9, 11.1},
		{0.33333, 1, 33.3},
		{0.5, 0, 50},
		{0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%v", tt.score, tt.max), func(t *testing.T) {
			if got := NormalizeScore(tt.score, tt.max); got != tt.want {
				t.Errorf("NormalizeScore(%v, %v) = %v, want %v", tt.score, tt.max, got, tt.want)
			}
		})
	}
}
