// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Sentinel errors.
var (
	// ErrNoSeed is returned when a request carries no seed title.
	ErrNoSeed = errors.New("no seed title given")

	// ErrModelUnavailable is returned when the model cannot be loaded.
	ErrModelUnavailable = errors.New("recommendation model unavailable")
)

// Request is a recommendation query.
type Request struct {
	// Seeds are the titles to anchor on. Only the first is used.
	Seeds []string

	// Genres restricts results to items sharing at least one genre.
	Genres []string

	// Languages restricts results to items sharing at least one language.
	Languages []string

	// Count is the number of neighbors to draw before filtering.
	// Zero uses Config.DefaultCount.
	Count int
}

// Record is a catalog item rendered for API responses.
type Record struct {
	Title     string   `json:"title"`
	Overview  string   `json:"overview"`
	Genres    string   `json:"genres"`
	Languages string   `json:"languages"`
	Industry  string   `json:"industry,omitempty"`
	PosterURL string   `json:"poster_url"`
	Rating    float64  `json:"rating"`
	Year      *int     `json:"year"`
	ID        *int     `json:"id"`

	// Similarity is the 0-100 normalized score; only set on recommendations.
	Similarity *float64 `json:"similarity,omitempty"`
}

// Result is the outcome of Engine.Recommend.
type Result struct {
	// Recommendations holds the surviving neighbors in sampled order.
	Recommendations []Record

	// NotFound is set when the seed title is not in the title index.
	NotFound bool

	// SearchedTitle is the seed title as given.
	SearchedTitle string

	// SeedPosition is the catalog position of the seed, -1 when not found.
	SeedPosition int
}

// YearRange is the span of known release years. Both bounds are nil when
// no item has a year.
type YearRange struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

// Summary holds catalog-wide statistics.
type Summary struct {
	TotalUniqueLanguages int            `json:"total_unique_languages"`
	TotalUniqueGenres    int            `json:"total_unique_genres"`
	YearRange            YearRange      `json:"year_range"`
	IndustryCounts       map[string]int `json:"industry_counts"`
	LanguageCounts       map[string]int `json:"language_counts"`
	GenreCounts          map[string]int `json:"genre_counts"`
}

// PosterResolver turns raw poster references into displayable URLs.
// Implementations return "" for unusable posters and never fail.
type PosterResolver interface {
	ResolveAll(ctx context.Context, refs []string) []string
}

// passthroughPosters returns references unchanged.
type passthroughPosters struct{}

func (passthroughPosters) ResolveAll(_ context.Context, refs []string) []string {
	return refs
}

// newRecord renders it without a similarity score.
func newRecord(it *catalog.Item, poster string) Record {
	return Record{
		Title:     it.Title,
		Overview:  it.Overview,
		Genres:    it.Genres,
		Languages: it.Languages,
		Industry:  it.Industry,
		PosterURL: poster,
		Rating:    it.Rating,
		Year:      it.Year,
		ID:        it.ID,
	}
}
