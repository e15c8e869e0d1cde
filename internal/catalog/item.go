// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"sort"
	"strings"
)

// Ingestion defaults.
const (
	DefaultTitle     = "Unknown Movie"
	DefaultIndustry  = "Hollywood"
	DefaultLanguages = "English"
	DefaultCast      = "unknown"
	DefaultPoster    = "https://i.ibb.co/7z6mLQp/no-image.jpg"
)

// Industry categories produced by DeriveIndustry.
const (
	IndustryIndian    = "Indian Cinema"
	IndustryHollywood = "Hollywood"
	IndustryOther     = "Other"
)

// Item is a single catalog entry.
type Item struct {
	// ID is the upstream movie identifier, nil when missing or unparseable.
	ID *int `json:"id"`

	// Title is always non-empty.
	Title string `json:"title"`

	// Overview is the plot summary.
	Overview string `json:"overview"`

	// Genres is a space-separated token list.
	Genres string `json:"genres"`

	// Languages is the raw spoken-language field (comma and/or space separated).
	Languages string `json:"languages"`

	// Industry is the film-industry category.
	Industry string `json:"industry"`

	// Cast is the top-billed cast joined into one string.
	Cast string `json:"cast"`

	// PosterRef is a poster URL, TMDB path, or local static path.
	PosterRef string `json:"poster_url"`

	// Rating is the average vote, 0 when missing.
	Rating float64 `json:"vote_average"`

	// Year is the release year, nil when missing.
	Year *int `json:"release_year"`
}

// FeatureText returns the text the feature vectorizer is fit on.
//
//nolint:gocritic // hugeParam: Item passed by value for read-only access
func (it Item) FeatureText() string {
	return it.Overview + " " + it.Genres + " " + it.Cast + " " + it.Industry
}

// Catalog is an immutable, position-addressed list of items.
type Catalog struct {
	items      []Item
	genres     *Postings
	languages  *Postings
	industries map[string]int
}

// New builds a catalog over items. The slice is retained, not copied.
func New(items []Item) *Catalog {
	c := &Catalog{
		items:      items,
		genres:     NewPostings(),
		languages:  NewPostings(),
		industries: make(map[string]int),
	}

	for pos := range items {
		it := &items[pos]
		for _, g := range GenreTokens(it.Genres) {
			c.genres.Add(g, pos)
		}
		for _, l := range LanguageTokens(it.Languages) {
			c.languages.Add(l, pos)
		}
		if it.Industry != "" {
			c.industries[it.Industry]++
		}
	}

	return c
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// At returns the item at pos. It panics if pos is out of range.
func (c *Catalog) At(pos int) *Item {
	return &c.items[pos]
}

// Items returns the underlying slice. Callers must not modify it.
func (c *Catalog) Items() []Item {
	return c.items
}

// Genres returns the genre posting lists.
func (c *Catalog) Genres() *Postings {
	return c.genres
}

// Languages returns the cleaned-language posting lists.
func (c *Catalog) Languages() *Postings {
	return c.languages
}

// IndustryCounts returns the number of items per industry.
func (c *Catalog) IndustryCounts() map[string]int {
	out := make(map[string]int, len(c.industries))
	for k, v := range c.industries {
		out[k] = v
	}
	return out
}

// Titles returns every title in ascending order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.items))
	for i := range c.items {
		titles[i] = c.items[i].Title
	}
	sort.Strings(titles)
	return titles
}

// TitleIndex maps normalized titles to positions. When two titles normalize
// to the same key the later position wins.
func (c *Catalog) TitleIndex() map[string]int {
	index := make(map[string]int, len(c.items))
	for pos := range c.items {
		index[NormalizeTitle(c.items[pos].Title)] = pos
	}
	return index
}

// DeriveIndustry maps a raw language field to an industry category.
func DeriveIndustry(languages string) string {
	for _, lang := range []string{"Telugu", "Hindi", "Malayalam", "Tamil", "Kannada"} {
		if strings.Contains(languages, lang) {
			return IndustryIndian
		}
	}
	if strings.Contains(languages, "English") {
		return IndustryHollywood
	}
	return IndustryOther
}
