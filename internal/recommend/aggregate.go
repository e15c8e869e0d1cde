// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Aggregator provides read-only catalog views: random samples, featured
// picks, vocabularies, and summary statistics.
type Aggregator struct {
	config   *Config
	logger   zerolog.Logger
	provider *Provider
	posters  PosterResolver
	rand     *sampler
}

// NewAggregator creates an aggregator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(provider *Provider, cfg *Config, logger zerolog.Logger, opts ...Option) (*Aggregator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := buildOptions(cfg.Seed, opts)
	return &Aggregator{
		config:   cfg,
		logger:   logger.With().Str("component", "aggregate").Logger(),
		provider: provider,
		posters:  o.posters,
		rand:     &sampler{rng: o.rng},
	}, nil
}

func (a *Aggregator) catalog(ctx context.Context) (*catalog.Catalog, error) {
	m, err := a.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	return m.Catalog, nil
}

// Random returns min(count, N) distinct items chosen uniformly. A
// non-positive count uses Config.RandomCount.
func (a *Aggregator) Random(ctx context.Context, count int) ([]Record, error) {
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = a.config.RandomCount
	}
	return a.records(ctx, cat, a.rand.sample(cat.Len(), count)), nil
}

// Featured returns up to FeaturedSize items from one randomly chosen
// language: up to FeaturedTopPicks drawn from that language's
// FeaturedTopPool best-rated items, topped up with random picks from the
// rest, then shuffled.
func (a *Aggregator) Featured(ctx context.Context) ([]Record, error) {
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return a.records(ctx, cat, a.featuredPositions(cat)), nil
}

func (a *Aggregator) featuredPositions(cat *catalog.Catalog) []int {
	langs := cat.Languages().Tokens()
	if len(langs) == 0 {
		return nil
	}
	lang := langs[a.rand.intn(len(langs))]

	pool := cat.Languages().Positions(lang)
	total := min(a.config.FeaturedSize, len(pool))
	if total == 0 {
		return nil
	}

	ranked := make([]int, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return cat.At(ranked[i]).Rating > cat.At(ranked[j]).Rating
	})
	top := ranked[:min(a.config.FeaturedTopPool, len(ranked))]

	picked := make(map[int]struct{}, total)
	out := make([]int, 0, total)
	for _, i := range a.rand.sample(len(top), min(a.config.FeaturedTopPicks, total)) {
		out = append(out, top[i])
		picked[top[i]] = struct{}{}
	}

	rest := make([]int, 0, len(pool)-len(out))
	for _, pos := range pool {
		if _, ok := picked[pos]; !ok {
			rest = append(rest, pos)
		}
	}
	for _, i := range a.rand.sample(len(rest), total-len(out)) {
		out = append(out, rest[i])
	}

	a.rand.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	a.logger.Debug().Str("language", lang).Int("pool", len(pool)).Int("picked", len(out)).Msg("featured picks")
	return out
}

func (a *Aggregator) records(ctx context.Context, cat *catalog.Catalog, positions []int) []Record {
	refs := make([]string, len(positions))
	for i, pos := range positions {
		refs[i] = cat.At(pos).PosterRef
	}
	posters := a.posters.ResolveAll(ctx, refs)

	out := make([]Record, len(positions))
	for i, pos := range positions {
		out[i] = newRecord(cat.At(pos), posters[i])
	}
	return out
}

// Genres returns the sorted genre vocabulary.
func (a *Aggregator) Genres(ctx context.Context) ([]string, error) {
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Genres().Tokens(), nil
}

// Languages returns the sorted, cleaned language vocabulary.
func (a *Aggregator) Languages(ctx context.Context) ([]string, error) {
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Languages().Tokens(), nil
}

// Titles returns every catalog title in sorted order.
func (a *Aggregator) Titles(ctx context.Context) ([]string, error) {
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Titles(), nil
}

// Summary computes catalog statistics. Language and genre counts are the
// number of items carrying each token.
func (a *Aggregator) Summary(ctx context.Context) (*Summary, error) {
	cat, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		TotalUniqueLanguages: cat.Languages().Len(),
		TotalUniqueGenres:    cat.Genres().Len(),
		IndustryCounts:       cat.IndustryCounts(),
		LanguageCounts:       cat.Languages().Counts(),
		GenreCounts:          cat.Genres().Counts(),
	}

	for i := range cat.Items() {
		y := cat.At(i).Year
		if y == nil {
			continue
		}
		if s.YearRange.Start == nil || *y < *s.YearRange.Start {
			v := *y
			s.YearRange.Start = &v
		}
		if s.YearRange.End == nil || *y > *s.YearRange.End {
			v := *y
			s.YearRange.End = &v
		}
	}

	return s, nil
}
