// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
)

// Config contains the query-time parameters of the engine and aggregator.
type Config struct {
	// DefaultCount is the number of neighbors drawn when a request does not
	// specify one.
	DefaultCount int `json:"default_count"`

	// MaxCount caps the per-request draw.
	MaxCount int `json:"max_count"`

	// CandidatePool bounds the neighbor list sampled from.
	CandidatePool int `json:"candidate_pool"`

	// FeaturedSize is the maximum number of featured picks.
	FeaturedSize int `json:"featured_size"`

	// FeaturedTopPool is how many top-rated items featured picks sample from.
	FeaturedTopPool int `json:"featured_top_pool"`

	// FeaturedTopPicks is how many featured picks come from the top pool.
	FeaturedTopPicks int `json:"featured_top_picks"`

	// RandomCount is the default size of a random sample.
	RandomCount int `json:"random_count"`

	// Seed seeds the random source. Zero means a time-based seed.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultCount:     10,
		MaxCount:         50,
		CandidatePool:    50,
		FeaturedSize:     10,
		FeaturedTopPool:  100,
		FeaturedTopPicks: 6,
		RandomCount:      10,
	}
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.DefaultCount < 1 {
		return fmt.Errorf("default_count must be positive, got %d", c.DefaultCount)
	}
	if c.MaxCount < c.DefaultCount {
		return fmt.Errorf("max_count must be >= default_count, got %d < %d", c.MaxCount, c.DefaultCount)
	}
	if c.CandidatePool < 1 {
		return fmt.Errorf("candidate_pool must be positive, got %d", c.CandidatePool)
	}
	if c.FeaturedSize < 1 {
		return fmt.Errorf("featured_size must be positive, got %d", c.FeaturedSize)
	}
	if c.FeaturedTopPool < 1 {
		return fmt.Errorf("featured_top_pool must be positive, got %d", c.FeaturedTopPool)
	}
	if c.FeaturedTopPicks < 0 || c.FeaturedTopPicks > c.FeaturedSize {
		return fmt.Errorf("featured_top_picks must be in [0, featured_size], got %d", c.FeaturedTopPicks)
	}
	if c.RandomCount < 1 {
		return fmt.Errorf("random_count must be positive, got %d", c.RandomCount)
	}
	return nil
}
