// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math/rand"
	"sync"
	"time"
)

// Option customizes an Engine or Aggregator.
type Option func(*options)

type options struct {
	rng     *rand.Rand
	posters PosterResolver
}

// WithRand sets the random source. The source is used under the owner's
// lock and must not be shared with other goroutines.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithPosterResolver sets the poster resolver. Without one, poster
// references are returned unchanged.
func WithPosterResolver(r PosterResolver) Option {
	return func(o *options) { o.posters = r }
}

func buildOptions(seed int64, opts []Option) options {
	o := options{posters: passthroughPosters{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for recommendation variety
	}
	return o
}

// sampler draws from a mutex-guarded random source.
type sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// sample returns k distinct indices from [0, n) in random order.
func (s *sampler) sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Perm(n)[:k]
}

// intn returns a uniform index in [0, n).
func (s *sampler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// shuffle permutes n elements in place via swap.
func (s *sampler) shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}
