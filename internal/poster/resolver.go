// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

const (
	// DefaultBaseURL is the TMDB image base used for relative references.
	DefaultBaseURL = "https://image.tmdb.org/t/p/w342/"

	staticPrefix   = "/static/"
	cacheType      = "poster"
	storeCacheType = "poster_store"
	breakerName    = "poster-probe"
)

// errAbandoned marks a probe cut short by the caller's context rather than by
// the probe timeout. It says nothing about the poster or the origin.
var errAbandoned = errors.New("poster probe abandoned by caller")

// Config controls poster resolution.
type Config struct {
	// Enabled turns reachability probing on. When false, URLs are built but
	// never checked.
	Enabled bool

	// BaseURL prefixes relative references.
	BaseURL string

	// Timeout bounds a single probe, including the rate-limiter wait.
	Timeout time.Duration

	// CacheSize is the maximum number of memoized probe results.
	CacheSize int

	// CacheTTL is how long a probe result stays valid.
	CacheTTL time.Duration

	// RateLimit is the sustained probe rate per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the limiter bucket size.
	RateBurst int

	// BreakerFailures is the number of consecutive probe errors that open
	// the circuit.
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open before a trial probe.
	BreakerTimeout time.Duration

	// Concurrency bounds parallel probes in ResolveAll.
	Concurrency int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		BaseURL:         DefaultBaseURL,
		Timeout:         3 * time.Second,
		CacheSize:       10000,
		CacheTTL:        24 * time.Hour,
		RateLimit:       20,
		RateBurst:       10,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		Concurrency:     8,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("poster base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("poster timeout must be positive, got %s", c.Timeout)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("poster cache_size must be positive, got %d", c.CacheSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("poster cache_ttl must be positive, got %s", c.CacheTTL)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("poster rate_limit must be non-negative, got %f", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("poster rate_burst must be positive when rate_limit is set, got %d", c.RateBurst)
	}
	return nil
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the client used for probes.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithProbeStore adds a persistent second-level cache behind the LRU.
func WithProbeStore(store ProbeStore) Option {
	return func(r *Resolver) {
		r.store = store
	}
}

// Resolver turns poster references into displayable URLs.
type Resolver struct {
	cfg     Config
	client  *http.Client
	cache   *cache.LRU[string, bool]
	store   ProbeStore
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[bool]
	logger  zerolog.Logger
}

// NewResolver creates a resolver.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResolver(cfg Config, logger zerolog.Logger, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	r := &Resolver{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   cache.NewLRU[string, bool](cfg.CacheSize, cfg.CacheTTL),
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
		logger:  logger.With().Str("component", "poster").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	r.breaker = gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errAbandoned)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Poster probe circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return r, nil
}

// URL builds the candidate URL for ref without probing. It returns "" for
// blank references.
func (r *Resolver) URL(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, staticPrefix):
		return ref
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	default:
		return r.cfg.BaseURL + strings.TrimLeft(ref, "/")
	}
}

// Resolve returns a usable URL for ref, or "" when the poster is missing or
// unreachable.
func (r *Resolver) Resolve(ctx context.Context, ref string) string {
	full := r.URL(ref)
	if full == "" || strings.HasPrefix(full, staticPrefix) || !r.cfg.Enabled {
		return full
	}

	if ok, hit := r.cache.Get(full); hit {
		metrics.CacheHits.WithLabelValues(cacheType).Inc()
		if ok {
			return full
		}
		return ""
	}
	metrics.CacheMisses.WithLabelValues(cacheType).Inc()

	if r.store != nil {
		if ok, found := r.store.Get(full); found {
			metrics.CacheHits.WithLabelValues(storeCacheType).Inc()
			r.cache.Add(full, ok)
			if ok {
				return full
			}
			return ""
		}
		metrics.CacheMisses.WithLabelValues(storeCacheType).Inc()
	}

	ok, cacheable := r.probe(ctx, full)
	if cacheable {
		r.cache.Add(full, ok)
		metrics.CacheSize.WithLabelValues(cacheType).Set(float64(r.cache.Len()))
		if r.store != nil {
			if err := r.store.Put(full, ok, r.cfg.CacheTTL); err != nil {
				r.logger.Debug().Err(err).Str("url", full).Msg("Poster store write failed")
			}
		}
	}
	if ok {
		return full
	}
	return ""
}

// ResolveAll resolves refs concurrently. Duplicate references are probed
// once. The result is index-aligned with refs.
func (r *Resolver) ResolveAll(ctx context.Context, refs []string) []string {
	out := make([]string, len(refs))
	if len(refs) == 0 {
		return out
	}

	var mu sync.Mutex
	resolved := make(map[string]string, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		g.Go(func() error {
			url := r.Resolve(gctx, ref)
			mu.Lock()
			resolved[ref] = url
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	for i, ref := range refs {
		out[i] = resolved[ref]
	}
	return out
}

// probe checks full with a bounded HEAD request. cacheable is false when the
// probe was skipped by the limiter or the open circuit, or when the caller's
// context ended before the probe finished. Only the probe's own timeout is a
// cacheable failure.
func (r *Resolver) probe(parent context.Context, full string) (ok, cacheable bool) {
	ctx, cancel := context.WithTimeout(parent, r.cfg.Timeout)
	defer cancel()

	if err := r.limiter.Wait(ctx); err != nil {
		metrics.RecordPosterProbe("rejected", 0)
		r.logger.Debug().Err(err).Str("url", full).Msg("Poster probe throttled")
		return false, false
	}

	start := time.Now()
	ok, err := r.breaker.Execute(func() (bool, error) {
		ok, err := r.head(ctx, full)
		if err != nil && parent.Err() != nil {
			return false, fmt.Errorf("%w: %w", errAbandoned, parent.Err())
		}
		return ok, err
	})
	took := time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordPosterProbe("rejected", 0)
		return false, false
	case errors.Is(err, errAbandoned):
		metrics.RecordPosterProbe("abandoned", took)
		r.logger.Debug().Err(err).Str("url", full).Msg("Poster probe abandoned")
		return false, false
	case err != nil:
		metrics.RecordPosterProbe("error", took)
		r.logger.Debug().Err(err).Str("url", full).Msg("Poster probe failed")
		return false, true
	case !ok:
		metrics.RecordPosterProbe("unusable", took)
		return false, true
	default:
		metrics.RecordPosterProbe("ok", took)
		return true, true
	}
}

// head performs the HEAD request. Only transport errors are returned as
// errors; non-image responses are a negative result, not a failure.
func (r *Resolver) head(ctx context.Context, full string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, full, http.NoBody)
	if err != nil {
		return false, nil //nolint:nilerr // malformed URLs are a negative result
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // HEAD body is empty
	}()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	return resp.StatusCode == http.StatusOK && strings.Contains(contentType, "image"), nil
}

// CleanupExpired drops expired probe results and returns how many were
// removed from the LRU. The persistent store, if any, is garbage collected.
func (r *Resolver) CleanupExpired() int {
	if r.store != nil {
		if err := r.store.RunGC(); err != nil {
			r.logger.Warn().Err(err).Msg("Poster store garbage collection failed")
		}
	}
	removed := r.cache.CleanupExpired()
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(cacheType).Add(float64(removed))
	}
	metrics.CacheSize.WithLabelValues(cacheType).Set(float64(r.cache.Len()))
	return removed
}

// CacheStats returns the probe cache counters.
func (r *Resolver) CacheStats() cache.Stats {
	return r.cache.Stats()
}

// BreakerState returns the circuit breaker state name.
func (r *Resolver) BreakerState() string {
	return r.breaker.State().String()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
