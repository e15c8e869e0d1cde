// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateModel,
		c.validateRecommend,
		c.validatePoster,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateServer validates the HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validCompressions = map[string]bool{
	"":     true,
	"auto": true,
	"zstd": true,
	"lz4":  true,
	"none": true,
}

// validateModel validates the model location settings
func (c *Config) validateModel() error {
	if c.Model.Path == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if !validCompressions[c.Model.Compression] {
		return fmt.Errorf("MODEL_COMPRESSION must be one of: auto, zstd, lz4, none")
	}
	return c.validateRemoteModel()
}

// validateRemoteModel validates the remote model source (only if enabled)
func (c *Config) validateRemoteModel() error {
	r := c.Model.Remote
	if !r.Enabled {
		return nil
	}
	if r.Endpoint == "" {
		return fmt.Errorf("MODEL_REMOTE_ENDPOINT is required when MODEL_REMOTE_ENABLED=true")
	}
	if strings.Contains(r.Endpoint, "://") {
		return fmt.Errorf("MODEL_REMOTE_ENDPOINT must be host[:port] without a scheme")
	}
	if r.Bucket == "" {
		return fmt.Errorf("MODEL_REMOTE_BUCKET is required when MODEL_REMOTE_ENABLED=true")
	}
	if r.Key == "" {
		return fmt.Errorf("MODEL_REMOTE_KEY is required when MODEL_REMOTE_ENABLED=true")
	}
	if c.Server.IsProduction() && containsPlaceholder(r.SecretAccessKey) {
		return fmt.Errorf("MODEL_REMOTE_SECRET_ACCESS_KEY contains a placeholder value")
	}
	return nil
}

// Recommendation sizing bounds
const (
	maxResultCount  = 50
	maxFeaturedPool = 10000
)

// validateRecommend validates recommendation and featured-pick sizing
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultCount < 1 || r.DefaultCount > maxResultCount {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be between 1 and %d", maxResultCount)
	}
	if r.CandidatePool < r.DefaultCount {
		return fmt.Errorf("RECOMMEND_CANDIDATE_POOL must be at least RECOMMEND_DEFAULT_COUNT")
	}
	if r.FeaturedSize < 1 || r.FeaturedSize > maxResultCount {
		return fmt.Errorf("FEATURED_SIZE must be between 1 and %d", maxResultCount)
	}
	if r.FeaturedTopPool < 1 || r.FeaturedTopPool > maxFeaturedPool {
		return fmt.Errorf("FEATURED_TOP_POOL must be between 1 and %d", maxFeaturedPool)
	}
	if r.FeaturedTopPicks < 0 || r.FeaturedTopPicks > r.FeaturedSize {
		return fmt.Errorf("FEATURED_TOP_PICKS must be between 0 and FEATURED_SIZE")
	}
	return nil
}

// validatePoster validates poster probing settings
func (c *Config) validatePoster() error {
	p := c.Poster
	if p.BaseURL != "" {
		if err := validateHTTPURL(p.BaseURL, "POSTER_BASE_URL"); err != nil {
			return err
		}
	}
	if !p.Enabled {
		return nil
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("POSTER_TIMEOUT must be positive")
	}
	if p.CacheSize < 1 {
		return fmt.Errorf("POSTER_CACHE_SIZE must be at least 1")
	}
	if p.CacheTTL <= 0 {
		return fmt.Errorf("POSTER_CACHE_TTL must be positive")
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("POSTER_RATE_LIMIT must not be negative")
	}
	if p.RateLimit > 0 && p.RateBurst < 1 {
		return fmt.Errorf("POSTER_RATE_BURST must be at least 1 when POSTER_RATE_LIMIT is set")
	}
	if p.BreakerFailures < 1 {
		return fmt.Errorf("POSTER_BREAKER_FAILURES must be at least 1")
	}
	if p.Concurrency < 1 {
		return fmt.Errorf("POSTER_CONCURRENCY must be at least 1")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if a wildcard origin is configured in
// production, which should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Server.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that value is an absolute http(s) URL
func validateHTTPURL(value, name string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}

// placeholderPatterns indicate a value that was never filled in.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
