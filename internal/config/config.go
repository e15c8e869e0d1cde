// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Poster    PosterConfig    `koanf:"poster"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file:line in each entry.
	Caller bool `koanf:"caller"`
}

// ModelConfig locates the persisted similarity model.
type ModelConfig struct {
	Path           string            `koanf:"path"`
	Compression    string            `koanf:"compression"` // auto, zstd, lz4, none
	VerifyChecksum bool              `koanf:"verify_checksum"`
	Remote         RemoteModelConfig `koanf:"remote"`
}

// RemoteModelConfig describes an S3-compatible object holding the model.
type RemoteModelConfig struct {
	Enabled         bool   `koanf:"enabled"`
	Endpoint        string `koanf:"endpoint"`
	Bucket          string `koanf:"bucket"`
	Key             string `koanf:"key"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UseSSL          bool   `koanf:"use_ssl"`
}

// RecommendConfig sizes recommendation and featured-pick responses.
type RecommendConfig struct {
	DefaultCount     int   `koanf:"default_count"`
	CandidatePool    int   `koanf:"candidate_pool"`
	FeaturedSize     int   `koanf:"featured_size"`
	FeaturedTopPool  int   `koanf:"featured_top_pool"`
	FeaturedTopPicks int   `koanf:"featured_top_picks"`
	Seed             int64 `koanf:"seed"` // 0 seeds from the clock
}

// PosterConfig controls poster reachability checks.
type PosterConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BaseURL         string        `koanf:"base_url"`
	Timeout         time.Duration `koanf:"timeout"`
	CacheSize       int           `koanf:"cache_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	RateLimit       float64       `koanf:"rate_limit"` // probes per second, 0 = unlimited
	RateBurst       int           `koanf:"rate_burst"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	Concurrency     int           `koanf:"concurrency"`

	// StorePath persists probe results in BadgerDB. Empty disables it.
	StorePath string `koanf:"store_path"`
}

// SecurityConfig holds CORS and rate-limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
