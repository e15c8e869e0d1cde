// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before the file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Model: ModelConfig{
			Path:           "model.json.zst",
			Compression:    "auto",
			VerifyChecksum: true,
			Remote: RemoteModelConfig{
				Enabled: false,
				Key:     "model.json.zst",
				UseSSL:  true,
			},
		},
		Recommend: RecommendConfig{
			DefaultCount:     10,
			CandidatePool:    50,
			FeaturedSize:     10,
			FeaturedTopPool:  100,
			FeaturedTopPicks: 6,
			Seed:             0,
		},
		Poster: PosterConfig{
			Enabled:         true,
			BaseURL:         "https://image.tmdb.org/t/p/w342/",
			Timeout:         3 * time.Second,
			CacheSize:       10000,
			CacheTTL:        24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
			RateLimit:       20,
			RateBurst:       10,
			BreakerFailures: 5,
			Concurrency:     8,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, the first config file
// found, and environment variables, then validates it.
func LoadWithKoanf() (*Config, error) {
	return Load(findConfigFile())
}

// Load is LoadWithKoanf with an explicit config file. An empty path skips
// the file layer.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Model
	"model_path":                     "model.path",
	"model_compression":              "model.compression",
	"model_verify_checksum":          "model.verify_checksum",
	"model_remote_enabled":           "model.remote.enabled",
	"model_remote_endpoint":          "model.remote.endpoint",
	"model_remote_bucket":            "model.remote.bucket",
	"model_remote_key":               "model.remote.key",
	"model_remote_access_key_id":     "model.remote.access_key_id",
	"model_remote_secret_access_key": "model.remote.secret_access_key",
	"model_remote_use_ssl":           "model.remote.use_ssl",

	// Recommend
	"recommend_default_count":  "recommend.default_count",
	"recommend_candidate_pool": "recommend.candidate_pool",
	"recommend_seed":           "recommend.seed",
	"featured_size":            "recommend.featured_size",
	"featured_top_pool":        "recommend.featured_top_pool",
	"featured_top_picks":       "recommend.featured_top_picks",

	// Poster
	"poster_check_enabled":    "poster.enabled",
	"poster_base_url":         "poster.base_url",
	"poster_timeout":          "poster.timeout",
	"poster_cache_size":       "poster.cache_size",
	"poster_cache_ttl":        "poster.cache_ttl",
	"poster_cleanup_interval": "poster.cleanup_interval",
	"poster_rate_limit":       "poster.rate_limit",
	"poster_rate_burst":       "poster.rate_burst",
	"poster_breaker_failures": "poster.breaker_failures",
	"poster_concurrency":      "poster.concurrency",
	"poster_store_path":       "poster.store_path",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
