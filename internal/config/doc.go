// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config loads and validates the service configuration.

# Configuration Sources

Configuration is layered with koanf, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml / config.yml in the
    working directory, then /etc/reelmatch/config.yaml
 3. Environment variables, through an explicit mapping (envTransformFunc)

Unmapped environment variables are ignored so unrelated process variables
cannot leak into the configuration.

# Sections

  - server: listen address, timeouts, environment
  - logging: level, format, caller
  - model: persisted model path, compression, checksum verification and the
    optional S3-compatible remote source
  - recommend: query and featured-pick sizing, RNG seed
  - poster: reachability probing, cache sizing, rate limit and breaker
  - security: CORS origins and per-IP rate limiting

# Environment Variables

Server:
  - PORT / HTTP_PORT: listen port (default: 5000)
  - HTTP_HOST: bind address (default: 0.0.0.0)
  - HTTP_TIMEOUT: per-request handler timeout (default: 10s)
  - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 15s)
  - ENVIRONMENT: development, staging, production

Model:
  - MODEL_PATH: model file (default: model.json.zst)
  - MODEL_COMPRESSION: auto, zstd, lz4, none
  - MODEL_VERIFY_CHECKSUM: verify the metadata checksum on load
  - MODEL_REMOTE_ENABLED, MODEL_REMOTE_ENDPOINT, MODEL_REMOTE_BUCKET,
    MODEL_REMOTE_KEY, MODEL_REMOTE_ACCESS_KEY_ID,
    MODEL_REMOTE_SECRET_ACCESS_KEY, MODEL_REMOTE_USE_SSL

Recommend:
  - RECOMMEND_DEFAULT_COUNT, RECOMMEND_CANDIDATE_POOL, RECOMMEND_SEED
  - FEATURED_SIZE, FEATURED_TOP_POOL, FEATURED_TOP_PICKS

Poster:
  - POSTER_CHECK_ENABLED, POSTER_BASE_URL, POSTER_TIMEOUT
  - POSTER_CACHE_SIZE, POSTER_CACHE_TTL
  - POSTER_RATE_LIMIT, POSTER_RATE_BURST, POSTER_BREAKER_FAILURES
  - POSTER_STORE_PATH (BadgerDB directory for persisted probe results)

Security:
  - CORS_ORIGINS (comma separated)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
