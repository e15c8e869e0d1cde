// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package cache provides a bounded, TTL-aware LRU cache.
//
// The cache backs the poster reachability memo: keys are resolved poster
// URLs, values are probe outcomes. Capacity bounds memory in long-running
// processes and the TTL lets a poster that was down become usable again.
//
// # Usage
//
//	c := cache.NewLRU[string, bool](10000, 24*time.Hour)
//	c.Add(url, ok)
//	if ok, found := c.Get(url); found {
//	    ...
//	}
//
// Expired entries are dropped lazily on access; CleanupExpired sweeps them
// eagerly and is run periodically by the supervisor.
package cache
