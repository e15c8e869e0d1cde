// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services adapts reelmatch components to suture's Serve(ctx) model.

HTTPServerService wraps an *http.Server. ListenAndServe runs in a goroutine
and context cancellation triggers Shutdown bounded by the configured timeout,
so in-flight recommendation requests can drain.

CacheJanitorService periodically evicts expired poster cache entries. It
returns only when its context is canceled.

Every service implements fmt.Stringer so suture events carry a readable name.
*/
package services
