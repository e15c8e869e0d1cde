// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"
)

// compressionMinSize is the smallest body worth compressing.
const compressionMinSize = 1024

var gzipWrapper = mustGzipWrapper()

func mustGzipWrapper() func(http.Handler) http.HandlerFunc {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(compressionMinSize),
		gzhttp.CompressionLevel(gzip.BestSpeed),
	)
	if err != nil {
		panic("middleware: invalid gzip options: " + err.Error())
	}
	return wrapper
}

// Compression gzips responses larger than 1KB for clients that accept it.
func Compression(next http.Handler) http.Handler {
	return gzipWrapper(next)
}
