// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package storage persists the similarity model: the catalog, the bounded
// top-K similarity index, and the title lookup.
//
// # Storage Format
//
// A model is a single JSON document, optionally compressed:
//
//	{
//	  "schema_version": 1,
//	  "movies":     [ {record}, ... ],
//	  "similarity": [ [[pos, score], ...], ... ],
//	  "index":      { "normalized title": pos, ... }
//	}
//
// Compression is zstd (default), lz4, or none. Readers detect the
// compression from the leading magic bytes, so the setting only affects
// writes.
//
// A metadata sidecar ({path}.meta.json) records the build time, item count,
// vocabulary size, and a SHA-256 checksum of the uncompressed document.
//
// # Schema Adapter
//
// Historical model files used different key names for the same content.
// Schema lists the accepted aliases per field in priority order:
//
//   - catalog:    movies, df
//   - similarity: similarity, cosine_sim, similar
//   - index:      index, indices
//
// A missing catalog or similarity key is an error (ErrSchema). A missing
// index is rebuilt from catalog order. Similarity rows may hold [pos, score]
// pairs, {"pos","score"} objects, bare positions ranked best-first, or
// dense score rows.
//
// # Remote Models
//
// RemoteSource downloads and uploads model artifacts from S3-compatible
// object storage via minio-go.
//
// # Usage Example
//
//	store := storage.NewStore(storage.StoreConfig{Path: "model.json.zst"})
//	model, meta, err := store.Load(ctx)
//	if errors.Is(err, storage.ErrModelNotFound) {
//	    // run buildindex first
//	}
package storage
