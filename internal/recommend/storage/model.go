// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// Sentinel errors.
var (
	ErrModelNotFound    = errors.New("model not found")
	ErrSchema           = errors.New("unrecognized model schema")
	ErrChecksumMismatch = errors.New("model checksum mismatch")
)

// Model is the persisted bundle served at runtime. It is never mutated
// after load.
type Model struct {
	// Catalog holds the items in index order.
	Catalog *catalog.Catalog

	// Similarity holds each position's neighbor list, best first.
	Similarity [][]algorithms.Neighbor

	// Titles maps normalized titles to positions.
	Titles map[string]int
}

// Validate checks the structural invariants of m.
func (m *Model) Validate() error {
	if m.Catalog == nil {
		return errors.New("model has no catalog")
	}
	n := m.Catalog.Len()
	if len(m.Similarity) != n {
		return fmt.Errorf("similarity has %d rows, catalog has %d items", len(m.Similarity), n)
	}
	for row, ns := range m.Similarity {
		for _, nb := range ns {
			if nb.Pos < 0 || nb.Pos >= n {
				return fmt.Errorf("row %d: neighbor position %d out of range", row, nb.Pos)
			}
		}
	}
	for title, pos := range m.Titles {
		if pos < 0 || pos >= n {
			return fmt.Errorf("title %q: position %d out of range", title, pos)
		}
	}
	return nil
}

// ModelMetadata describes a stored model.
type ModelMetadata struct {
	// Name identifies the model (e.g., "tfidf-top50").
	Name string `json:"name"`

	// Version is the schema version of the model document.
	Version int `json:"version"`

	// BuiltAt is when the index build finished.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the model was written.
	SavedAt time.Time `json:"saved_at"`

	// ItemCount is the number of catalog items.
	ItemCount int `json:"item_count"`

	// VocabularySize is the number of TF-IDF features.
	VocabularySize int `json:"vocabulary_size"`

	// K is the neighbor list length.
	K int `json:"k"`

	// Compression is the codec used on disk.
	Compression Compression `json:"compression"`

	// Checksum is the SHA-256 of the uncompressed document.
	Checksum string `json:"checksum"`

	// SizeBytes is the on-disk size.
	SizeBytes int64 `json:"size_bytes"`

	// BuildDurationMS is how long the offline build took.
	BuildDurationMS int64 `json:"build_duration_ms"`
}
