// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

func testModel() *Model {
	cat := catalog.New([]catalog.Item{
		{Title: "A", Genres: "Drama", Languages: "English"},
		{Title: "B", Genres: "Drama", Languages: "Hindi"},
		{Title: "C", Genres: "Comedy", Languages: "English"},
	})
	return &Model{
		Catalog: cat,
		Similarity: [][]algorithms.Neighbor{
			{{Pos: 1, Score: 0.9}, {Pos: 2, Score: 0.1}},
			{{Pos: 0, Score: 0.9}},
			{},
		},
		Titles: cat.TitleIndex(),
	}
}

func TestStore_SaveLoad(t *testing.T) {
	for _, codec := range []Compression{CompressionZSTD, CompressionLZ4, CompressionNone} {
		t.Run(string(codec), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "models", "model.json")
			store := NewStore(StoreConfig{Path: path, Compression: codec, VerifyChecksum: true})

			saved, err := store.Save(context.Background(), testModel(), ModelMetadata{
				Name:    "tfidf-top50",
				BuiltAt: time.Now(),
				K:       50,
			})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if saved.Checksum == "" || saved.ItemCount != 3 || saved.Compression != codec {
				t.Errorf("metadata = %+v", saved)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if got := Detect(data); got != codec {
				t.Errorf("Detect() = %q, want %q", got, codec)
			}

			m, meta, err := store.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if meta == nil || meta.Checksum != saved.Checksum {
				t.Errorf("loaded metadata = %+v, want checksum %s", meta, saved.Checksum)
			}
			if m.Catalog.Len() != 3 || len(m.Similarity[0]) != 2 {
				t.Errorf("loaded model mismatch: %d items, row0 %v", m.Catalog.Len(), m.Similarity[0])
			}
		})
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	store := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "missing.json.zst")})
	_, _, err := store.Load(context.Background())
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load() error = %v, want ErrModelNotFound", err)
	}
}

func TestStore_ChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := NewStore(StoreConfig{Path: path, Compression: CompressionNone, VerifyChecksum: true})
	if _, err := store.Save(context.Background(), testModel(), ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tampered := `{"movies": [{"title": "X"}], "similarity": [[]]}`
	if err := os.WriteFile(path, []byte(tampered), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, _, err := store.Load(context.Background())
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Load() error = %v, want ErrChecksumMismatch", err)
	}

	unverified := NewStore(StoreConfig{Path: path})
	m, _, err := unverified.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() without verification error = %v", err)
	}
	if m.Catalog.At(0).Title != "X" {
		t.Errorf("title = %q, want X", m.Catalog.At(0).Title)
	}
}

func TestStore_LoadWithoutSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	doc := `{"df": [{"title": "A"}, {"title": "B"}], "similar": [[1], [0]]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	m, meta, err := NewStore(StoreConfig{Path: path, VerifyChecksum: true}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta != nil {
		t.Errorf("metadata = %+v, want nil", meta)
	}
	if m.Titles["b"] != 1 {
		t.Errorf("index[b] = %d, want 1", m.Titles["b"])
	}
}

func TestStore_SaveRejectsInvalidModel(t *testing.T) {
	m := testModel()
	m.Similarity = m.Similarity[:1]
	store := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "model.json")})
	if _, err := store.Save(context.Background(), m, ModelMetadata{}); err == nil {
		t.Error("Save() error = nil, want error for row count mismatch")
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{"", CompressionZSTD, false},
		{"zstd", CompressionZSTD, false},
		{"lz4", CompressionLZ4, false},
		{"none", CompressionNone, false},
		{"auto", CompressionAuto, false},
		{"gzip", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompression(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompression(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCompression(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRemoteSource_Validation(t *testing.T) {
	if _, err := NewRemoteSource(RemoteConfig{Endpoint: "localhost:9000"}, zerolog.Nop()); err == nil {
		t.Error("NewRemoteSource() error = nil, want error for missing bucket and key")
	}

	src, err := NewRemoteSource(RemoteConfig{
		Endpoint: "localhost:9000",
		Bucket:   "models",
		Key:      "reelmatch/model.json.zst",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRemoteSource() error = %v", err)
	}
	if src.metadataKey() != "reelmatch/model.json.zst.meta.json" {
		t.Errorf("metadataKey() = %q", src.metadataKey())
	}
}
