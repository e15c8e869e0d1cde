// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	// Path is the model file location.
	Path string

	// Compression is the codec used by Save. Load always auto-detects.
	Compression Compression

	// VerifyChecksum makes Load compare the document against the sidecar
	// checksum when a sidecar exists.
	VerifyChecksum bool

	// Schema overrides DefaultSchema when non-nil.
	Schema *Schema
}

// Store reads and writes a single model file and its metadata sidecar.
type Store struct {
	path        string
	compression Compression
	verify      bool
	schema      Schema
}

// NewStore creates a store for cfg.Path.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		path:        cfg.Path,
		compression: cfg.Compression,
		verify:      cfg.VerifyChecksum,
		schema:      DefaultSchema,
	}
	if s.compression == "" || s.compression == CompressionAuto {
		s.compression = CompressionZSTD
	}
	if cfg.Schema != nil {
		s.schema = *cfg.Schema
	}
	return s
}

// Path returns the model file path.
func (s *Store) Path() string {
	return s.path
}

// MetadataPath returns the sidecar path.
func (s *Store) MetadataPath() string {
	return s.path + ".meta.json"
}

// Save writes m and its metadata. Both files are written to a temporary
// name and renamed into place.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, m *Model, meta ModelMetadata) (*ModelMetadata, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	raw, err := Encode(m)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := sha256.Sum256(raw)
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.Version = SchemaVersion
	meta.ItemCount = m.Catalog.Len()
	meta.Compression = s.compression

	data, err := compress(raw, s.compression)
	if err != nil {
		return nil, err
	}
	meta.SizeBytes = int64(len(data))
	meta.SavedAt = time.Now().UTC()

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create model directory: %w", err)
		}
	}

	if err := writeAtomic(s.path, data); err != nil {
		return nil, fmt.Errorf("write model file: %w", err)
	}

	metaRaw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err := writeAtomic(s.MetadataPath(), metaRaw); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	return &meta, nil
}

// Load reads the model. The returned metadata is nil when no sidecar
// exists. A missing model file yields ErrModelNotFound.
func (s *Store) Load(ctx context.Context) (*Model, *ModelMetadata, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrModelNotFound, s.path)
		}
		return nil, nil, fmt.Errorf("read model file: %w", err)
	}

	raw, err := decompress(data)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	meta, err := s.LoadMetadata()
	if err != nil {
		return nil, nil, err
	}

	if s.verify && meta != nil && meta.Checksum != "" {
		hash := sha256.Sum256(raw)
		if got := hex.EncodeToString(hash[:]); got != meta.Checksum {
			return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, meta.Checksum, got)
		}
	}

	m, err := s.schema.Decode(raw)
	if err != nil {
		return nil, nil, err
	}
	return m, meta, nil
}

// LoadMetadata reads the sidecar, returning nil when it does not exist.
func (s *Store) LoadMetadata() (*ModelMetadata, error) {
	raw, err := os.ReadFile(s.MetadataPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta ModelMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil { //nolint:gosec // model files are not secrets
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return err
	}
	return nil
}
