// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"
)

const (
	storePrefix  = "poster:"
	storeGCRatio = 0.5
)

var (
	// ErrStoreClosed is returned by Put after Close.
	ErrStoreClosed = errors.New("poster store closed")

	valueOK      = []byte{1}
	valueMissing = []byte{0}
)

// ProbeStore persists probe results so a restart does not re-probe every
// poster. Entries expire on their own.
type ProbeStore interface {
	Get(url string) (ok, found bool)
	Put(url string, ok bool, ttl time.Duration) error
	RunGC() error
}

// BadgerStore is a ProbeStore on BadgerDB using native key TTLs.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// OpenBadgerStore opens or creates the store at path. An empty path keeps
// the store in memory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadgerStore(path string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Compression = options.Snappy
	opts.MemTableSize = 8 << 20
	opts.ValueLogFileSize = 16 << 20
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open poster store: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "poster_store").Logger(),
	}
	s.logger.Info().Str("path", path).Bool("in_memory", path == "").Msg("Poster store opened")
	return s, nil
}

// Get returns the stored result for url. Read errors count as a miss.
func (s *BadgerStore) Get(url string) (ok, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, false
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storePrefix + url))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			ok = len(v) == 1 && v[0] == 1
			return nil
		})
	})
	switch {
	case err == nil:
		return ok, true
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, false
	default:
		s.logger.Debug().Err(err).Str("url", url).Msg("Poster store read failed")
		return false, false
	}
}

// Put records a probe result for ttl.
func (s *BadgerStore) Put(url string, ok bool, ttl time.Duration) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	value := valueMissing
	if ok {
		value = valueOK
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(storePrefix+url), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// RunGC reclaims value log space held by expired entries.
func (s *BadgerStore) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	if err := s.db.RunValueLogGC(storeGCRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("poster store gc: %w", err)
	}
	return nil
}

// Close flushes and closes the database. It is safe to call twice.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
