// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type countingCache struct {
	sweeps  atomic.Int32
	removed int
}

func (c *countingCache) CleanupExpired() int {
	c.sweeps.Add(1)
	return c.removed
}

func TestCacheJanitorService_Interface(t *testing.T) {
	var _ suture.Service = (*CacheJanitorService)(nil)
}

func TestNewCacheJanitorService_DefaultInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		svc := NewCacheJanitorService(&countingCache{}, interval, zerolog.Nop())
		if svc.interval != 10*time.Minute {
			t.Errorf("interval %v: got %v, want 10m", interval, svc.interval)
		}
	}
}

func TestCacheJanitorService_Sweeps(t *testing.T) {
	c := &countingCache{removed: 2}
	svc := NewCacheJanitorService(c, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for c.sweeps.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps before deadline", c.sweeps.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestCacheJanitorService_String(t *testing.T) {
	svc := NewCacheJanitorService(&countingCache{}, time.Minute, zerolog.Nop())
	if svc.String() != "cache-janitor" {
		t.Errorf("String() = %q, want cache-janitor", svc.String())
	}
}
