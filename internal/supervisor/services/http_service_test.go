// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// fakeServer blocks in ListenAndServe until Shutdown, or returns listenErr
// immediately when set.
type fakeServer struct {
	listenErr   error
	shutdownErr error

	mu        sync.Mutex
	stop      chan struct{}
	stopped   bool
	remaining time.Duration
	shutdowns int
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	if deadline, ok := ctx.Deadline(); ok {
		f.remaining = time.Until(deadline)
	}
	if !f.stopped {
		f.stopped = true
		close(f.stop)
	}
	return f.shutdownErr
}

func (f *fakeServer) shutdownState() (calls int, remaining time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdowns, f.remaining
}

// syncBuffer guards a bytes.Buffer written by the serve goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// entries decodes one JSON object per log line.
func (b *syncBuffer) entries(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", sc.Text(), err)
		}
		out = append(out, entry)
	}
	return out
}

func messages(entries []map[string]any) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		msg, _ := e["message"].(string)
		out = append(out, msg)
	}
	return out
}

func findEntry(entries []map[string]any, msg string) map[string]any {
	for _, e := range entries {
		if e["message"] == msg {
			return e
		}
	}
	return nil
}

// serveAsync runs svc.Serve in a goroutine and returns its result channel.
func serveAsync(ctx context.Context, svc *HTTPServerService) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
		return nil
	}
}

func TestHTTPServerService_Interface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
}

func TestNewHTTPServerService_ShutdownTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"zero takes default", 0, 10 * time.Second},
		{"negative takes default", -time.Second, 10 * time.Second},
		{"explicit", 3 * time.Second, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer()
			var logs syncBuffer
			svc := NewHTTPServerService(srv, ":5000", tt.timeout, zerolog.New(&logs))

			ctx, cancel := context.WithCancel(context.Background())
			errCh := serveAsync(ctx, svc)
			time.Sleep(20 * time.Millisecond)
			cancel()
			if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
				t.Fatalf("Serve() error = %v, want context.Canceled", err)
			}

			calls, remaining := srv.shutdownState()
			if calls != 1 {
				t.Fatalf("Shutdown calls = %d, want 1", calls)
			}
			if remaining <= tt.want-time.Second || remaining > tt.want {
				t.Errorf("shutdown deadline remaining = %v, want about %v", remaining, tt.want)
			}

			drain := findEntry(logs.entries(t), "HTTP server draining connections")
			if drain == nil {
				t.Fatal("missing draining log line")
			}
			if got, want := drain["timeout"], float64(tt.want.Milliseconds()); got != want {
				t.Errorf("draining timeout field = %v, want %v", got, want)
			}
		})
	}
}

func TestHTTPServerService_GracefulShutdownLogs(t *testing.T) {
	srv := newFakeServer()
	var logs syncBuffer
	svc := NewHTTPServerService(srv, "0.0.0.0:5000", time.Second, zerolog.New(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)
	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
		t.Fatalf("Serve() error = %v, want context.Canceled", err)
	}

	entries := logs.entries(t)
	want := []string{"HTTP server listening", "HTTP server draining connections", "HTTP server stopped"}
	if got := messages(entries); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("log messages = %v, want %v", got, want)
	}

	for _, e := range entries {
		if e["service"] != "http-server" {
			t.Errorf("entry %q service = %v, want http-server", e["message"], e["service"])
		}
	}
	if listening := findEntry(entries, "HTTP server listening"); listening["addr"] != "0.0.0.0:5000" {
		t.Errorf("listening addr = %v, want 0.0.0.0:5000", listening["addr"])
	}
	if stopped := findEntry(entries, "HTTP server stopped"); stopped != nil {
		if _, ok := stopped["took"].(float64); !ok {
			t.Errorf("stopped entry has no numeric took field: %v", stopped)
		}
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	bindErr := errors.New("listen tcp :5000: bind: address already in use")
	srv := newFakeServer()
	srv.listenErr = bindErr
	var logs syncBuffer
	svc := NewHTTPServerService(srv, ":5000", time.Second, zerolog.New(&logs))

	err := waitErr(t, serveAsync(context.Background(), svc))
	if !errors.Is(err, bindErr) {
		t.Fatalf("Serve() error = %v, want wrapped bind error", err)
	}
	if !strings.Contains(err.Error(), "http server failed") {
		t.Errorf("Serve() error = %q, want http server failed prefix", err)
	}
	if calls, _ := srv.shutdownState(); calls != 0 {
		t.Errorf("Shutdown calls = %d, want 0 after listen failure", calls)
	}
	if findEntry(logs.entries(t), "HTTP server draining connections") != nil {
		t.Error("listen failure should not log draining")
	}
}

func TestHTTPServerService_ClosedServerReturnsNil(t *testing.T) {
	srv := newFakeServer()
	srv.listenErr = http.ErrServerClosed
	svc := NewHTTPServerService(srv, ":5000", time.Second, zerolog.Nop())

	if err := waitErr(t, serveAsync(context.Background(), svc)); err != nil {
		t.Errorf("Serve() error = %v, want nil for ErrServerClosed", err)
	}
}

func TestHTTPServerService_ShutdownError(t *testing.T) {
	srv := newFakeServer()
	srv.shutdownErr = context.DeadlineExceeded
	var logs syncBuffer
	svc := NewHTTPServerService(srv, ":5000", time.Second, zerolog.New(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)
	time.Sleep(20 * time.Millisecond)
	cancel()

	err := waitErr(t, errCh)
	if !errors.Is(err, context.DeadlineExceeded) || !strings.Contains(err.Error(), "shutdown failed") {
		t.Fatalf("Serve() error = %v, want wrapped shutdown failure", err)
	}
	if findEntry(logs.entries(t), "HTTP server stopped") != nil {
		t.Error("failed shutdown should not log stopped")
	}
}

func TestHTTPServerService_String(t *testing.T) {
	svc := NewHTTPServerService(newFakeServer(), ":5000", time.Second, zerolog.Nop())
	if got := svc.String(); got != "http-server" {
		t.Errorf("String() = %q, want http-server", got)
	}
}

func TestHTTPServerService_RealServer(t *testing.T) {
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}
	var logs syncBuffer
	svc := NewHTTPServerService(srv, srv.Addr, time.Second, zerolog.New(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)
	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if findEntry(logs.entries(t), "HTTP server stopped") == nil {
		t.Error("missing stopped log line")
	}
}
