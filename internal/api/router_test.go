// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"bytes"
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

type staticLoader struct {
	model *storage.Model
}

func (l staticLoader) Load(context.Context) (*storage.Model, *storage.ModelMetadata, error) {
	return l.model, &storage.ModelMetadata{ItemCount: l.model.Catalog.Len()}, nil
}

// newABCRouter wires the real engine and aggregator over a three-item model
// where A's neighbours are B (0.9) and C (0.1).
func newABCRouter(t *testing.T, mwCfg *ChiMiddlewareConfig) http.Handler {
	t.Helper()

	cat := catalog.New([]catalog.Item{
		{Title: "A", Genres: "Drama", Languages: "English"},
		{Title: "B", Genres: "Drama", Languages: "Hindi"},
		{Title: "C", Genres: "Comedy", Languages: "English"},
	})
	model := &storage.Model{
		Catalog: cat,
		Titles:  cat.TitleIndex(),
		Similarity: [][]algorithms.Neighbor{
			{{Pos: 1, Score: 0.9}, {Pos: 2, Score: 0.1}},
			{{Pos: 0, Score: 0.9}},
			{{Pos: 0, Score: 0.1}},
		},
	}

	provider := recommend.NewProvider(staticLoader{model: model}, zerolog.Nop())
	engine, err := recommend.NewEngine(provider, nil, zerolog.Nop(), recommend.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	agg, err := recommend.NewAggregator(provider, nil, zerolog.Nop(), recommend.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}

	if _, err := provider.Get(context.Background()); err != nil {
		t.Fatalf("provider.Get() error = %v", err)
	}

	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.CORSAllowedOrigins = []string{"*"}
		mwCfg.RateLimitDisabled = true
	}

	h := NewHandler(engine, agg, HandlerConfig{Timeout: time.Second, Version: "test"}, WithHealthSources(provider, nil))
	return NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi()
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// recommendTitles returns the recommended titles sorted, since the engine
// samples neighbours in random order.
func recommendTitles(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp RecommendResponse
	decodeBody(t, rec, &resp)
	titles := make([]string, len(resp.Recommendations))
	for i, r := range resp.Recommendations {
		titles[i] = r.Title
		if r.Similarity == nil {
			t.Errorf("%s has no similarity", r.Title)
		}
	}
	sort.Strings(titles)
	return titles
}

func TestRouter_RecommendEndToEnd(t *testing.T) {
	router := newABCRouter(t, nil)

	tests := []struct {
		name string
		path string
		body string
		want []string
	}{
		{"unfiltered", "/api/v1/recommend", `{"movies":["A"]}`, []string{"B", "C"}},
		{"genre filter", "/api/v1/recommend", `{"movies":["A"],"genres":["Comedy"]}`, []string{"C"}},
		{"language filter", "/api/v1/recommend", `{"movies":["A"],"languages":["Hindi"]}`, []string{"B"}},
		{"filters exclude all", "/api/v1/recommend", `{"movies":["A"],"genres":["Western"]}`, []string{}},
		{"case insensitive seed", "/api/v1/recommend", `{"movies":["  a "]}`, []string{"B", "C"}},
		{"unversioned alias", "/recommend", `{"movies":["A"],"genres":["Drama"]}`, []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			got := recommendTitles(t, rec)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("titles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouter_RecommendNotFound(t *testing.T) {
	router := newABCRouter(t, nil)

	rec := serve(router, http.MethodPost, "/api/v1/recommend", `{"movies":["Z"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp NotFoundResponse
	decodeBody(t, rec, &resp)
	if !resp.NotFound || resp.SearchedMovie != "Z" {
		t.Errorf("got %+v, want not_found for Z", resp)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("suggestions empty, want featured titles")
	}

	health := serve(router, http.MethodGet, "/api/v1/health", "")
	if body := health.Body.String(); !strings.Contains(body, `"recommendations":{"requests":1,"not_found":1,"empty":0}`) {
		t.Errorf("health body %s does not report the not-found request", body)
	}
}

func TestRouter_RecommendLongUnknownTitle(t *testing.T) {
	router := newABCRouter(t, nil)
	title := strings.Repeat("z", 300)

	tests := []struct {
		name string
		body string
	}{
		{"first seed", `{"movies":["` + title + `"]}`},
		{"ignored trailing seed", `{"movies":["Z","` + title + `"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/api/v1/recommend", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			var resp NotFoundResponse
			decodeBody(t, rec, &resp)
			if !resp.NotFound {
				t.Errorf("got %+v, want not_found", resp)
			}
		})
	}

	rec := serve(router, http.MethodPost, "/api/v1/recommend", `{"movies":["`+title+`"]}`)
	var resp NotFoundResponse
	decodeBody(t, rec, &resp)
	if resp.SearchedMovie != title {
		t.Errorf("searched_movie has %d chars, want %d", len(resp.SearchedMovie), len(title))
	}
}

func TestRouter_CatalogEndpoints(t *testing.T) {
	router := newABCRouter(t, nil)

	tests := []struct {
		path     string
		contains string
	}{
		{"/api/v1/genres", `["Comedy","Drama"]`},
		{"/api/v1/languages", `"Hindi"`},
		{"/api/v1/titles", `["A","B","C"]`},
		{"/api/v1/summary", `"total_unique_genres":2`},
		{"/summary", `"genre_counts"`},
		{"/api/v1/featured", `"title"`},
		{"/api/v1/random?count=2", `"title"`},
		{"/api/v1/health", `"model_loaded":true`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body %s does not contain %s", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestRouter_RecommendCount(t *testing.T) {
	router := newABCRouter(t, nil)

	rec := serve(router, http.MethodPost, "/api/v1/recommend", `{"movies":["A"],"count":1}`)
	if got := recommendTitles(t, rec); len(got) != 1 {
		t.Errorf("got %v, want exactly one recommendation", got)
	}
}

func TestRouter_ErrorEnvelopes(t *testing.T) {
	router := newABCRouter(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound, ErrCodeNotFound},
		{"wrong method", http.MethodGet, "/api/v1/recommend", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{"post to list", http.MethodPost, "/api/v1/genres", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if apiErr := decodeError(t, rec); apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newABCRouter(t, nil)

	serve(router, http.MethodGet, "/api/v1/genres", "")
	rec := serve(router, http.MethodGet, "/metrics", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing runtime collectors")
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	router := newABCRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID = %q, want trace-123", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing on API route")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newABCRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_ETagRevalidation(t *testing.T) {
	router := newABCRouter(t, nil)

	first := serve(router, http.MethodGet, "/api/v1/genres", "")
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("304 body = %q, want empty", rec.Body.String())
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"*"}
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	router := newABCRouter(t, cfg)

	for i := 0; i < 2; i++ {
		if rec := serve(router, http.MethodGet, "/api/v1/titles", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := serve(router, http.MethodGet, "/api/v1/titles", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != ErrCodeTooManyRequests {
		t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeTooManyRequests)
	}

	// Health uses its own, more permissive limiter.
	if rec := serve(router, http.MethodGet, "/api/v1/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestRouter_OversizedBody(t *testing.T) {
	router := newABCRouter(t, nil)

	body := `{"movies":["` + string(bytes.Repeat([]byte("x"), maxRequestBody)) + `"]}`
	rec := serve(router, http.MethodPost, "/api/v1/recommend", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
