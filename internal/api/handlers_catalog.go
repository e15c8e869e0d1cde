// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// Featured handles GET /api/v1/featured.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	recs, err := h.catalog.Featured(ctx)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondRecords(w, r, recs)
}

// Random handles GET /api/v1/random?count=N.
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	count, err := parseIntQuery(r, "count", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req := RandomRequest{Count: count}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	recs, err := h.catalog.Random(ctx, req.Count)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondRecords(w, r, recs)
}

// Genres handles GET /api/v1/genres.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	h.respondStrings(w, r, h.catalog.Genres)
}

// Languages handles GET /api/v1/languages.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	h.respondStrings(w, r, h.catalog.Languages)
}

// Titles handles GET /api/v1/titles.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	h.respondStrings(w, r, h.catalog.Titles)
}

// Summary handles GET /api/v1/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	summary, err := h.catalog.Summary(ctx)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, r, http.StatusOK, summary)
}

func (h *Handler) respondStrings(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]string, error)) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	values, err := list(ctx)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, r, http.StatusOK, values)
}

func respondRecords(w http.ResponseWriter, r *http.Request, recs []recommend.Record) {
	if recs == nil {
		recs = []recommend.Record{}
	}
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, http.StatusOK, recs)
}
