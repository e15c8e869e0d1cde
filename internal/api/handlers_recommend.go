// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// noSeedMessage is returned when the request names no movie.
const noSeedMessage = "No movie selected"

// RecommendResponse is returned when the seed title resolves.
type RecommendResponse struct {
	Recommendations []recommend.Record `json:"recommendations"`
}

// NotFoundResponse is returned when the seed title is unknown.
type NotFoundResponse struct {
	NotFound      bool               `json:"not_found"`
	SearchedMovie string             `json:"searched_movie"`
	Suggestions   []recommend.Record `json:"suggestions"`
}

// Recommend handles POST /api/v1/recommend.
//
// An empty movie list is a client error. An unknown seed is not: it yields
// the not-found shape with featured picks as suggestions.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			metrics.RecordRecommendation(metrics.OutcomeInvalid, 0, time.Since(start))
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, noSeedMessage, nil)
			return
		}
		metrics.RecordRecommendation(metrics.OutcomeInvalid, 0, time.Since(start))
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Request body must be a JSON object", err)
		return
	}

	if len(req.Movies) == 0 {
		metrics.RecordRecommendation(metrics.OutcomeInvalid, 0, time.Since(start))
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, noSeedMessage, nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.RecordRecommendation(metrics.OutcomeInvalid, 0, time.Since(start))
		apiErr := verr.ToAPIError()
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	result, err := h.recommender.Recommend(ctx, recommend.Request{
		Seeds:     req.Movies,
		Genres:    req.Genres,
		Languages: req.Languages,
		Count:     req.Count,
	})
	if err != nil {
		metrics.RecordRecommendation(metrics.OutcomeError, 0, time.Since(start))
		h.respondEngineError(w, r, err)
		return
	}

	if result.NotFound {
		suggestions, ferr := h.catalog.Featured(ctx)
		if ferr != nil {
			logging.Ctx(r.Context()).Warn().Err(ferr).Msg("Featured suggestions unavailable")
		}
		if suggestions == nil {
			suggestions = []recommend.Record{}
		}
		metrics.RecordRecommendation(metrics.OutcomeNotFound, 0, time.Since(start))
		respondJSON(w, r, http.StatusOK, &NotFoundResponse{
			NotFound:      true,
			SearchedMovie: result.SearchedTitle,
			Suggestions:   suggestions,
		})
		return
	}

	recs := result.Recommendations
	if recs == nil {
		recs = []recommend.Record{}
	}
	outcome := metrics.OutcomeOK
	if len(recs) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordRecommendation(outcome, len(recs), time.Since(start))

	respondJSON(w, r, http.StatusOK, &RecommendResponse{Recommendations: recs})
}

// respondEngineError maps engine and aggregator errors to HTTP responses.
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrNoSeed):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, noSeedMessage, nil)
	case errors.Is(err, recommend.ErrModelUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation model is not available", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", err)
	case errors.Is(err, context.Canceled):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request was canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate recommendations", err)
	}
}
