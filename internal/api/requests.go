// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 64 << 10

// maxRandomCount caps /random samples.
const maxRandomCount = 100

// RecommendRequest is the body of POST /api/v1/recommend.
//
// Only the first movie anchors the query; the rest are accepted and
// ignored. Titles carry no length limit beyond the body cap: a title that
// matches nothing, however long, is answered with the not-found shape.
// Genres and Languages are OR-ed within each list and AND-ed across the two.
type RecommendRequest struct {
	Movies    []string `json:"movies" validate:"required,min=1,max=20"`
	Genres    []string `json:"genres" validate:"omitempty,max=50,dive,max=64"`
	Languages []string `json:"languages" validate:"omitempty,max=50,dive,max=64"`
	Count     int      `json:"count,omitempty" validate:"min=0,max=50"`
}

// RandomRequest holds the /random query parameters.
type RandomRequest struct {
	Count int `json:"count" validate:"min=0,max=100"`
}

// errEmptyBody is returned by decodeJSON for a request without a body.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseIntQuery parses an integer query parameter. A missing parameter
// yields def; a malformed one yields an error.
func parseIntQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
