// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Field names in
// errors are taken from json tags so messages name the request fields a
// client actually sent ("movies", not "Movies").
//
// # Usage
//
//	type RecommendRequest struct {
//	    Movies []string `json:"movies" validate:"required,min=1,dive,max=256"`
//	    Count  int      `json:"count" validate:"min=0,max=50"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Tags
//
//   - notblank: the string contains a non-whitespace character
//
// # Error Format
//
// ToAPIError produces the VALIDATION_ERROR code. A single failure carries
// its field, tag and value in Details; multiple failures are listed under
// Details["fields"].
package validation
