// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package algorithms implements the offline similarity pipeline.
//
// # Feature Vectorization
//
// TFIDF fits a bounded vocabulary over the catalog's feature text and turns
// each document into an L2-normalized sparse vector:
//
//   - tokens: lower-cased runs of two or more word characters
//   - English stop words removed
//   - vocabulary capped by corpus term frequency (default 20,000 terms)
//   - smooth IDF: ln((1+n)/(1+df)) + 1
//
// An empty vocabulary is an error (ErrEmptyVocabulary); a degenerate index
// is never produced.
//
// # Top-K Index
//
// BuildTopK computes, for every row, the K most cosine-similar other rows.
// Rows are scored against an inverted index into a per-worker scratch row of
// length N, so the N×N matrix is never held in memory. Neighbors are sorted
// by descending score with ties broken by ascending position.
//
// # Thread Safety
//
// A fitted TFIDFModel is immutable and safe for concurrent Transform calls.
package algorithms
