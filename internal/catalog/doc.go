// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package catalog holds the in-memory movie catalog shared by the offline
// index build and the serving process.
//
// # Overview
//
// A Catalog is an ordered, read-only slice of Item records. The position of
// an item in the slice is its identity everywhere else in the system: the
// similarity index, the title index, and the category posting lists all
// refer to items by position.
//
// # Field Cleaning
//
// Raw catalog data is noisy. The helpers in this package are the only place
// where field cleaning happens:
//
//   - NormalizeTitle: lower-cased, whitespace-trimmed lookup key
//   - LanguageTokens: comma/space split with garbage-token rejection
//   - GenreTokens: whitespace split
//   - ParseOptionalInt, ParseFloat: tolerant numeric parsing (nil / 0 on failure)
//
// Every consumer (vocabulary listing, query filtering, summary statistics)
// derives language tokens through LanguageTokens so the rule cannot drift.
//
// # Ingestion
//
// LoadCSV reads one or more catalog CSV files through an in-memory DuckDB
// instance and fills missing fields from the Default constants. Raw TMDB
// exports, recognized by a spoken_languages column and no industry column,
// get their industry derived from the spoken languages instead.
//
// # Thread Safety
//
// A Catalog is immutable after New returns and is safe for concurrent reads.
package catalog
