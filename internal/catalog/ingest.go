// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
)

// ErrNoInput is returned when LoadCSV is called without any paths.
var ErrNoInput = errors.New("no catalog files given")

// Row is one raw catalog row keyed by lower-cased column name. Columns that
// were NULL or absent are not present in the map.
type Row map[string]string

// first returns the first present, non-blank value among the given columns.
func (r Row) first(columns ...string) (string, bool) {
	for _, c := range columns {
		if v, ok := r[c]; ok && strings.TrimSpace(v) != "" && !strings.EqualFold(strings.TrimSpace(v), "nan") {
			return v, true
		}
	}
	return "", false
}

// ItemFromRow converts a raw row into an Item, applying ingestion defaults.
func ItemFromRow(r Row) Item {
	it := Item{
		Title:     DefaultTitle,
		Languages: DefaultLanguages,
		Cast:      DefaultCast,
		PosterRef: DefaultPoster,
	}

	if v, ok := r.first("title"); ok {
		it.Title = v
	}
	if v, ok := r.first("overview"); ok {
		it.Overview = v
	}
	if v, ok := r.first("genres"); ok {
		it.Genres = v
	}
	if v, ok := r.first("languages"); ok {
		it.Languages = v
	}
	if v, ok := r.first("cast", "cast_summary"); ok {
		it.Cast = v
	}
	if v, ok := r.first("poster_url", "poster_path"); ok {
		it.PosterRef = v
	}

	if v, ok := r.first("industry"); ok {
		it.Industry = v
	} else if raw, ok := r.first("spoken_languages"); ok {
		// Raw TMDB exports have no industry column yet.
		it.Industry = DeriveIndustry(raw)
	} else {
		it.Industry = DefaultIndustry
	}

	if v, ok := r.first("id"); ok {
		it.ID = ParseOptionalInt(v)
	}
	if v, ok := r.first("vote_average", "rating"); ok {
		it.Rating = ParseFloat(v)
	}
	if v, ok := r.first("release_year", "year", "release_date"); ok {
		it.Year = ParseOptionalInt(yearPrefix(v))
	}

	return it
}

// yearPrefix trims full dates ("1995-10-30") down to their year.
func yearPrefix(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 4 && v[4] == '-' {
		return v[:4]
	}
	return v
}

// Dedupe drops items whose title already appeared earlier in the slice.
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for i := range items {
		if _, dup := seen[items[i].Title]; dup {
			continue
		}
		seen[items[i].Title] = struct{}{}
		out = append(out, items[i])
	}
	return out
}

// LoadCSV reads catalog CSV files in order, unioning their columns by name,
// and returns a deduplicated catalog.
func LoadCSV(ctx context.Context, logger zerolog.Logger, paths ...string) (*Catalog, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close ingestion database")
		}
	}()

	query := fmt.Sprintf(
		"SELECT * FROM read_csv_auto(%s, union_by_name = true, all_varchar = true, header = true)",
		sqlStringList(paths),
	)

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog csv: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	for i := range columns {
		columns[i] = strings.ToLower(strings.TrimSpace(columns[i]))
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var items []Item
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row %d: %w", len(items), err)
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			if values[i].Valid {
				row[c] = values[i].String
			}
		}
		items = append(items, ItemFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	loaded := len(items)
	items = Dedupe(items)

	logger.Info().
		Strs("files", paths).
		Int("rows", loaded).
		Int("items", len(items)).
		Msg("Catalog loaded")

	return New(items), nil
}

// sqlStringList renders paths as a DuckDB list literal.
func sqlStringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
