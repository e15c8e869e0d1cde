// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// SchemaVersion is written into every model document.
const SchemaVersion = 1

// Schema lists the accepted key aliases for each model field, tried in
// order.
type Schema struct {
	Catalog    []string
	Similarity []string
	Index      []string

	// K bounds neighbor lists decoded from dense similarity rows.
	K int
}

// DefaultSchema accepts every key layout written by past model builds.
var DefaultSchema = Schema{
	Catalog:    []string{"movies", "df"},
	Similarity: []string{"similarity", "cosine_sim", "similar"},
	Index:      []string{"index", "indices"},
	K:          algorithms.DefaultK,
}

// document is the layout written by Encode.
type document struct {
	SchemaVersion int                `json:"schema_version"`
	Movies        []catalog.Item     `json:"movies"`
	Similarity    [][][2]json.Number `json:"similarity"`
	Index         map[string]int     `json:"index"`
}

// Encode renders m in the current document layout.
func Encode(m *Model) ([]byte, error) {
	doc := document{
		SchemaVersion: SchemaVersion,
		Movies:        m.Catalog.Items(),
		Similarity:    make([][][2]json.Number, len(m.Similarity)),
		Index:         m.Titles,
	}
	for row, ns := range m.Similarity {
		pairs := make([][2]json.Number, len(ns))
		for i, nb := range ns {
			pairs[i] = [2]json.Number{
				json.Number(strconv.Itoa(nb.Pos)),
				json.Number(strconv.FormatFloat(nb.Score, 'g', 8, 64)),
			}
		}
		doc.Similarity[row] = pairs
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return raw, nil
}

// Decode parses a model document, resolving field aliases.
func (s Schema) Decode(raw []byte) (*Model, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	catRaw, catKey := s.lookup(top, s.Catalog)
	if catKey == "" {
		return nil, fmt.Errorf("%w: no catalog key (tried %s)", ErrSchema, strings.Join(s.Catalog, ", "))
	}
	items, err := decodeCatalog(catRaw)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", catKey, err)
	}
	cat := catalog.New(items)

	simRaw, simKey := s.lookup(top, s.Similarity)
	if simKey == "" {
		return nil, fmt.Errorf("%w: no similarity key (tried %s)", ErrSchema, strings.Join(s.Similarity, ", "))
	}
	k := s.K
	if k <= 0 {
		k = algorithms.DefaultK
	}
	sim, err := decodeSimilarity(simRaw, cat.Len(), k)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", simKey, err)
	}

	var titles map[string]int
	if idxRaw, idxKey := s.lookup(top, s.Index); idxKey != "" {
		titles, err = decodeIndex(idxRaw)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", idxKey, err)
		}
	} else {
		titles = cat.TitleIndex()
	}

	m := &Model{Catalog: cat, Similarity: sim, Titles: titles}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return m, nil
}

// lookup returns the first alias present with a non-null value.
func (s Schema) lookup(top map[string]json.RawMessage, aliases []string) (json.RawMessage, string) {
	for _, key := range aliases {
		if v, ok := top[key]; ok && !isNull(v) {
			return v, key
		}
	}
	return nil, ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func unmarshalNumbers(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// decodeCatalog accepts a records array or a column-oriented object whose
// columns are arrays or objects keyed by row number.
func decodeCatalog(raw json.RawMessage) ([]catalog.Item, error) {
	var records []map[string]any

	switch firstByte(raw) {
	case '[':
		if err := unmarshalNumbers(raw, &records); err != nil {
			return nil, err
		}
	case '{':
		var columns map[string]json.RawMessage
		if err := json.Unmarshal(raw, &columns); err != nil {
			return nil, err
		}
		var err error
		records, err = columnsToRecords(columns)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: catalog must be an array or object", ErrSchema)
	}

	items := make([]catalog.Item, len(records))
	for i, rec := range records {
		items[i] = recordToItem(rec)
	}
	return items, nil
}

func columnsToRecords(columns map[string]json.RawMessage) ([]map[string]any, error) {
	var records []map[string]any
	grow := func(n int) {
		for len(records) < n {
			records = append(records, make(map[string]any))
		}
	}

	for name, col := range columns {
		switch firstByte(col) {
		case '[':
			var values []any
			if err := unmarshalNumbers(col, &values); err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			grow(len(values))
			for i, v := range values {
				records[i][name] = v
			}
		case '{':
			var values map[string]any
			if err := unmarshalNumbers(col, &values); err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			for key, v := range values {
				row, err := strconv.Atoi(key)
				if err != nil || row < 0 {
					return nil, fmt.Errorf("column %q: bad row key %q", name, key)
				}
				grow(row + 1)
				records[row][name] = v
			}
		default:
			return nil, fmt.Errorf("column %q: must be an array or object", name)
		}
	}
	return records, nil
}

// recordToItem maps a loosely typed record through the ingestion rules.
func recordToItem(rec map[string]any) catalog.Item {
	row := make(catalog.Row, len(rec))
	for k, v := range rec {
		if s, ok := catalog.ParseString(v); ok {
			row[strings.ToLower(k)] = s
		}
	}
	return catalog.ItemFromRow(row)
}

// decodeSimilarity accepts an array of rows or an object keyed by row
// position.
func decodeSimilarity(raw json.RawMessage, n, k int) ([][]algorithms.Neighbor, error) {
	rows := make([][]any, n)

	switch firstByte(raw) {
	case '[':
		var list [][]any
		if err := unmarshalNumbers(raw, &list); err != nil {
			return nil, err
		}
		if len(list) > n {
			return nil, fmt.Errorf("%w: %d similarity rows for %d items", ErrSchema, len(list), n)
		}
		copy(rows, list)
	case '{':
		var keyed map[string][]any
		if err := unmarshalNumbers(raw, &keyed); err != nil {
			return nil, err
		}
		for key, row := range keyed {
			pos, err := strconv.Atoi(key)
			if err != nil || pos < 0 || pos >= n {
				return nil, fmt.Errorf("%w: bad similarity row key %q", ErrSchema, key)
			}
			rows[pos] = row
		}
	default:
		return nil, fmt.Errorf("%w: similarity must be an array or object", ErrSchema)
	}

	out := make([][]algorithms.Neighbor, n)
	for pos, row := range rows {
		ns, err := decodeRow(row, pos, n, k)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", pos, err)
		}
		out[pos] = ns
	}
	return out, nil
}

// decodeRow converts one similarity row into a ranked neighbor list.
func decodeRow(row []any, self, n, k int) ([]algorithms.Neighbor, error) {
	if len(row) == 0 {
		return nil, nil
	}

	if _, bare := row[0].(json.Number); bare {
		values := make([]float64, len(row))
		for i, v := range row {
			num, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("%w: mixed similarity row", ErrSchema)
			}
			f, err := num.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSchema, err)
			}
			values[i] = f
		}

		// A row spanning the whole catalog is a dense score row.
		if len(values) == n {
			return algorithms.TopKFromScores(values, self, k), nil
		}

		// Otherwise it is a legacy position list ranked best-first.
		ns := make([]algorithms.Neighbor, len(values))
		for i, v := range values {
			ns[i] = algorithms.Neighbor{
				Pos:   int(v),
				Score: 1 - float64(i)/float64(len(values)+1),
			}
		}
		return ns, nil
	}

	ns := make([]algorithms.Neighbor, 0, len(row))
	for _, entry := range row {
		nb, err := decodeNeighbor(entry)
		if err != nil {
			return nil, err
		}
		ns = append(ns, nb)
	}
	algorithms.SortNeighbors(ns)
	return ns, nil
}

func decodeNeighbor(entry any) (algorithms.Neighbor, error) {
	var posV, scoreV any
	switch e := entry.(type) {
	case []any:
		if len(e) != 2 {
			return algorithms.Neighbor{}, fmt.Errorf("%w: neighbor pair has %d elements", ErrSchema, len(e))
		}
		posV, scoreV = e[0], e[1]
	case map[string]any:
		posV, scoreV = e["pos"], e["score"]
	default:
		return algorithms.Neighbor{}, fmt.Errorf("%w: unsupported neighbor entry %T", ErrSchema, entry)
	}

	pos := catalog.ParseOptionalInt(posV)
	if pos == nil {
		return algorithms.Neighbor{}, fmt.Errorf("%w: neighbor without position", ErrSchema)
	}
	return algorithms.Neighbor{Pos: *pos, Score: catalog.ParseFloat(scoreV)}, nil
}

// decodeIndex reads a title→position map. Keys are re-normalized and
// visited in sorted order so collisions resolve the same way every load.
func decodeIndex(raw json.RawMessage) (map[string]int, error) {
	var entries map[string]any
	if err := unmarshalNumbers(raw, &entries); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	titles := make(map[string]int, len(entries))
	for _, k := range keys {
		pos := catalog.ParseOptionalInt(entries[k])
		if pos == nil {
			return nil, fmt.Errorf("%w: index entry %q has no position", ErrSchema, k)
		}
		titles[catalog.NormalizeTitle(k)] = *pos
	}
	return titles, nil
}
