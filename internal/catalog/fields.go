// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeTitle returns the title lookup key. It is idempotent.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// LanguageTokens splits a raw language field into clean language tokens.
// Commas are treated as separators and tokens failing IsLanguageToken are
// dropped. Duplicates are preserved in input order.
func LanguageTokens(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	out := fields[:0]
	for _, f := range fields {
		if IsLanguageToken(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsLanguageToken reports whether tok is longer than one character, contains
// no question mark, and is alphabetic once hyphens are removed.
func IsLanguageToken(tok string) bool {
	if utf8.RuneCountInString(tok) <= 1 || strings.ContainsRune(tok, '?') {
		return false
	}
	letters := strings.ReplaceAll(tok, "-", "")
	if letters == "" {
		return false
	}
	for _, r := range letters {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// GenreTokens splits a genre field on whitespace.
func GenreTokens(raw string) []string {
	return strings.Fields(raw)
}

// ParseOptionalInt converts a loosely typed value to an int. Missing, NaN,
// infinite, and non-numeric values yield nil. Fractional values truncate.
func ParseOptionalInt(v any) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		return &t
	case int32:
		n := int(t)
		return &n
	case int64:
		n := int(t)
		return &n
	case float32:
		return intFromFloat(float64(t))
	case float64:
		return intFromFloat(t)
	case json.Number:
		return ParseOptionalInt(t.String())
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "nan") {
			return nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return &n
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return intFromFloat(f)
	default:
		return nil
	}
}

func intFromFloat(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// ParseFloat converts a loosely typed value to a float64, returning 0 for
// missing, NaN, infinite, and non-numeric values.
func ParseFloat(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		return ParseFloat(t.String())
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseString converts a loosely typed value to a string. Missing and NaN
// values yield ok=false.
func ParseString(v any) (s string, ok bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		if math.IsNaN(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
