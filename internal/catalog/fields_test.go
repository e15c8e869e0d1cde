// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  Inception \t", "inception"},
		{"", ""},
		{"ALREADY lower", "already lower"},
		{"\nÉlite  ", "élite"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeTitle(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeTitle(got); again != got {
				t.Errorf("NormalizeTitle not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestIsLanguageToken(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"English", true},
		{"Chi-nese", true},
		{"E", false},
		{"??", false},
		{"Eng?ish", false},
		{"--", false},
		{"English2", false},
		{"Français", true},
		{"日本語", true},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			if got := IsLanguageToken(tt.tok); got != tt.want {
				t.Errorf("IsLanguageToken(%q) = %v, want %v", tt.tok, got, tt.want)
			}
		})
	}
}

func TestLanguageTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "comma separated", raw: "English, Hindi", want: []string{"English", "Hindi"}},
		{name: "joined by comma", raw: "English,French", want: []string{"English", "French"}},
		{name: "garbage dropped", raw: "English ?? x Chi-nese 123", want: []string{"English", "Chi-nese"}},
		{name: "only garbage", raw: "? , -", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LanguageTokens(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LanguageTokens(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseOptionalInt(t *testing.T) {
	intp := func(n int) *int { return &n }

	tests := []struct {
		name string
		in   any
		want *int
	}{
		{name: "nil", in: nil, want: nil},
		{name: "int", in: 42, want: intp(42)},
		{name: "float", in: 1995.0, want: intp(1995)},
		{name: "NaN", in: math.NaN(), want: nil},
		{name: "Inf", in: math.Inf(1), want: nil},
		{name: "numeric string", in: " 862 ", want: intp(862)},
		{name: "float string", in: "2001.0", want: intp(2001)},
		{name: "nan string", in: "NaN", want: nil},
		{name: "empty string", in: "", want: nil},
		{name: "garbage string", in: "1995-10-30", want: nil},
		{name: "json number", in: json.Number("7"), want: intp(7)},
		{name: "bool", in: true, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptionalInt(tt.in)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("ParseOptionalInt(%v) = %v, want %v", tt.in, got, tt.want)
			case *got != *tt.want:
				t.Errorf("ParseOptionalInt(%v) = %d, want %d", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "nil", in: nil, want: 0},
		{name: "float", in: 7.5, want: 7.5},
		{name: "int", in: 8, want: 8},
		{name: "string", in: "6.1", want: 6.1},
		{name: "bad string", in: "n/a", want: 0},
		{name: "NaN", in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFloat(tt.in); got != tt.want {
				t.Errorf("ParseFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
