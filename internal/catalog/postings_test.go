// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"reflect"
	"testing"
)

func TestPostings(t *testing.T) {
	p := NewPostings()
	p.Add("Drama", 0)
	p.Add("Drama", 2)
	p.Add("Drama", 2)
	p.Add("Action", 1)

	if got := p.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := p.Tokens(); !reflect.DeepEqual(got, []string{"Action", "Drama"}) {
		t.Errorf("Tokens() = %v", got)
	}
	if got := p.Positions("Drama"); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Positions(Drama) = %v, want [0 2]", got)
	}
	if got := p.Positions("Western"); got != nil {
		t.Errorf("Positions(Western) = %v, want nil", got)
	}
	if action := p.Get("Action"); action == nil || !action.Contains(1) || action.Contains(0) {
		t.Error("Get(Action) mismatch")
	}
	if p.Get("Western") != nil {
		t.Error("Get(Western) should be nil")
	}
	if got := p.Counts(); !reflect.DeepEqual(got, map[string]int{"Drama": 2, "Action": 1}) {
		t.Errorf("Counts() = %v", got)
	}

	tests := []struct {
		name   string
		tokens []string
		want   []uint32
	}{
		{"single", []string{"Action"}, []uint32{1}},
		{"or across tokens", []string{"Action", "Drama"}, []uint32{0, 1, 2}},
		{"unknown ignored", []string{"Western", "Action"}, []uint32{1}},
		{"none", nil, []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Union(tt.tokens).ToArray()
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Union(%v) = %v, want %v", tt.tokens, got, tt.want)
			}
		})
	}

	// Union must not alias the stored bitmap.
	u := p.Union([]string{"Action"})
	u.Add(9)
	if p.Get("Action").Contains(9) {
		t.Error("Union() result aliases the posting list")
	}
}
