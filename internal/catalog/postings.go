// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Postings maps category tokens to the set of item positions carrying them.
type Postings struct {
	byToken map[string]*roaring.Bitmap
}

// NewPostings creates an empty posting table.
func NewPostings() *Postings {
	return &Postings{byToken: make(map[string]*roaring.Bitmap)}
}

// Add records that the item at pos carries token.
func (p *Postings) Add(token string, pos int) {
	rb, ok := p.byToken[token]
	if !ok {
		rb = roaring.New()
		p.byToken[token] = rb
	}
	rb.Add(uint32(pos)) //nolint:gosec // catalog positions fit in uint32
}

// Get returns the positions carrying token, or nil.
func (p *Postings) Get(token string) *roaring.Bitmap {
	return p.byToken[token]
}

// Union returns the positions carrying any of tokens. Unknown tokens are
// ignored. The result is a fresh bitmap owned by the caller.
func (p *Postings) Union(tokens []string) *roaring.Bitmap {
	maps := make([]*roaring.Bitmap, 0, len(tokens))
	for _, t := range tokens {
		if rb := p.byToken[t]; rb != nil {
			maps = append(maps, rb)
		}
	}
	if len(maps) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(maps...)
}

// Positions returns the positions carrying token in ascending order.
func (p *Postings) Positions(token string) []int {
	rb := p.byToken[token]
	if rb == nil {
		return nil
	}
	out := make([]int, 0, rb.GetCardinality())
	it := rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Tokens returns all known tokens in ascending order.
func (p *Postings) Tokens() []string {
	out := make([]string, 0, len(p.byToken))
	for t := range p.byToken {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Counts returns the number of items per token.
func (p *Postings) Counts() map[string]int {
	out := make(map[string]int, len(p.byToken))
	for t, rb := range p.byToken {
		out[t] = int(rb.GetCardinality())
	}
	return out
}

// Len returns the number of distinct tokens.
func (p *Postings) Len() int {
	return len(p.byToken)
}
