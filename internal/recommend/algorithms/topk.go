// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"container/heap"
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultK is the number of neighbors retained per item.
const DefaultK = 50

// rowsPerTask is the number of rows a worker scores before yielding.
const rowsPerTask = 256

// Neighbor is one entry of an item's neighbor list.
type Neighbor struct {
	Pos   int     `json:"pos"`
	Score float64 `json:"score"`
}

// Less reports whether a ranks ahead of b: higher score first, then lower
// position.
func (a Neighbor) Less(b Neighbor) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Pos < b.Pos
}

// SortNeighbors sorts ns into rank order.
func SortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool { return ns[i].Less(ns[j]) })
}

// TopKOptions configures BuildTopK.
type TopKOptions struct {
	// K is the neighbor list length. Zero uses DefaultK.
	K int

	// Workers bounds concurrency. Zero uses GOMAXPROCS.
	Workers int

	// Progress, when set, is called with the number of completed rows.
	// It may be called concurrently.
	Progress func(done int)
}

// BuildTopK returns, for every vector, its K most similar other vectors.
// Each list excludes the row itself and is sorted by Neighbor.Less. Rows
// with a zero vector still receive min(K, N-1) neighbors scored 0.
func BuildTopK(ctx context.Context, vectors []SparseVector, opts TopKOptions) ([][]Neighbor, error) {
	k := opts.K
	if k <= 0 {
		k = DefaultK
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := len(vectors)
	index := newPostingIndex(vectors)
	result := make([][]Neighbor, n)

	scratch := sync.Pool{
		New: func() any {
			s := make([]float64, n)
			return &s
		},
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += rowsPerTask {
		end := min(start+rowsPerTask, n)
		g.Go(func() error {
			sp := scratch.Get().(*[]float64) //nolint:errcheck // pool only holds *[]float64
			defer scratch.Put(sp)
			scores := *sp

			for row := start; row < end; row++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				index.score(vectors[row], scores)
				result[row] = TopKFromScores(scores, row, k)

				if opts.Progress != nil {
					opts.Progress(int(done.Add(1)))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build top-k index: %w", err)
	}
	return result, nil
}

// postingIndex is a term → (row, weight) inverted index over L2-normalized
// rows, so that a row's dot products with every other row accumulate in
// one pass over its own terms.
type postingIndex struct {
	postings map[int][]posting
	norms    []float64
}

type posting struct {
	row    int
	weight float64
}

func newPostingIndex(vectors []SparseVector) *postingIndex {
	idx := &postingIndex{
		postings: make(map[int][]posting),
		norms:    make([]float64, len(vectors)),
	}
	for row, v := range vectors {
		norm := v.Norm()
		idx.norms[row] = norm
		if norm == 0 {
			continue
		}
		for _, t := range v {
			idx.postings[t.Index] = append(idx.postings[t.Index], posting{row: row, weight: t.Weight / norm})
		}
	}
	return idx
}

// score writes the cosine similarity of v against every row into scores.
func (p *postingIndex) score(v SparseVector, scores []float64) {
	clear(scores)
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for _, t := range v {
		w := t.Weight / norm
		for _, post := range p.postings[t.Index] {
			scores[post.row] += w * post.weight
		}
	}
}

// TopKFromScores picks the k best positions from a dense score row, skipping
// self. Pass a negative self to keep every position.
func TopKFromScores(scores []float64, self, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	h := make(neighborHeap, 0, k)
	for pos, s := range scores {
		if pos == self {
			continue
		}
		cand := Neighbor{Pos: pos, Score: s}
		if len(h) < k {
			heap.Push(&h, cand)
			continue
		}
		if cand.Less(h[0]) {
			h[0] = cand
			heap.Fix(&h, 0)
		}
	}

	out := []Neighbor(h)
	SortNeighbors(out)
	return out
}

// neighborHeap keeps the worst-ranked neighbor at the root.
type neighborHeap []Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return h[j].Less(h[i]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x any) {
	*h = append(*h, x.(Neighbor)) //nolint:errcheck // heap only holds Neighbor
}

func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
