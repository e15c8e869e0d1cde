// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxFeatures is the default vocabulary cap.
const DefaultMaxFeatures = 20000

// ErrEmptyVocabulary is returned when no term survives tokenization and
// stop-word removal.
var ErrEmptyVocabulary = errors.New("empty vocabulary: corpus has no usable terms")

// TFIDFConfig configures the vectorizer.
type TFIDFConfig struct {
	// MaxFeatures caps the vocabulary size. Zero uses DefaultMaxFeatures.
	MaxFeatures int

	// KeepStopWords disables English stop-word removal.
	KeepStopWords bool
}

// Term is one non-zero coordinate of a sparse vector.
type Term struct {
	Index  int
	Weight float64
}

// SparseVector is a sparse vector sorted by ascending Index.
type SparseVector []Term

// Norm returns the Euclidean norm of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of two sorted sparse vectors, or 0
// when either is a zero vector.
func Cosine(a, b SparseVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Index == b[j].Index:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Index < b[j].Index:
			i++
		default:
			j++
		}
	}

	denom := a.Norm() * b.Norm()
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// TFIDF fits term-frequency / inverse-document-frequency models.
type TFIDF struct {
	maxFeatures int
	stopWords   map[string]struct{}
}

// NewTFIDF creates a vectorizer.
func NewTFIDF(cfg TFIDFConfig) *TFIDF {
	t := &TFIDF{
		maxFeatures: cfg.MaxFeatures,
		stopWords:   englishStopWords,
	}
	if t.maxFeatures <= 0 {
		t.maxFeatures = DefaultMaxFeatures
	}
	if cfg.KeepStopWords {
		t.stopWords = nil
	}
	return t
}

// TFIDFModel is a fitted, frozen vocabulary with its IDF weights.
type TFIDFModel struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	stopWords  map[string]struct{}
}

// Fit builds the vocabulary and IDF weights from docs.
func (t *TFIDF) Fit(docs []string) (*TFIDFModel, error) {
	termCount := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range t.tokens(doc) {
			termCount[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	if len(termCount) == 0 {
		return nil, fmt.Errorf("fit %d documents: %w", len(docs), ErrEmptyVocabulary)
	}

	terms := make([]string, 0, len(termCount))
	for term := range termCount {
		terms = append(terms, term)
	}

	if len(terms) > t.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ci, cj := termCount[terms[i]], termCount[terms[j]]
			if ci != cj {
				return ci > cj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:t.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	m := &TFIDFModel{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		stopWords:  t.stopWords,
	}
	for i, term := range terms {
		m.vocabulary[term] = i
		m.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return m, nil
}

// FitTransform fits the model on docs and returns their vectors.
func (t *TFIDF) FitTransform(docs []string) (*TFIDFModel, []SparseVector, error) {
	m, err := t.Fit(docs)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Transform(docs), nil
}

// VocabularySize returns the number of columns in the feature space.
func (m *TFIDFModel) VocabularySize() int {
	return len(m.terms)
}

// Transform vectorizes docs in the frozen feature space. Terms outside the
// vocabulary are ignored.
func (m *TFIDFModel) Transform(docs []string) []SparseVector {
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		out[i] = m.vector(doc)
	}
	return out
}

func (m *TFIDFModel) vector(doc string) SparseVector {
	counts := make(map[int]int)
	for _, tok := range tokenize(doc, m.stopWords) {
		if idx, ok := m.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	v := make(SparseVector, 0, len(counts))
	var sum float64
	for idx, c := range counts {
		w := float64(c) * m.idf[idx]
		v = append(v, Term{Index: idx, Weight: w})
		sum += w * w
	}
	sort.Slice(v, func(i, j int) bool { return v[i].Index < v[j].Index })

	norm := math.Sqrt(sum)
	for i := range v {
		v[i].Weight /= norm
	}
	return v
}

func (t *TFIDF) tokens(doc string) []string {
	return tokenize(doc, t.stopWords)
}

// tokenize lower-cases doc and returns runs of two or more word characters
// that are not stop words.
func tokenize(doc string, stop map[string]struct{}) []string {
	var out []string
	lower := strings.ToLower(doc)
	start := -1
	emit := func(end int) {
		tok := lower[start:end]
		if utf8.RuneCountInString(tok) < 2 {
			return
		}
		if _, skip := stop[tok]; skip {
			return
		}
		out = append(out, tok)
	}

	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			emit(i)
			start = -1
		}
	}
	if start >= 0 {
		emit(len(lower))
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
