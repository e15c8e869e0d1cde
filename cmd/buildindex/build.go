// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

const (
	defaultK           = 50
	defaultMaxFeatures = algorithms.DefaultMaxFeatures
	progressEvery      = 2000
)

type buildOptions struct {
	CSVPaths    []string
	OutPath     string
	K           int
	MaxFeatures int
	Workers     int
	Compression storage.Compression
}

func (o *buildOptions) validate() error {
	if len(o.CSVPaths) == 0 {
		return errors.New("at least one -csv file is required")
	}
	if o.OutPath == "" {
		return errors.New("output path is required")
	}
	if o.K < 1 {
		return fmt.Errorf("k must be positive, got %d", o.K)
	}
	if o.MaxFeatures < 1 {
		return fmt.Errorf("max-features must be positive, got %d", o.MaxFeatures)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return nil
}

// build runs the offline pipeline and returns the saved metadata.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func build(ctx context.Context, opts buildOptions, logger zerolog.Logger) (*storage.ModelMetadata, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	cat, err := catalog.LoadCSV(ctx, logger, opts.CSVPaths...)
	if err != nil {
		return nil, err
	}
	if cat.Len() == 0 {
		return nil, errors.New("catalog is empty after deduplication")
	}

	docs := make([]string, cat.Len())
	for i := range docs {
		docs[i] = cat.At(i).FeatureText()
	}

	tfidf, vectors, err := algorithms.NewTFIDF(algorithms.TFIDFConfig{MaxFeatures: opts.MaxFeatures}).FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("vectorize catalog: %w", err)
	}
	logger.Info().Int("items", len(docs)).Int("vocabulary", tfidf.VocabularySize()).Msg("TF-IDF fitted")

	total := len(vectors)
	similarity, err := algorithms.BuildTopK(ctx, vectors, algorithms.TopKOptions{
		K:       opts.K,
		Workers: opts.Workers,
		Progress: func(done int) {
			if done%progressEvery == 0 || done == total {
				logger.Info().Int("done", done).Int("total", total).Msg("Similarity progress")
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build neighbor lists: %w", err)
	}

	model := &storage.Model{
		Catalog:    cat,
		Similarity: similarity,
		Titles:     cat.TitleIndex(),
	}

	store := storage.NewStore(storage.StoreConfig{Path: opts.OutPath, Compression: opts.Compression})
	return store.Save(ctx, model, storage.ModelMetadata{
		Name:            fmt.Sprintf("tfidf-top%d", opts.K),
		BuiltAt:         time.Now().UTC(),
		VocabularySize:  tfidf.VocabularySize(),
		K:               opts.K,
		BuildDurationMS: time.Since(start).Milliseconds(),
	})
}
