// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Command buildindex turns catalog CSV files into a reelmatch model.
//
// The pipeline loads and deduplicates the CSVs, vectorizes each item's
// overview, genres and cast with TF-IDF, keeps the K most similar items per
// row, and writes the compressed model plus a metadata sidecar. With
// -upload the result is pushed to the configured object storage bucket.
//
//	buildindex -csv tmdb.csv -csv indian.csv -out model.json.zst -k 50
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// csvList collects repeated -csv flags.
type csvList []string

func (c *csvList) String() string { return strings.Join(*c, ",") }

func (c *csvList) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*c = append(*c, p)
		}
	}
	return nil
}

func main() {
	var (
		csvs        csvList
		out         = flag.String("out", "", "model output path (default: model.path from config)")
		k           = flag.Int("k", defaultK, "neighbors kept per item")
		maxFeatures = flag.Int("max-features", defaultMaxFeatures, "TF-IDF vocabulary cap")
		workers     = flag.Int("workers", runtime.GOMAXPROCS(0), "similarity workers")
		compression = flag.String("compression", "", "zstd, lz4 or none (default: model.compression from config)")
		upload      = flag.Bool("upload", false, "upload the model to the configured bucket")
		configPath  = flag.String("config", "", "optional YAML config file")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Var(&csvs, "csv", "catalog CSV file (repeatable or comma-separated)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "buildindex: %v\n", err)
		os.Exit(2)
	}

	level := cfg.Logging.Level
	if *verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Timestamp: true, Output: os.Stderr})

	opts := buildOptions{
		CSVPaths:    csvs,
		OutPath:     cfg.Model.Path,
		K:           *k,
		MaxFeatures: *maxFeatures,
		Workers:     *workers,
	}
	if *out != "" {
		opts.OutPath = *out
	}
	codecName := cfg.Model.Compression
	if *compression != "" {
		codecName = *compression
	}
	if opts.Compression, err = storage.ParseCompression(codecName); err != nil {
		logging.Fatal().Err(err).Msg("Invalid compression")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.WithComponent("buildindex")
	meta, err := build(ctx, opts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Build failed")
	}

	if *upload {
		remote, err := storage.NewRemoteSource(storage.RemoteConfig{
			Endpoint:        cfg.Model.Remote.Endpoint,
			Bucket:          cfg.Model.Remote.Bucket,
			Key:             cfg.Model.Remote.Key,
			AccessKeyID:     cfg.Model.Remote.AccessKeyID,
			SecretAccessKey: cfg.Model.Remote.SecretAccessKey,
			UseSSL:          cfg.Model.Remote.UseSSL,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Remote storage not configured")
		}
		if err := remote.Upload(ctx, opts.OutPath); err != nil {
			logger.Fatal().Err(err).Msg("Upload failed")
		}
	}

	logger.Info().
		Str("path", opts.OutPath).
		Int("items", meta.ItemCount).
		Int("vocabulary", meta.VocabularySize).
		Int64("size_bytes", meta.SizeBytes).
		Str("checksum", meta.Checksum).
		Msg("Model written")
}
