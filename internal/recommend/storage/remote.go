// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// RemoteConfig locates a model artifact in S3-compatible storage.
type RemoteConfig struct {
	Endpoint        string
	Bucket          string
	Key             string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// RemoteSource moves model artifacts between object storage and the local
// filesystem.
type RemoteSource struct {
	client *minio.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewRemoteSource creates a client for cfg.
//
//nolint:gocritic // cfg passed by value at construction time
func NewRemoteSource(cfg RemoteConfig, logger zerolog.Logger) (*RemoteSource, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.Key == "" {
		return nil, errors.New("remote model requires endpoint, bucket, and key")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return NewRemoteSourceWithClient(client, cfg.Bucket, cfg.Key, logger), nil
}

// NewRemoteSourceWithClient wraps an existing client.
func NewRemoteSourceWithClient(client *minio.Client, bucket, key string, logger zerolog.Logger) *RemoteSource {
	return &RemoteSource{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger.With().Str("component", "model_remote").Logger(),
	}
}

func (r *RemoteSource) metadataKey() string {
	return r.key + ".meta.json"
}

// Fetch downloads the model object to localPath, plus its metadata sidecar
// when one exists. A missing model object yields ErrModelNotFound.
func (r *RemoteSource) Fetch(ctx context.Context, localPath string) error {
	if dir := filepath.Dir(localPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create model directory: %w", err)
		}
	}

	if err := r.client.FGetObject(ctx, r.bucket, r.key, localPath, minio.GetObjectOptions{}); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: s3://%s/%s", ErrModelNotFound, r.bucket, r.key)
		}
		return fmt.Errorf("download model: %w", err)
	}

	metaPath := localPath + ".meta.json"
	if err := r.client.FGetObject(ctx, r.bucket, r.metadataKey(), metaPath, minio.GetObjectOptions{}); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("download metadata: %w", err)
		}
		r.logger.Debug().Str("key", r.metadataKey()).Msg("no remote metadata sidecar")
	}

	r.logger.Info().
		Str("bucket", r.bucket).
		Str("key", r.key).
		Str("path", localPath).
		Msg("Model downloaded")
	return nil
}

// Upload pushes the model at localPath and its sidecar, if present.
func (r *RemoteSource) Upload(ctx context.Context, localPath string) error {
	if _, err := r.client.FPutObject(ctx, r.bucket, r.key, localPath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return fmt.Errorf("upload model: %w", err)
	}

	metaPath := localPath + ".meta.json"
	if _, err := os.Stat(metaPath); err == nil {
		if _, err := r.client.FPutObject(ctx, r.bucket, r.metadataKey(), metaPath, minio.PutObjectOptions{
			ContentType: "application/json",
		}); err != nil {
			return fmt.Errorf("upload metadata: %w", err)
		}
	}

	r.logger.Info().Str("bucket", r.bucket).Str("key", r.key).Msg("Model uploaded")
	return nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
