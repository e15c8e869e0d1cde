// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMinIOImage is pinned so fixtures stay reproducible.
	DefaultMinIOImage = "minio/minio:RELEASE.2024-10-13T13-34-11Z"

	// DefaultMinIOPort is the S3 API port inside the container.
	DefaultMinIOPort = "9000"

	DefaultAccessKey = "reelmatch"
	DefaultSecretKey = "reelmatch-secret"
)

// MinIOContainer is a running MinIO server with one bucket created.
type MinIOContainer struct {
	testcontainers.Container
	Endpoint  string // host:port, no scheme
	Bucket    string
	AccessKey string
	SecretKey string
}

// MinIOOption configures NewMinIOContainer.
type MinIOOption func(*minioConfig)

type minioConfig struct {
	image        string
	bucket       string
	startTimeout time.Duration
}

// WithMinIOImage overrides the container image.
func WithMinIOImage(image string) MinIOOption {
	return func(c *minioConfig) {
		c.image = image
	}
}

// WithBucket sets the bucket created after startup.
func WithBucket(bucket string) MinIOOption {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

// WithStartTimeout bounds how long to wait for the health endpoint.
func WithStartTimeout(timeout time.Duration) MinIOOption {
	return func(c *minioConfig) {
		c.startTimeout = timeout
	}
}

// NewMinIOContainer starts MinIO and creates the configured bucket.
func NewMinIOContainer(ctx context.Context, opts ...MinIOOption) (*MinIOContainer, error) {
	cfg := &minioConfig{
		image:        DefaultMinIOImage,
		bucket:       "models",
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultMinIOPort + "/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     DefaultAccessKey,
			"MINIO_ROOT_PASSWORD": DefaultSecretKey,
		},
		Cmd: []string{"server", "/data"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultMinIOPort+"/tcp"),
			wait.ForHTTP("/minio/health/live").WithPort(DefaultMinIOPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultMinIOPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	mc := &MinIOContainer{
		Container: container,
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		Bucket:    cfg.bucket,
		AccessKey: DefaultAccessKey,
		SecretKey: DefaultSecretKey,
	}

	if err := mc.createBucket(ctx); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return mc, nil
}

// Client returns a minio client bound to the container.
func (m *MinIOContainer) Client() (*minio.Client, error) {
	return minio.New(m.Endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(m.AccessKey, m.SecretKey, ""),
	})
}

func (m *MinIOContainer) createBucket(ctx context.Context) error {
	client, err := m.Client()
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}
	if err := client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.Bucket, err)
	}
	return nil
}
