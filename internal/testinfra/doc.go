// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

//go:build integration

// Package testinfra provides container fixtures for integration tests.
//
// Containers are managed with testcontainers-go and only compiled under the
// integration build tag:
//
//	go test -tags integration ./internal/recommend/storage/...
//
// # MinIO Container
//
// MinIOContainer runs a throwaway S3-compatible server with a pre-created
// bucket, used to exercise remote model artifacts end to end:
//
//	func TestRemote(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mc, err := testinfra.NewMinIOContainer(ctx, testinfra.WithBucket("models"))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mc)
//
//	    src, _ := storage.NewRemoteSource(storage.RemoteConfig{
//	        Endpoint:        mc.Endpoint,
//	        Bucket:          mc.Bucket,
//	        Key:             "model.json.zst",
//	        AccessKeyID:     mc.AccessKey,
//	        SecretAccessKey: mc.SecretKey,
//	    }, zerolog.Nop())
//	    // ...
//	}
//
// Tests call SkipIfNoDocker first so the suite degrades to a skip on hosts
// without a Docker daemon.
package testinfra
