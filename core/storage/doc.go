// Package storage archives run reports in S3-compatible object storage.
//
// The Client interface wraps the MinIO Go client so tests can substitute the
// mock in core/storage/mocks. Archive builds on it: Put uploads a JSON document
// (creating the bucket on first use), Get downloads one and List enumerates keys
// under a prefix, newest first when keys start with a timestamp.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archive := storage.NewArchive(client, cfg.Storage.Bucket, cfg.Storage.Region)
//	err = archive.Put(ctx, "runs/assignments/20260301T080000Z-<id>.json", payload)
package storage
