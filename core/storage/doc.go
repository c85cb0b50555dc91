// Package storage archives sync run reports in S3-compatible object storage.
//
// The Client interface wraps the MinIO Go client so archive logic can be
// tested against the mock in core/storage/mocks. Archive writes one JSON
// object per run under a configurable prefix and reads them back by run id.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archive := storage.NewArchive(client, cfg.Storage)
//	key, err := archive.Put(ctx, runID, report)
package storage
