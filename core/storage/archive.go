package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrReportNotFound is returned by Archive.Get for an unknown run.
var ErrReportNotFound = errors.New("report not found")

// Archive stores one JSON report per sync run under a key prefix.
type Archive struct {
	client Client
	bucket string
	prefix string
	region string
}

// NewArchive creates an archive over the configured bucket.
func NewArchive(client Client, cfg Config) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.ReportPrefix, "/"),
		region: cfg.Region,
	}
}

// EnsureBucket creates the bucket when it does not exist.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Key returns the object key of a run report.
func (a *Archive) Key(runID string) string {
	return path.Join(a.prefix, runID+".json")
}

// Put uploads the report of a run as JSON and returns its object key.
func (a *Archive) Put(ctx context.Context, runID string, report any) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := a.Key(runID)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	return key, nil
}

// Get downloads the report of a run and decodes it into out.
func (a *Archive) Get(ctx context.Context, runID string, out any) error {
	key := a.Key(runID)
	reader, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to get report %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		if isNoSuchKey(err) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to read report %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return nil
}

// List returns the run ids of archived reports, sorted.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	// Cancelling stops the listing goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{Prefix: a.prefix + "/", Recursive: true}

	var ids []string
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		name := path.Base(obj.Key)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
