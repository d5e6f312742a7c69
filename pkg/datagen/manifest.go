package datagen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
)

// Manifest describes a finished generation run. It is uploaded next to
// the dataset so consumers can discover tables and row counts without
// listing the bucket.
type Manifest struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	Tool         string        `json:"tool"`
	Version      string        `json:"version"`
	TargetSizeGB float64       `json:"target_size_gb"`
	ChunkRows    int           `json:"chunk_rows"`
	Bucket       string        `json:"bucket"`
	Prefix       string        `json:"prefix"`
	TotalRows    int64         `json:"total_rows"`
	TotalBytes   int64         `json:"total_bytes"`
	TotalChunks  int64         `json:"total_chunks"`
	FailedChunks int64         `json:"failed_chunks"`
	Tables       []TableResult `json:"tables"`
}

// BuildManifest assembles the manifest from per-table results.
func BuildManifest(version string, sizeGB float64, chunkRows int, bucket, prefix string, results []TableResult) Manifest {
	m := Manifest{
		GeneratedAt:  time.Now().UTC(),
		Tool:         "lakegen",
		Version:      version,
		TargetSizeGB: sizeGB,
		ChunkRows:    chunkRows,
		Bucket:       bucket,
		Prefix:       prefix,
		Tables:       results,
	}
	for _, r := range results {
		m.TotalRows += r.Rows
		m.TotalBytes += r.Bytes
		m.TotalChunks += r.Chunks
		m.FailedChunks += r.FailedChunks
	}
	return m
}

// ManifestKey returns the object key the manifest is uploaded under.
func ManifestKey(prefix string) string {
	if prefix == "" {
		return "data_manifest.json"
	}
	return prefix + "/data_manifest.json"
}

// UploadManifest writes the manifest JSON to the dataset prefix and
// returns its object key.
func (c *Config) UploadManifest(ctx context.Context, m Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	key := ManifestKey(c.Prefix)
	_, err = c.Client.PutObject(ctx, c.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("upload manifest: %w", err)
	}
	return key, nil
}
