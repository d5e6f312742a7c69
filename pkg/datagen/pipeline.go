/*
 * Lakegen (C) 2025-2026 Lakegen Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package datagen

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Uploader is the object-store surface the pipeline needs. Satisfied by
// *minio.Client.
type Uploader interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Config drives a generation run.
type Config struct {
	// Client uploads chunks. Required.
	Client Uploader

	// Bucket receives the dataset. Required.
	Bucket string

	// Prefix is prepended to all object keys. May be empty.
	Prefix string

	// Concurrency bounds in-flight chunk workers per table.
	Concurrency int

	// Limiter optionally throttles uploads. Nil means unthrottled.
	Limiter *rate.Limiter

	// Metrics optionally streams per-chunk timings. Nil disables.
	Metrics *Metrics

	// OnProgress is called after every finished chunk, success or not.
	OnProgress func(table string, done, total int64)

	// OnError is called for every failed chunk. Failed chunks are
	// counted and skipped, never retried; the run continues.
	OnError func(table string, chunkID int64, err error)
}

// TableResult summarizes one table's generation run.
type TableResult struct {
	Table        string        `json:"table"`
	Rows         int64         `json:"rows"`
	Chunks       int64         `json:"chunks"`
	FailedChunks int64         `json:"failed_chunks"`
	Bytes        int64         `json:"bytes"`
	Elapsed      time.Duration `json:"elapsed_ns"`

	// Objects holds the keys of successfully uploaded chunks, in no
	// particular order. Catalog registration consumes these; they are
	// kept out of the manifest.
	Objects []string `json:"-"`
}

// GenerateTable runs one table's plan: chunks are generated, marshalled
// to parquet and uploaded by a bounded worker pool. A chunk failure is
// reported and counted but does not stop the run; only context
// cancellation aborts.
func (c *Config) GenerateTable(ctx context.Context, plan TablePlan) (*TableResult, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("no object client configured")
	}
	if c.Bucket == "" {
		return nil, fmt.Errorf("no bucket configured")
	}
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	start := time.Now()
	var done, failed, bytesUp atomic.Int64
	var mu sync.Mutex
	var objects []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for chunkID := int64(0); chunkID < plan.Chunks; chunkID++ {
		chunkID := chunkID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, err := c.uploadChunk(gctx, plan, chunkID, &bytesUp)
			if err == nil && key != "" {
				mu.Lock()
				objects = append(objects, key)
				mu.Unlock()
			}
			if err != nil {
				failed.Add(1)
				if c.OnError != nil {
					c.OnError(plan.Table.Name, chunkID, err)
				}
			}
			n := done.Add(1)
			if c.OnProgress != nil {
				c.OnProgress(plan.Table.Name, n, plan.Chunks)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &TableResult{
		Table:        plan.Table.Name,
		Rows:         plan.Rows,
		Chunks:       plan.Chunks,
		FailedChunks: failed.Load(),
		Bytes:        bytesUp.Load(),
		Elapsed:      time.Since(start),
		Objects:      objects,
	}, nil
}

func (c *Config) uploadChunk(ctx context.Context, plan TablePlan, chunkID int64, bytesUp *atomic.Int64) (string, error) {
	rows := plan.RowsInChunk(chunkID)
	if rows <= 0 {
		return "", nil
	}
	chunkStart := time.Now()

	rec, err := plan.Table.GenerateChunk(memory.DefaultAllocator, chunkID, chunkID*int64(plan.ChunkRows), rows)
	if err != nil {
		c.Metrics.RecordChunk(plan.Table.Name, 0, 0, time.Since(chunkStart), err)
		return "", fmt.Errorf("generate chunk %d: %w", chunkID, err)
	}
	buf, err := MarshalChunk(rec)
	rec.Release()
	if err != nil {
		c.Metrics.RecordChunk(plan.Table.Name, rows, 0, time.Since(chunkStart), err)
		return "", fmt.Errorf("marshal chunk %d: %w", chunkID, err)
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	key := ObjectKey(c.Prefix, plan.Table.Name, chunkID)
	size := int64(buf.Len())
	_, err = c.Client.PutObject(ctx, c.Bucket, key, buf, size,
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		c.Metrics.RecordChunk(plan.Table.Name, rows, size, time.Since(chunkStart), err)
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	bytesUp.Add(size)
	c.Metrics.RecordChunk(plan.Table.Name, rows, size, time.Since(chunkStart), nil)
	return key, nil
}

// GenerateAll runs all plans in order, returning per-table results.
// Tables run sequentially; chunks within a table run concurrently.
func (c *Config) GenerateAll(ctx context.Context, plans []TablePlan) ([]TableResult, error) {
	results := make([]TableResult, 0, len(plans))
	for _, plan := range plans {
		res, err := c.GenerateTable(ctx, plan)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}
