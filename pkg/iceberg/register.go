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

package iceberg

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/apache/iceberg-go/catalog"
	"github.com/russfellows/lakegen/pkg/datagen"
	"github.com/russfellows/lakegen/pkg/tables"
)

// DefaultMinSuccess is the fraction of chunks that must have uploaded
// for a table to be registered. Registering a mostly-missing table
// would hand benchmarks a dataset that silently undershoots its size.
const DefaultMinSuccess = 0.8

// DefaultCommitBatch is the number of data files added per commit.
const DefaultCommitBatch = 100

// RegisterConfig drives catalog registration of generated tables.
type RegisterConfig struct {
	Catalog   catalog.Catalog
	Namespace string

	// Bucket holds the uploaded chunks; object keys from generation
	// results are resolved against it.
	Bucket string

	Commit CommitConfig

	// BatchSize bounds files per commit. Zero means DefaultCommitBatch.
	BatchSize int

	// MinSuccess is the required fraction of successfully uploaded
	// chunks. Zero means DefaultMinSuccess.
	MinSuccess float64

	// OnProgress is called after each commit batch.
	OnProgress func(table string, committed, total int)
}

// RegisterResult summarizes one table's registration.
type RegisterResult struct {
	Table    string        `json:"table"`
	Files    int           `json:"files"`
	Commits  int           `json:"commits"`
	Retries  int           `json:"retries"`
	Duration time.Duration `json:"duration_ns"`
}

// RegisterTable creates (or loads) the Iceberg table for t and commits
// the uploaded chunk files to it. It refuses to register when too many
// chunks failed to upload.
func (r *RegisterConfig) RegisterTable(ctx context.Context, t tables.Table, res datagen.TableResult) (*RegisterResult, error) {
	if len(res.Objects) == 0 {
		return nil, fmt.Errorf("table %s: no uploaded chunks to register", t.Name)
	}
	minSuccess := r.MinSuccess
	if minSuccess <= 0 {
		minSuccess = DefaultMinSuccess
	}
	if res.Chunks > 0 {
		ratio := float64(res.Chunks-res.FailedChunks) / float64(res.Chunks)
		if ratio < minSuccess {
			return nil, fmt.Errorf("table %s: only %.0f%% of chunks uploaded, need %.0f%%",
				t.Name, ratio*100, minSuccess*100)
		}
	}

	start := time.Now()

	schema, err := ConvertSchema(t.Schema)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}
	spec, err := BuildPartitionSpec(schema, t.PartitionBy)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", t.Name, err)
	}

	tbl, err := LoadOrCreateTable(ctx, r.Catalog, r.Namespace, t.Name, schema, spec)
	if err != nil {
		return nil, err
	}

	// Commit in stable order so reruns and operators see the same
	// batches.
	files := make([]string, len(res.Objects))
	for i, key := range res.Objects {
		files[i] = fmt.Sprintf("s3://%s/%s", r.Bucket, key)
	}
	sort.Strings(files)

	batch := r.BatchSize
	if batch <= 0 {
		batch = DefaultCommitBatch
	}
	commit := r.Commit
	if commit.MaxRetries <= 0 {
		commit = DefaultCommitConfig()
	}

	result := &RegisterResult{Table: t.Name, Files: len(files)}
	for begin := 0; begin < len(files); begin += batch {
		end := begin + batch
		if end > len(files) {
			end = len(files)
		}
		cr := CommitWithRetry(ctx, tbl, files[begin:end], commit)
		result.Retries += cr.Retries
		if !cr.Success {
			return nil, fmt.Errorf("table %s: commit batch %d-%d: %w", t.Name, begin, end, cr.Err)
		}
		result.Commits++
		if r.OnProgress != nil {
			r.OnProgress(t.Name, end, len(files))
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// RegisterAll ensures the namespace exists and registers every result.
// A table that fails registration is reported and skipped; the rest
// still register.
func (r *RegisterConfig) RegisterAll(ctx context.Context, results []datagen.TableResult, onError func(table string, err error)) ([]RegisterResult, error) {
	if err := EnsureNamespace(ctx, r.Catalog, r.Namespace); err != nil {
		return nil, fmt.Errorf("ensure namespace %s: %w", r.Namespace, err)
	}

	registered := make([]RegisterResult, 0, len(results))
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return registered, err
		}
		t, err := tables.Lookup(res.Table)
		if err != nil {
			if onError != nil {
				onError(res.Table, err)
			}
			continue
		}
		rr, err := r.RegisterTable(ctx, t, res)
		if err != nil {
			if onError != nil {
				onError(res.Table, err)
			}
			continue
		}
		registered = append(registered, *rr)
	}
	return registered, nil
}
