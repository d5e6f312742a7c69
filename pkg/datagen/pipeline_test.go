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
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/russfellows/lakegen/pkg/tables"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failKey string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (f *fakeUploader) PutObject(_ context.Context, _, object string, reader io.Reader, size int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	if f.failKey != "" && strings.Contains(object, f.failKey) {
		return minio.UploadInfo{}, errors.New("injected upload failure")
	}
	f.mu.Lock()
	f.objects[object] = data
	f.mu.Unlock()
	return minio.UploadInfo{Key: object, Size: size}, nil
}

func testPlan(t *testing.T) TablePlan {
	t.Helper()
	tbl, err := tables.Lookup("suppliers")
	if err != nil {
		t.Fatal(err)
	}
	return TablePlan{Table: tbl, Rows: 250, Chunks: 3, ChunkRows: 100}
}

func TestGenerateTableUploadsAllChunks(t *testing.T) {
	up := newFakeUploader()
	cfg := &Config{
		Client:      up,
		Bucket:      "bench",
		Prefix:      "data",
		Concurrency: 2,
	}
	res, err := cfg.GenerateTable(context.Background(), testPlan(t))
	if err != nil {
		t.Fatalf("GenerateTable: %v", err)
	}
	if res.FailedChunks != 0 {
		t.Errorf("FailedChunks = %d, want 0", res.FailedChunks)
	}
	if len(up.objects) != 3 {
		t.Fatalf("uploaded %d objects, want 3", len(up.objects))
	}
	for _, key := range []string{
		"data/suppliers/suppliers_chunk_000000.parquet",
		"data/suppliers/suppliers_chunk_000001.parquet",
		"data/suppliers/suppliers_chunk_000002.parquet",
	} {
		if _, ok := up.objects[key]; !ok {
			t.Errorf("missing object %s", key)
		}
	}
	if res.Bytes <= 0 {
		t.Error("result reports no bytes uploaded")
	}
	if len(res.Objects) != 3 {
		t.Errorf("result tracks %d objects, want 3", len(res.Objects))
	}
}

func TestGenerateTableUploadsValidParquet(t *testing.T) {
	up := newFakeUploader()
	cfg := &Config{Client: up, Bucket: "bench", Concurrency: 1}
	plan := testPlan(t)
	if _, err := cfg.GenerateTable(context.Background(), plan); err != nil {
		t.Fatal(err)
	}

	data := up.objects["suppliers/suppliers_chunk_000002.parquet"]
	if data == nil {
		t.Fatal("tail chunk not uploaded")
	}
	tbl, err := UnmarshalChunk(context.Background(), data)
	if err != nil {
		t.Fatalf("UnmarshalChunk: %v", err)
	}
	defer tbl.Release()
	if tbl.NumRows() != 50 {
		t.Errorf("tail chunk has %d rows, want 50", tbl.NumRows())
	}
	if !tbl.Schema().Equal(plan.Table.Schema) {
		t.Error("parquet schema differs from table schema")
	}
}

func TestGenerateTableCountsFailuresAndContinues(t *testing.T) {
	up := newFakeUploader()
	up.failKey = "chunk_000001"
	var failedChunks []int64
	cfg := &Config{
		Client:      up,
		Bucket:      "bench",
		Concurrency: 2,
		OnError: func(_ string, chunkID int64, err error) {
			if err == nil {
				t.Error("OnError called without an error")
			}
			failedChunks = append(failedChunks, chunkID)
		},
	}
	res, err := cfg.GenerateTable(context.Background(), testPlan(t))
	if err != nil {
		t.Fatalf("GenerateTable: %v", err)
	}
	if res.FailedChunks != 1 {
		t.Errorf("FailedChunks = %d, want 1", res.FailedChunks)
	}
	if len(failedChunks) != 1 || failedChunks[0] != 1 {
		t.Errorf("OnError chunks = %v, want [1]", failedChunks)
	}
	// The failed chunk must not halt the remaining uploads.
	if len(up.objects) != 2 {
		t.Errorf("uploaded %d objects, want 2", len(up.objects))
	}
}

func TestGenerateTableHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &Config{Client: newFakeUploader(), Bucket: "bench"}
	if _, err := cfg.GenerateTable(ctx, testPlan(t)); err == nil {
		t.Error("cancelled run did not return an error")
	}
}

func TestUploadManifest(t *testing.T) {
	up := newFakeUploader()
	cfg := &Config{Client: up, Bucket: "bench", Prefix: "data"}
	m := BuildManifest("1.0.0", 10, DefaultChunkRows, "bench", "data", []TableResult{
		{Table: "suppliers", Rows: 250, Chunks: 3, Bytes: 1000},
		{Table: "orders", Rows: 800, Chunks: 1, Bytes: 4000, FailedChunks: 1},
	})
	if m.TotalRows != 1050 || m.TotalBytes != 5000 || m.TotalChunks != 4 || m.FailedChunks != 1 {
		t.Errorf("manifest totals wrong: %+v", m)
	}
	key, err := cfg.UploadManifest(context.Background(), m)
	if err != nil {
		t.Fatalf("UploadManifest: %v", err)
	}
	if key != "data/data_manifest.json" {
		t.Errorf("manifest key = %q", key)
	}
	if _, ok := up.objects[key]; !ok {
		t.Error("manifest not uploaded")
	}
}
