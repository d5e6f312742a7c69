package datagen

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// MarshalChunk renders a record as a snappy-compressed parquet file in
// memory. Chunks are bounded so buffering avoids a scratch directory
// round trip before upload.
func MarshalChunk(rec arrow.Record) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	// Storing the Arrow schema keeps decimal and timestamp types exact
	// on readback.
	w, err := pqarrow.NewFileWriter(rec.Schema(), &buf, props,
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		return nil, fmt.Errorf("create parquet writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return nil, fmt.Errorf("write parquet: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return &buf, nil
}

// UnmarshalChunk parses a parquet chunk back into an Arrow table. Used
// by inspection and verification paths; the caller must Release the
// returned table.
func UnmarshalChunk(ctx context.Context, data []byte) (arrow.Table, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{BatchSize: 1024}, memory.DefaultAllocator)
	if err != nil {
		rdr.Close()
		return nil, fmt.Errorf("open arrow reader: %w", err)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		rdr.Close()
		return nil, fmt.Errorf("read parquet table: %w", err)
	}
	// ReadTable materializes everything, so the reader can go now.
	if err := rdr.Close(); err != nil {
		tbl.Release()
		return nil, fmt.Errorf("close parquet reader: %w", err)
	}
	return tbl, nil
}

// ObjectKey returns the object key for a table chunk. Keys group chunks
// under a per-table prefix so engines can address one table at a time.
func ObjectKey(prefix, table string, chunkID int64) string {
	name := fmt.Sprintf("%s/%s_chunk_%06d.parquet", table, table, chunkID)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
