package datagen

import "testing"

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix  string
		table   string
		chunkID int64
		want    string
	}{
		{"", "orders", 0, "orders/orders_chunk_000000.parquet"},
		{"bench/v1", "lineitem", 42, "bench/v1/lineitem/lineitem_chunk_000042.parquet"},
		{"data", "events", 1_000_000, "data/events/events_chunk_1000000.parquet"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.prefix, tt.table, tt.chunkID); got != tt.want {
			t.Errorf("ObjectKey(%q, %q, %d) = %q, want %q", tt.prefix, tt.table, tt.chunkID, got, tt.want)
		}
	}
}
