package iceberg

import (
	"context"
	"strings"
	"testing"

	"github.com/russfellows/lakegen/pkg/datagen"
	"github.com/russfellows/lakegen/pkg/tables"
)

func TestRegisterTableRequiresUploads(t *testing.T) {
	tbl, err := tables.Lookup("orders")
	if err != nil {
		t.Fatal(err)
	}
	r := &RegisterConfig{Namespace: "bench", Bucket: "data"}
	_, err = r.RegisterTable(context.Background(), tbl, datagen.TableResult{Table: "orders"})
	if err == nil {
		t.Error("registration with no uploaded chunks did not fail")
	}
}

func TestRegisterTableEnforcesSuccessRatio(t *testing.T) {
	tbl, err := tables.Lookup("orders")
	if err != nil {
		t.Fatal(err)
	}
	r := &RegisterConfig{Namespace: "bench", Bucket: "data"}
	res := datagen.TableResult{
		Table:        "orders",
		Chunks:       10,
		FailedChunks: 3,
		Objects:      []string{"data/orders/orders_chunk_000000.parquet"},
	}
	_, err = r.RegisterTable(context.Background(), tbl, res)
	if err == nil {
		t.Fatal("registration with 70% uploaded chunks did not fail")
	}
	if !strings.Contains(err.Error(), "70%") {
		t.Errorf("error does not report the upload ratio: %v", err)
	}
}

func TestParseCatalogType(t *testing.T) {
	tests := []struct {
		in      string
		want    CatalogType
		wantErr bool
	}{
		{"rest", CatalogREST, false},
		{"REST", CatalogREST, false},
		{"unity", CatalogUnity, false},
		{"glue", CatalogGlue, false},
		{"hive", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCatalogType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCatalogType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCatalogType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsConflictError(t *testing.T) {
	if IsConflictError(nil) {
		t.Error("nil is not a conflict")
	}
	if !IsConflictError(errString("409 Conflict: commit failed")) {
		t.Error("409 response should be a conflict")
	}
	if IsConflictError(errString("connection refused")) {
		t.Error("connection error is not a conflict")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
