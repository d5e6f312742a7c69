package iceberg

import (
	"testing"

	"github.com/apache/iceberg-go"
	"github.com/russfellows/lakegen/pkg/tables"
)

func TestBuildPartitionSpecTransforms(t *testing.T) {
	tests := []struct {
		table         string
		columns       []string
		wantNames     []string
		wantTransform []iceberg.Transform
	}{
		{
			table:         "lineitem",
			columns:       []string{"ship_date"},
			wantNames:     []string{"ship_date_day"},
			wantTransform: []iceberg.Transform{iceberg.DayTransform{}},
		},
		{
			table:         "events",
			columns:       []string{"event_date", "event_type"},
			wantNames:     []string{"event_date_day", "event_type"},
			wantTransform: []iceberg.Transform{iceberg.DayTransform{}, iceberg.IdentityTransform{}},
		},
		{
			table:         "suppliers",
			columns:       []string{"country", "established_year"},
			wantNames:     []string{"country", "established_year"},
			wantTransform: []iceberg.Transform{iceberg.IdentityTransform{}, iceberg.IdentityTransform{}},
		},
		{
			table:         "inventory",
			columns:       []string{"product_id"},
			wantNames:     []string{"product_id_bucket"},
			wantTransform: []iceberg.Transform{iceberg.BucketTransform{NumBuckets: 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			tbl, err := tables.Lookup(tt.table)
			if err != nil {
				t.Fatal(err)
			}
			schema, err := ConvertSchema(tbl.Schema)
			if err != nil {
				t.Fatal(err)
			}
			spec, err := BuildPartitionSpec(schema, tt.columns)
			if err != nil {
				t.Fatalf("BuildPartitionSpec: %v", err)
			}
			if spec.NumFields() != len(tt.wantNames) {
				t.Fatalf("spec has %d fields, want %d", spec.NumFields(), len(tt.wantNames))
			}
			for i := range tt.wantNames {
				f := spec.Field(i)
				if f.Name != tt.wantNames[i] {
					t.Errorf("field %d: name %q, want %q", i, f.Name, tt.wantNames[i])
				}
				if f.Transform.String() != tt.wantTransform[i].String() {
					t.Errorf("field %d: transform %s, want %s", i, f.Transform, tt.wantTransform[i])
				}
				if f.FieldID != partitionFieldIDStart+i {
					t.Errorf("field %d: FieldID %d, want %d", i, f.FieldID, partitionFieldIDStart+i)
				}
			}
		})
	}
}

func TestBuildPartitionSpecAllBenchmarkTables(t *testing.T) {
	for _, tbl := range tables.All() {
		t.Run(tbl.Name, func(t *testing.T) {
			schema, err := ConvertSchema(tbl.Schema)
			if err != nil {
				t.Fatal(err)
			}
			spec, err := BuildPartitionSpec(schema, tbl.PartitionBy)
			if err != nil {
				t.Fatalf("BuildPartitionSpec: %v", err)
			}
			if spec.NumFields() != len(tbl.PartitionBy) {
				t.Errorf("spec has %d fields, want %d", spec.NumFields(), len(tbl.PartitionBy))
			}
		})
	}
}

func TestBuildPartitionSpecUnknownColumn(t *testing.T) {
	tbl, err := tables.Lookup("orders")
	if err != nil {
		t.Fatal(err)
	}
	schema, err := ConvertSchema(tbl.Schema)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildPartitionSpec(schema, []string{"nope"}); err == nil {
		t.Error("BuildPartitionSpec accepted unknown column")
	}
}
