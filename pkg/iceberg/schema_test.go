package iceberg

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/iceberg-go"
	"github.com/russfellows/lakegen/pkg/tables"
)

func TestConvertSchemaTypes(t *testing.T) {
	src := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "count", Type: arrow.PrimitiveTypes.Int32},
		{Name: "ratio", Type: arrow.PrimitiveTypes.Float32},
		{Name: "value", Type: arrow.PrimitiveTypes.Float64},
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "flag", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32},
		{Name: "seen", Type: &arrow.TimestampType{Unit: arrow.Microsecond}},
		{Name: "price", Type: &arrow.Decimal128Type{Precision: 10, Scale: 2}},
		{Name: "note", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	got, err := ConvertSchema(src)
	if err != nil {
		t.Fatalf("ConvertSchema: %v", err)
	}

	want := []struct {
		name     string
		typ      iceberg.Type
		required bool
	}{
		{"id", iceberg.PrimitiveTypes.Int64, true},
		{"count", iceberg.PrimitiveTypes.Int32, true},
		{"ratio", iceberg.PrimitiveTypes.Float32, true},
		{"value", iceberg.PrimitiveTypes.Float64, true},
		{"name", iceberg.PrimitiveTypes.String, true},
		{"flag", iceberg.PrimitiveTypes.Bool, true},
		{"day", iceberg.PrimitiveTypes.Date, true},
		{"seen", iceberg.PrimitiveTypes.Timestamp, true},
		{"price", iceberg.DecimalTypeOf(10, 2), true},
		{"note", iceberg.PrimitiveTypes.String, false},
	}

	fields := got.Fields()
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		f := fields[i]
		if f.Name != w.name {
			t.Errorf("field %d: name %q, want %q", i, f.Name, w.name)
		}
		if f.ID != i+1 {
			t.Errorf("field %s: ID %d, want %d", f.Name, f.ID, i+1)
		}
		if !f.Type.Equals(w.typ) {
			t.Errorf("field %s: type %s, want %s", f.Name, f.Type, w.typ)
		}
		if f.Required != w.required {
			t.Errorf("field %s: required %v, want %v", f.Name, f.Required, w.required)
		}
	}
}

func TestConvertSchemaRejectsUnsupported(t *testing.T) {
	src := arrow.NewSchema([]arrow.Field{
		{Name: "blob", Type: arrow.BinaryTypes.Binary},
	}, nil)
	if _, err := ConvertSchema(src); err == nil {
		t.Error("ConvertSchema accepted unsupported binary type")
	}
}

func TestConvertSchemaAllBenchmarkTables(t *testing.T) {
	for _, tbl := range tables.All() {
		t.Run(tbl.Name, func(t *testing.T) {
			s, err := ConvertSchema(tbl.Schema)
			if err != nil {
				t.Fatalf("ConvertSchema: %v", err)
			}
			if len(s.Fields()) != tbl.Schema.NumFields() {
				t.Errorf("got %d fields, want %d", len(s.Fields()), tbl.Schema.NumFields())
			}
		})
	}
}
