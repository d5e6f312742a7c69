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

package tables

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestGenerateChunkAllTables(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	const rows = 250
	for _, tbl := range All() {
		t.Run(tbl.Name, func(t *testing.T) {
			rec, err := tbl.GenerateChunk(mem, 0, 0, rows)
			if err != nil {
				t.Fatalf("GenerateChunk: %v", err)
			}
			defer rec.Release()

			if rec.NumRows() != rows {
				t.Errorf("got %d rows, want %d", rec.NumRows(), rows)
			}
			if !rec.Schema().Equal(tbl.Schema) {
				t.Errorf("record schema differs from table schema")
			}
			for i, col := range rec.Columns() {
				field := tbl.Schema.Field(i)
				if !field.Nullable && col.NullN() != 0 {
					t.Errorf("column %s has %d nulls but is not nullable", field.Name, col.NullN())
				}
			}
		})
	}
}

// Data columns must regenerate identically for the same chunk; the
// audit columns carry wall-clock time and are excluded.
func TestGenerateChunkDeterministic(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl, err := Lookup("orders")
	if err != nil {
		t.Fatal(err)
	}
	a, err := tbl.GenerateChunk(mem, 3, 300, 100)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := tbl.GenerateChunk(mem, 3, 300, 100)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	for i, field := range tbl.Schema.Fields() {
		if strings.HasSuffix(field.Name, "_at") {
			continue
		}
		if !array.Equal(a.Column(i), b.Column(i)) {
			t.Errorf("column %s differs between identical chunks", field.Name)
		}
	}
}

func TestGenerateChunkIDsAreSequential(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl, err := Lookup("customers")
	if err != nil {
		t.Fatal(err)
	}
	const start = 100
	rec, err := tbl.GenerateChunk(mem, 2, start, 50)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Release()

	ids := rec.Column(0).(*array.Int64)
	for i := 0; i < ids.Len(); i++ {
		want := int64(start + i + 1)
		if ids.Value(i) != want {
			t.Fatalf("row %d: customer_id = %d, want %d", i, ids.Value(i), want)
		}
	}
}

// events carries the dataset's only nullable columns: product_id is
// null on 10% of rows, search_query is present on search events plus
// 20% of the rest (~30% overall).
func TestGenerateChunkEventsNullRates(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl, err := Lookup("events")
	if err != nil {
		t.Fatal(err)
	}
	const rows = 4000
	rec, err := tbl.GenerateChunk(mem, 0, 0, rows)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Release()

	idx := func(name string) int {
		for i, f := range tbl.Schema.Fields() {
			if f.Name == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}

	nullFrac := float64(rec.Column(idx("product_id")).NullN()) / rows
	if nullFrac < 0.05 || nullFrac > 0.15 {
		t.Errorf("product_id null fraction = %.3f, want ~0.10", nullFrac)
	}
	presentFrac := float64(rows-rec.Column(idx("search_query")).NullN()) / rows
	if presentFrac < 0.20 || presentFrac > 0.40 {
		t.Errorf("search_query present fraction = %.3f, want ~0.30", presentFrac)
	}
}

func TestGenerateChunkRejectsEmpty(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl, err := Lookup("suppliers")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.GenerateChunk(mem, 0, 0, 0); err == nil {
		t.Error("GenerateChunk with zero rows did not fail")
	}
}
