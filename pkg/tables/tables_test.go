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
	"math"
	"testing"
)

func TestSizeRatiosSumToOne(t *testing.T) {
	var sum float64
	for _, tbl := range All() {
		if tbl.SizeRatio <= 0 {
			t.Errorf("table %s has non-positive size ratio %v", tbl.Name, tbl.SizeRatio)
		}
		sum += tbl.SizeRatio
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("size ratios sum to %v, want 1.0", sum)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		tbl, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if tbl.Name != name {
			t.Errorf("Lookup(%q) returned table %q", name, tbl.Name)
		}
		if tbl.Schema == nil {
			t.Errorf("table %q has no schema", name)
		}
		if len(tbl.PartitionBy) == 0 {
			t.Errorf("table %q has no partition columns", name)
		}
	}
	if _, err := Lookup("nope"); err == nil {
		t.Error("Lookup of unknown table did not fail")
	}
}

func TestPartitionColumnsExist(t *testing.T) {
	for _, tbl := range All() {
		for _, col := range tbl.PartitionBy {
			if _, ok := tbl.Schema.FieldsByName(col); !ok {
				t.Errorf("table %s: partition column %q not in schema", tbl.Name, col)
			}
		}
		for _, col := range tbl.SortBy {
			if _, ok := tbl.Schema.FieldsByName(col); !ok {
				t.Errorf("table %s: sort column %q not in schema", tbl.Name, col)
			}
		}
	}
}

func TestCapRows(t *testing.T) {
	tests := []struct {
		name    string
		maxRows int64
		target  int64
		want    int64
	}{
		{"uncapped", 0, 5_000_000, 5_000_000},
		{"below cap", 1000, 500, 500},
		{"at cap", 1000, 1000, 1000},
		{"above cap", 1000, 2000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := Table{Name: "x", MaxRows: tt.maxRows}
			if got := tbl.CapRows(tt.target); got != tt.want {
				t.Errorf("CapRows(%d) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}
