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

// Package tables defines the benchmark tables: their schemas, relative
// sizes, partition layout and per-chunk row generators.
package tables

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Reference ID spaces shared across tables for cross-table realism.
// Foreign keys are drawn uniformly from these ranges.
const (
	NumCustomers = 10_000_000
	NumProducts  = 1_000_000
	NumSuppliers = 100_000
	NumOrders    = 100_000_000
)

// Table describes one benchmark table.
type Table struct {
	// Name is the table and S3 prefix name.
	Name string

	// SizeRatio is the table's share of the total target size.
	SizeRatio float64

	// MaxRows caps dimension tables at their ID space. Zero means the
	// table grows with the target size.
	MaxRows int64

	// Schema is the Arrow schema rows are generated against.
	Schema *arrow.Schema

	// PartitionBy lists the columns used to build the Iceberg partition
	// spec. Transform selection happens per column type.
	PartitionBy []string

	// SortBy documents the preferred sort columns for downstream
	// engines. It is informational; files are written in generation
	// order.
	SortBy []string
}

// All returns the benchmark tables, largest first.
func All() []Table {
	return []Table{
		{
			Name:        "lineitem",
			SizeRatio:   0.60,
			Schema:      LineitemSchema(),
			PartitionBy: []string{"ship_date"},
			SortBy:      []string{"order_id", "lineitem_id"},
		},
		{
			Name:        "events",
			SizeRatio:   0.20,
			Schema:      EventsSchema(),
			PartitionBy: []string{"event_date", "event_type"},
			SortBy:      []string{"event_timestamp", "customer_id"},
		},
		{
			Name:        "orders",
			SizeRatio:   0.08,
			Schema:      OrdersSchema(),
			PartitionBy: []string{"country", "order_date"},
			SortBy:      []string{"order_id", "order_date"},
		},
		{
			Name:        "customers",
			SizeRatio:   0.05,
			MaxRows:     NumCustomers,
			Schema:      CustomersSchema(),
			PartitionBy: []string{"country", "registration_date"},
			SortBy:      []string{"customer_id"},
		},
		{
			Name:        "products",
			SizeRatio:   0.03,
			MaxRows:     NumProducts,
			Schema:      ProductsSchema(),
			PartitionBy: []string{"category", "created_date"},
			SortBy:      []string{"product_id"},
		},
		{
			Name:        "suppliers",
			SizeRatio:   0.02,
			MaxRows:     NumSuppliers,
			Schema:      SuppliersSchema(),
			PartitionBy: []string{"country", "established_year"},
			SortBy:      []string{"supplier_id"},
		},
		{
			Name:        "inventory",
			SizeRatio:   0.02,
			Schema:      InventorySchema(),
			PartitionBy: []string{"warehouse_location", "last_updated_date"},
			SortBy:      []string{"product_id", "supplier_id"},
		},
	}
}

// Names returns the names of all benchmark tables.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, t := range all {
		names = append(names, t.Name)
	}
	return names
}

// Lookup returns the table with the given name.
func Lookup(name string) (Table, error) {
	for _, t := range All() {
		if t.Name == name {
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("unknown table %q, valid tables: %v", name, Names())
}

// CapRows clamps a target row count to the table's ID space. Uncapped
// tables return the target unchanged.
func (t Table) CapRows(target int64) int64 {
	if t.MaxRows > 0 && target > t.MaxRows {
		return t.MaxRows
	}
	return target
}
