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

// Package datagen plans and runs dataset generation: it turns a target
// size into per-table chunk plans, renders chunks to snappy parquet and
// uploads them concurrently.
package datagen

import (
	"fmt"

	"github.com/russfellows/lakegen/pkg/tables"
)

const (
	// DefaultChunkRows is the chunk size for plain parquet output.
	DefaultChunkRows = 1_000_000

	// IcebergChunkRows is the smaller chunk size used when files will
	// be committed to an Iceberg table, keeping per-file manifests
	// manageable.
	IcebergChunkRows = 500_000

	// RowsPerGB estimates how many rows across all tables make up one
	// gigabyte of snappy parquet. Planning only; actual file sizes
	// vary with compression.
	RowsPerGB = 1_000_000
)

// TablePlan is the generation plan for a single table.
type TablePlan struct {
	Table     tables.Table
	Rows      int64
	Chunks    int64
	ChunkRows int
}

// PlanTable computes the chunk plan for one table at the given target
// dataset size. The table's share of the total row volume is its size
// ratio; dimension tables are clamped to their ID space.
func PlanTable(t tables.Table, sizeGB float64, chunkRows int) (TablePlan, error) {
	if sizeGB <= 0 {
		return TablePlan{}, fmt.Errorf("target size must be positive, got %vGB", sizeGB)
	}
	if chunkRows <= 0 {
		chunkRows = DefaultChunkRows
	}
	rows := int64(sizeGB * RowsPerGB * t.SizeRatio)
	if rows < 1 {
		rows = 1
	}
	rows = t.CapRows(rows)
	chunks := (rows + int64(chunkRows) - 1) / int64(chunkRows)
	return TablePlan{
		Table:     t,
		Rows:      rows,
		Chunks:    chunks,
		ChunkRows: chunkRows,
	}, nil
}

// Plan computes plans for the given tables at the target size.
func Plan(tbls []tables.Table, sizeGB float64, chunkRows int) ([]TablePlan, error) {
	plans := make([]TablePlan, 0, len(tbls))
	for _, t := range tbls {
		p, err := PlanTable(t, sizeGB, chunkRows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// RowsInChunk returns the row count of the given chunk, shrinking the
// final chunk to the plan's remainder.
func (p TablePlan) RowsInChunk(chunkID int64) int {
	start := chunkID * int64(p.ChunkRows)
	if start >= p.Rows {
		return 0
	}
	if remaining := p.Rows - start; remaining < int64(p.ChunkRows) {
		return int(remaining)
	}
	return p.ChunkRows
}

// TotalChunks sums the chunk counts of all plans.
func TotalChunks(plans []TablePlan) int64 {
	var n int64
	for _, p := range plans {
		n += p.Chunks
	}
	return n
}

// TotalRows sums the row counts of all plans.
func TotalRows(plans []TablePlan) int64 {
	var n int64
	for _, p := range plans {
		n += p.Rows
	}
	return n
}
