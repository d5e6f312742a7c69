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

package iceberg

import (
	"fmt"
	"strings"

	"github.com/apache/iceberg-go"
)

// idBuckets is the bucket count for ID-based partition columns. High
// cardinality IDs hash into a fixed number of buckets.
const idBuckets = 100

// partitionFieldIDStart is where partition field IDs begin, clear of
// the data column IDs.
const partitionFieldIDStart = 1000

// BuildPartitionSpec derives the Iceberg partition spec for the given
// source columns. The transform follows the column's type and name:
// dates partition by day, ID columns bucket, and low-cardinality
// strings and years partition by identity.
func BuildPartitionSpec(schema *iceberg.Schema, columns []string) (*iceberg.PartitionSpec, error) {
	fields := make([]iceberg.PartitionField, 0, len(columns))
	for i, col := range columns {
		src, ok := schema.FindFieldByName(col)
		if !ok {
			return nil, fmt.Errorf("partition column %q not in schema", col)
		}
		field, err := partitionField(src, partitionFieldIDStart+i)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	spec := iceberg.NewPartitionSpec(fields...)
	return &spec, nil
}

func partitionField(src iceberg.NestedField, fieldID int) (iceberg.PartitionField, error) {
	f := iceberg.PartitionField{
		SourceID: src.ID,
		FieldID:  fieldID,
	}
	switch src.Type.(type) {
	case iceberg.DateType:
		f.Transform = iceberg.DayTransform{}
		f.Name = src.Name + "_day"
	case iceberg.StringType:
		f.Transform = iceberg.IdentityTransform{}
		f.Name = src.Name
	case iceberg.Int32Type, iceberg.Int64Type:
		if strings.HasSuffix(src.Name, "_id") {
			f.Transform = iceberg.BucketTransform{NumBuckets: idBuckets}
			f.Name = src.Name + "_bucket"
		} else {
			// Years and other small integer domains.
			f.Transform = iceberg.IdentityTransform{}
			f.Name = src.Name
		}
	default:
		return f, fmt.Errorf("no partition transform for column %s of type %s", src.Name, src.Type)
	}
	return f, nil
}
