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
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Fixed epochs keep partition values inside realistic, bounded ranges
// so day-partitioned tables do not explode into millions of partitions.
var (
	registrationEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	catalogEpoch      = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	supplierEpoch     = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	orderEpoch        = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	activityEpoch     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

const (
	registrationSpanDays = 365 * 5
	catalogSpanDays      = 365 * 6
	supplierSpanDays     = 365 * 20
	orderSpanDays        = 365 * 2
	activitySpanSeconds  = 365 * 24 * 3600
)

// GenerateChunk builds the Arrow record for rows [start, start+rows) of
// the table. Data columns are deterministic in (table, chunkID), so a
// chunk regenerates identically regardless of worker scheduling; only
// the created_at/updated_at audit columns carry the generation time.
// The caller owns the returned record and must Release it.
func (t Table) GenerateChunk(mem memory.Allocator, chunkID, start int64, rows int) (arrow.Record, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("chunk %d of %s: non-positive row count %d", chunkID, t.Name, rows)
	}
	src := newChunkSource(t.Name, chunkID)
	b := array.NewRecordBuilder(mem, t.Schema)
	defer b.Release()

	now := time.Now().UTC()

	switch t.Name {
	case "customers":
		genCustomers(b, src, start, rows, now)
	case "products":
		genProducts(b, src, start, rows, now)
	case "suppliers":
		genSuppliers(b, src, start, rows, now)
	case "orders":
		genOrders(b, src, start, rows, now)
	case "lineitem":
		genLineitem(b, src, start, rows, now)
	case "inventory":
		genInventory(b, src, start, rows, now)
	case "events":
		genEvents(b, src, start, rows, now)
	default:
		return nil, fmt.Errorf("no generator for table %q", t.Name)
	}
	return b.NewRecord(), nil
}

func ts(t time.Time) arrow.Timestamp {
	return arrow.Timestamp(t.UnixMicro())
}

func d32(t time.Time) arrow.Date32 {
	return arrow.Date32FromTime(t)
}

func money(cents int64) decimal128.Num {
	return decimal128.FromI64(cents)
}

// round2 keeps float money-like columns at two decimals.
func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func genCustomers(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		customerID = b.Field(0).(*array.Int64Builder)
		name       = b.Field(1).(*array.StringBuilder)
		email      = b.Field(2).(*array.StringBuilder)
		phone      = b.Field(3).(*array.StringBuilder)
		address    = b.Field(4).(*array.StringBuilder)
		country    = b.Field(5).(*array.StringBuilder)
		region     = b.Field(6).(*array.StringBuilder)
		regDate    = b.Field(7).(*array.Date32Builder)
		credit     = b.Field(8).(*array.Int32Builder)
		lifetime   = b.Field(9).(*array.Float64Builder)
		premium    = b.Field(10).(*array.BooleanBuilder)
		lastLogin  = b.Field(11).(*array.TimestampBuilder)
		createdAt  = b.Field(12).(*array.TimestampBuilder)
		updatedAt  = b.Field(13).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		id := start + int64(i) + 1
		customerID.Append(id)
		name.Append(src.fake.Name())
		email.Append(fmt.Sprintf("customer_%d@%s", id, src.fake.DomainName()))
		phone.Append(src.fake.Phone())
		address.Append(fmt.Sprintf("%d %s", src.rng.IntN(9999)+1, src.fake.Street()))
		country.Append(src.pick(Countries))
		region.Append(src.pick(Regions))
		regDate.Append(d32(registrationEpoch.AddDate(0, 0, src.rng.IntN(registrationSpanDays))))
		credit.Append(clampI32(src.normInt(650, 100), 300, 850))
		lifetime.Append(round2(src.expFloat(500)))
		premium.Append(src.chance(0.2))
		lastLogin.Append(ts(activityEpoch.Add(time.Duration(src.rng.IntN(activitySpanSeconds)) * time.Second)))
		createdAt.Append(ts(now))
		updatedAt.Append(ts(now))
	}
}

func genProducts(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		productID   = b.Field(0).(*array.Int64Builder)
		name        = b.Field(1).(*array.StringBuilder)
		category    = b.Field(2).(*array.StringBuilder)
		brand       = b.Field(3).(*array.StringBuilder)
		price       = b.Field(4).(*array.Decimal128Builder)
		cost        = b.Field(5).(*array.Decimal128Builder)
		weight      = b.Field(6).(*array.Float32Builder)
		dims        = b.Field(7).(*array.StringBuilder)
		description = b.Field(8).(*array.StringBuilder)
		supplierID  = b.Field(9).(*array.Int64Builder)
		created     = b.Field(10).(*array.Date32Builder)
		active      = b.Field(11).(*array.BooleanBuilder)
		createdAt   = b.Field(12).(*array.TimestampBuilder)
		updatedAt   = b.Field(13).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		id := start + int64(i) + 1
		productID.Append(id)
		name.Append(fmt.Sprintf("%s %s %d", src.fake.Adjective(), src.fake.NounConcrete(), id%1000))
		category.Append(src.pick(ProductCategories))
		brand.Append(src.fake.Company())
		priceCents := src.cents(50) + 99
		price.Append(money(priceCents))
		cost.Append(money(int64(float64(priceCents) * src.uniform(0.3, 0.8))))
		weight.Append(float32(src.expFloat(2)))
		dims.Append(fmt.Sprintf("%dx%dx%d cm", src.rng.IntN(100)+1, src.rng.IntN(100)+1, src.rng.IntN(100)+1))
		description.Append(src.fake.Sentence(8))
		supplierID.Append(src.id(NumSuppliers))
		created.Append(d32(catalogEpoch.AddDate(0, 0, src.rng.IntN(catalogSpanDays))))
		active.Append(src.chance(0.9))
		createdAt.Append(ts(now))
		updatedAt.Append(ts(now))
	}
}

func genSuppliers(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		supplierID = b.Field(0).(*array.Int64Builder)
		name       = b.Field(1).(*array.StringBuilder)
		contact    = b.Field(2).(*array.StringBuilder)
		email      = b.Field(3).(*array.StringBuilder)
		phone      = b.Field(4).(*array.StringBuilder)
		address    = b.Field(5).(*array.StringBuilder)
		country    = b.Field(6).(*array.StringBuilder)
		region     = b.Field(7).(*array.StringBuilder)
		rating     = b.Field(8).(*array.Float32Builder)
		estDate    = b.Field(9).(*array.Date32Builder)
		estYear    = b.Field(10).(*array.Int32Builder)
		verified   = b.Field(11).(*array.BooleanBuilder)
		createdAt  = b.Field(12).(*array.TimestampBuilder)
		updatedAt  = b.Field(13).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		id := start + int64(i) + 1
		supplierID.Append(id)
		name.Append(src.fake.Company())
		contact.Append(src.fake.Name())
		email.Append(fmt.Sprintf("supplier_%d@%s", id, src.fake.DomainName()))
		phone.Append(src.fake.Phone())
		address.Append(fmt.Sprintf("%d %s", src.rng.IntN(9999)+1, src.fake.Street()))
		country.Append(src.pick(Countries))
		region.Append(src.pick(Regions))
		rating.Append(float32(round2(src.uniform(1, 5))))
		established := supplierEpoch.AddDate(0, 0, src.rng.IntN(supplierSpanDays))
		estDate.Append(d32(established))
		estYear.Append(int32(established.Year()))
		verified.Append(src.chance(0.7))
		createdAt.Append(ts(now))
		updatedAt.Append(ts(now))
	}
}

func genOrders(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		orderID    = b.Field(0).(*array.Int64Builder)
		customerID = b.Field(1).(*array.Int64Builder)
		orderDate  = b.Field(2).(*array.Date32Builder)
		shipDate   = b.Field(3).(*array.Date32Builder)
		delivery   = b.Field(4).(*array.Date32Builder)
		status     = b.Field(5).(*array.StringBuilder)
		payment    = b.Field(6).(*array.StringBuilder)
		total      = b.Field(7).(*array.Decimal128Builder)
		tax        = b.Field(8).(*array.Decimal128Builder)
		shipping   = b.Field(9).(*array.Decimal128Builder)
		discount   = b.Field(10).(*array.Decimal128Builder)
		country    = b.Field(11).(*array.StringBuilder)
		region     = b.Field(12).(*array.StringBuilder)
		createdAt  = b.Field(13).(*array.TimestampBuilder)
		updatedAt  = b.Field(14).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		orderID.Append(start + int64(i) + 1)
		customerID.Append(src.id(NumCustomers))
		placed := orderEpoch.AddDate(0, 0, src.rng.IntN(orderSpanDays))
		orderDate.Append(d32(placed))
		shipDate.Append(d32(placed.AddDate(0, 0, 1+src.rng.IntN(3))))
		delivery.Append(d32(placed.AddDate(0, 0, 3+src.rng.IntN(8))))
		status.Append(src.pick(OrderStatuses))
		payment.Append(src.pick(PaymentMethods))
		totalCents := src.cents(100) + 100
		total.Append(money(totalCents))
		tax.Append(money(int64(float64(totalCents) * 0.1)))
		shipping.Append(money(src.cents(10)))
		discount.Append(money(src.cents(5)))
		country.Append(src.pick(Countries))
		region.Append(src.pick(Regions))
		createdAt.Append(ts(now))
		updatedAt.Append(ts(now))
	}
}

func genLineitem(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		lineitemID = b.Field(0).(*array.Int64Builder)
		orderID    = b.Field(1).(*array.Int64Builder)
		productID  = b.Field(2).(*array.Int64Builder)
		quantity   = b.Field(3).(*array.Int32Builder)
		unitPrice  = b.Field(4).(*array.Decimal128Builder)
		discount   = b.Field(5).(*array.Float32Builder)
		taxRate    = b.Field(6).(*array.Float32Builder)
		extended   = b.Field(7).(*array.Decimal128Builder)
		discAmt    = b.Field(8).(*array.Decimal128Builder)
		taxAmt     = b.Field(9).(*array.Decimal128Builder)
		netAmt     = b.Field(10).(*array.Decimal128Builder)
		status     = b.Field(11).(*array.StringBuilder)
		shipDate   = b.Field(12).(*array.Date32Builder)
		comment    = b.Field(13).(*array.StringBuilder)
		createdAt  = b.Field(14).(*array.TimestampBuilder)
		updatedAt  = b.Field(15).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		lineitemID.Append(start + int64(i) + 1)
		orderID.Append(src.id(NumOrders))
		productID.Append(src.id(NumProducts))
		qty := int64(1 + src.rng.IntN(19))
		quantity.Append(int32(qty))
		unitCents := src.cents(25) + 99
		unitPrice.Append(money(unitCents))
		disc := src.uniform(0, 0.3)
		discount.Append(float32(disc))
		rate := src.uniform(0.05, 0.15)
		taxRate.Append(float32(rate))
		extCents := qty * unitCents
		extended.Append(money(extCents))
		discAmt.Append(money(int64(float64(extCents) * disc)))
		taxAmt.Append(money(int64(float64(extCents) * rate)))
		netAmt.Append(money(int64(float64(extCents) * (1 - disc) * (1 + rate))))
		status.Append(src.pick(LineStatuses))
		shipDate.Append(d32(orderEpoch.AddDate(0, 0, src.rng.IntN(orderSpanDays))))
		comment.Append(fmt.Sprintf("line comment %06d", src.rng.IntN(1_000_000)))
		createdAt.Append(ts(now))
		updatedAt.Append(ts(now))
	}
}

func genInventory(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		inventoryID = b.Field(0).(*array.Int64Builder)
		productID   = b.Field(1).(*array.Int64Builder)
		supplierID  = b.Field(2).(*array.Int64Builder)
		warehouse   = b.Field(3).(*array.StringBuilder)
		onHand      = b.Field(4).(*array.Int32Builder)
		allocated   = b.Field(5).(*array.Int32Builder)
		reorderPt   = b.Field(6).(*array.Int32Builder)
		reorderQty  = b.Field(7).(*array.Int32Builder)
		unitCost    = b.Field(8).(*array.Decimal128Builder)
		updated     = b.Field(9).(*array.TimestampBuilder)
		updatedDate = b.Field(10).(*array.Date32Builder)
		createdAt   = b.Field(11).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		inventoryID.Append(start + int64(i) + 1)
		productID.Append(src.id(NumProducts))
		supplierID.Append(src.id(NumSuppliers))
		warehouse.Append(fmt.Sprintf("WH-%s-%02d", src.pick(Countries), src.rng.IntN(20)+1))
		have := src.rng.IntN(10_000)
		onHand.Append(int32(have))
		if have > 0 {
			allocated.Append(int32(src.rng.IntN(have)))
		} else {
			allocated.Append(0)
		}
		reorderPt.Append(int32(src.rng.IntN(500) + 10))
		reorderQty.Append(int32(src.rng.IntN(1000) + 50))
		unitCost.Append(money(src.cents(20) + 50))
		when := activityEpoch.Add(time.Duration(src.rng.IntN(activitySpanSeconds)) * time.Second)
		updated.Append(ts(when))
		updatedDate.Append(d32(when))
		createdAt.Append(ts(now))
	}
}

func genEvents(b *array.RecordBuilder, src *chunkSource, start int64, rows int, now time.Time) {
	var (
		eventID    = b.Field(0).(*array.Int64Builder)
		customerID = b.Field(1).(*array.Int64Builder)
		eventType  = b.Field(2).(*array.StringBuilder)
		eventTs    = b.Field(3).(*array.TimestampBuilder)
		eventDate  = b.Field(4).(*array.Date32Builder)
		pageURL    = b.Field(5).(*array.StringBuilder)
		userAgent  = b.Field(6).(*array.StringBuilder)
		ipAddr     = b.Field(7).(*array.StringBuilder)
		country    = b.Field(8).(*array.StringBuilder)
		device     = b.Field(9).(*array.StringBuilder)
		sessionID  = b.Field(10).(*array.StringBuilder)
		productID  = b.Field(11).(*array.Int64Builder)
		query      = b.Field(12).(*array.StringBuilder)
		createdAt  = b.Field(13).(*array.TimestampBuilder)
	)
	for i := 0; i < rows; i++ {
		eventID.Append(start + int64(i) + 1)
		customerID.Append(src.id(NumCustomers))
		kind := src.pick(EventTypes)
		eventType.Append(kind)
		when := activityEpoch.Add(time.Duration(src.rng.IntN(activitySpanSeconds)) * time.Second)
		eventTs.Append(ts(when))
		eventDate.Append(d32(when))
		pageURL.Append(fmt.Sprintf("/page/%d", src.rng.IntN(10_000)))
		userAgent.Append(src.fake.UserAgent())
		ipAddr.Append(src.fake.IPv4Address())
		country.Append(src.pick(Countries))
		device.Append(src.pick(DeviceTypes))
		sessionID.Append(fmt.Sprintf("session_%016x", src.rng.Uint64()))
		if src.chance(0.9) {
			productID.Append(src.id(NumProducts))
		} else {
			productID.AppendNull()
		}
		if kind == "search" || src.chance(0.2) {
			query.Append(src.fake.HackerPhrase())
		} else {
			query.AppendNull()
		}
		createdAt.Append(ts(now))
	}
}
