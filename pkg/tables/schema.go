package tables

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Column types follow what external engines expect from the Iceberg
// layer: dates are date32, money is decimal(p,2), audit columns are
// microsecond timestamps.
var (
	tsUS  = &arrow.TimestampType{Unit: arrow.Microsecond}
	date  = arrow.FixedWidthTypes.Date32
	str   = arrow.BinaryTypes.String
	i32   = arrow.PrimitiveTypes.Int32
	i64   = arrow.PrimitiveTypes.Int64
	f32   = arrow.PrimitiveTypes.Float32
	f64   = arrow.PrimitiveTypes.Float64
	boolT = arrow.FixedWidthTypes.Boolean
)

func dec(precision, scale int32) arrow.DataType {
	return &arrow.Decimal128Type{Precision: precision, Scale: scale}
}

// CustomersSchema returns the Arrow schema for the customers table.
func CustomersSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "customer_id", Type: i64},
		{Name: "customer_name", Type: str},
		{Name: "email", Type: str},
		{Name: "phone", Type: str},
		{Name: "address", Type: str},
		{Name: "country", Type: str},
		{Name: "region", Type: str},
		{Name: "registration_date", Type: date},
		{Name: "credit_score", Type: i32},
		{Name: "lifetime_value", Type: f64},
		{Name: "is_premium", Type: boolT},
		{Name: "last_login", Type: tsUS},
		{Name: "created_at", Type: tsUS},
		{Name: "updated_at", Type: tsUS},
	}, nil)
}

// ProductsSchema returns the Arrow schema for the products table.
func ProductsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "product_id", Type: i64},
		{Name: "product_name", Type: str},
		{Name: "category", Type: str},
		{Name: "brand", Type: str},
		{Name: "price", Type: dec(10, 2)},
		{Name: "cost", Type: dec(10, 2)},
		{Name: "weight", Type: f32},
		{Name: "dimensions", Type: str},
		{Name: "description", Type: str},
		{Name: "supplier_id", Type: i64},
		{Name: "created_date", Type: date},
		{Name: "is_active", Type: boolT},
		{Name: "created_at", Type: tsUS},
		{Name: "updated_at", Type: tsUS},
	}, nil)
}

// SuppliersSchema returns the Arrow schema for the suppliers table.
func SuppliersSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "supplier_id", Type: i64},
		{Name: "supplier_name", Type: str},
		{Name: "contact_name", Type: str},
		{Name: "email", Type: str},
		{Name: "phone", Type: str},
		{Name: "address", Type: str},
		{Name: "country", Type: str},
		{Name: "region", Type: str},
		{Name: "rating", Type: f32},
		{Name: "established_date", Type: date},
		{Name: "established_year", Type: i32},
		{Name: "is_verified", Type: boolT},
		{Name: "created_at", Type: tsUS},
		{Name: "updated_at", Type: tsUS},
	}, nil)
}

// OrdersSchema returns the Arrow schema for the orders table.
func OrdersSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "order_id", Type: i64},
		{Name: "customer_id", Type: i64},
		{Name: "order_date", Type: date},
		{Name: "ship_date", Type: date},
		{Name: "delivery_date", Type: date},
		{Name: "order_status", Type: str},
		{Name: "payment_method", Type: str},
		{Name: "total_amount", Type: dec(12, 2)},
		{Name: "tax_amount", Type: dec(10, 2)},
		{Name: "shipping_amount", Type: dec(8, 2)},
		{Name: "discount_amount", Type: dec(8, 2)},
		{Name: "country", Type: str},
		{Name: "region", Type: str},
		{Name: "created_at", Type: tsUS},
		{Name: "updated_at", Type: tsUS},
	}, nil)
}

// LineitemSchema returns the Arrow schema for the lineitem fact table.
func LineitemSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "lineitem_id", Type: i64},
		{Name: "order_id", Type: i64},
		{Name: "product_id", Type: i64},
		{Name: "quantity", Type: i32},
		{Name: "unit_price", Type: dec(10, 2)},
		{Name: "discount", Type: f32},
		{Name: "tax", Type: f32},
		{Name: "extended_price", Type: dec(12, 2)},
		{Name: "discount_amount", Type: dec(10, 2)},
		{Name: "tax_amount", Type: dec(10, 2)},
		{Name: "net_amount", Type: dec(12, 2)},
		{Name: "line_status", Type: str},
		{Name: "ship_date", Type: date},
		{Name: "comment", Type: str},
		{Name: "created_at", Type: tsUS},
		{Name: "updated_at", Type: tsUS},
	}, nil)
}

// InventorySchema returns the Arrow schema for the inventory table.
func InventorySchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "inventory_id", Type: i64},
		{Name: "product_id", Type: i64},
		{Name: "supplier_id", Type: i64},
		{Name: "warehouse_location", Type: str},
		{Name: "quantity_on_hand", Type: i32},
		{Name: "quantity_allocated", Type: i32},
		{Name: "reorder_point", Type: i32},
		{Name: "reorder_quantity", Type: i32},
		{Name: "unit_cost", Type: dec(10, 2)},
		{Name: "last_updated", Type: tsUS},
		{Name: "last_updated_date", Type: date},
		{Name: "created_at", Type: tsUS},
	}, nil)
}

// EventsSchema returns the Arrow schema for the events table.
// product_id and search_query are the only nullable columns in the
// dataset; everything else is always populated.
func EventsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "event_id", Type: i64},
		{Name: "customer_id", Type: i64},
		{Name: "event_type", Type: str},
		{Name: "event_timestamp", Type: tsUS},
		{Name: "event_date", Type: date},
		{Name: "page_url", Type: str},
		{Name: "user_agent", Type: str},
		{Name: "ip_address", Type: str},
		{Name: "country", Type: str},
		{Name: "device_type", Type: str},
		{Name: "session_id", Type: str},
		{Name: "product_id", Type: i64, Nullable: true},
		{Name: "search_query", Type: str, Nullable: true},
		{Name: "created_at", Type: tsUS},
	}, nil)
}
