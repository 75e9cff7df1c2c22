package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the products table. Query conditions only ever reference these.
const (
	TableName = "products"
	// ResourceName names the entity in client-facing messages.
	ResourceName = "Product"
	// PriceScale is the number of decimal places kept by the price column.
	PriceScale = 2

	ColumnID          = "id"
	ColumnName        = "name"
	ColumnDescription = "description"
	ColumnBrand       = "brand"
	ColumnPrice       = "price"
	ColumnCategory    = "category"
	ColumnReleaseDate = "release_date"
	ColumnAvailable   = "available"
	ColumnQuantity    = "quantity"
)

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:100;not null"`
	Description string          `gorm:"type:text"`
	Brand       string          `gorm:"size:100;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_products_price,price >= 0"`
	Category    string          `gorm:"size:100;not null;index"`
	ReleaseDate time.Time       `gorm:"not null"` // Stamped once on creation
	Available   bool            `gorm:"not null"`
	Quantity    int             `gorm:"not null;check:chk_products_quantity,quantity >= 0"`
}

// TableName pins the table name regardless of GORM naming strategy.
func (Product) TableName() string {
	return TableName
}

// Field returns the string value of a text column, used by in-memory matching.
func (p Product) Field(column string) string {
	switch column {
	case ColumnName:
		return p.Name
	case ColumnDescription:
		return p.Description
	case ColumnBrand:
		return p.Brand
	case ColumnCategory:
		return p.Category
	default:
		return ""
	}
}
