package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the lifecycle state of a product. Retired products stay
// in the catalog for history but cannot be sold.
type ProductStatus string

const (
	ProductActive  ProductStatus = "active"
	ProductRetired ProductStatus = "retired"
)

// ParseProductStatus accepts the stored names.
func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case ProductActive, ProductRetired:
		return ProductStatus(s), nil
	default:
		return "", fmt.Errorf("unknown product status %q", s)
	}
}

// Product is a catalog entry identified by SKU. Products are never deleted.
type Product struct {
	ID          int64
	SKU         SKU
	Name        string
	Category    string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	TaxRate     decimal.Decimal
	Unit        string
	Description string
	Features    string
	BestFor     string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct constructs an active Product stamped with now.
func NewProduct(sku SKU, name string, price decimal.Decimal, now time.Time) *Product {
	now = now.UTC()
	return &Product{
		SKU:       sku,
		Name:      name,
		Price:     price,
		Cost:      decimal.Zero,
		TaxRate:   decimal.Zero,
		Unit:      "unit",
		Status:    ProductActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the product can be sold.
func (p *Product) IsActive() bool {
	return p.Status == ProductActive
}

// ProductFilter narrows a catalog search. Zero values match everything.
type ProductFilter struct {
	Query    string // substring of name, sku or category
	Category string
	Status   ProductStatus
	Limit    int
}
