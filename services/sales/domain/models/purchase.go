package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps the units on one purchase so quantity sums over any
// realistic history fit in an int64.
const MaxQuantity = 1_000_000

// Purchase is one recorded sale. Everything except PaymentStatus and
// FulfillmentStatus is immutable after creation. Rows are never deleted;
// InRecent is owned by the retention policy.
type Purchase struct {
	ID                int64
	InvoiceID         string
	ProductSKU        SKU
	CustomerID        uuid.UUID
	Quantity          int64
	UnitPrice         decimal.Decimal
	Discount          decimal.Decimal
	Tax               decimal.Decimal
	Total             decimal.Decimal
	Currency          string
	PaymentStatus     string
	PaymentTerms      string
	PaymentMethod     string
	FulfillmentStatus string
	Channel           string
	Source            string
	Region            string
	SalesRep          string
	Tags              []string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	InRecent          bool
}

// Subtotal is quantity × unit price.
func (p *Purchase) Subtotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// ExpectedTotal is subtotal − discount + tax.
func (p *Purchase) ExpectedTotal() decimal.Decimal {
	return p.Subtotal().Sub(p.Discount).Add(p.Tax)
}

// PurchaseView is a Purchase joined with the display names of its product
// and customer.
type PurchaseView struct {
	Purchase
	ProductName   string
	CustomerName  string
	CustomerEmail string
}

// PurchaseFilter narrows a purchase search. Zero values match everything.
type PurchaseFilter struct {
	Query string // substring of invoice id, sku, product or customer name, tags, notes
	Since time.Time
	Limit int
}

// NewInvoiceID returns an identifier of the form INV-YYYYMMDD-XXXXXXXX.
func NewInvoiceID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "INV-" + now.UTC().Format("20060102") + "-" + suffix
}

// ParseTags splits a comma or semicolon separated list, trimming blanks.
func ParseTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}
