package services

import "time"

// ProductInput is the request to create a product. Amounts are decimal
// strings; an empty TaxRate takes the configured default.
type ProductInput struct {
	SKU         string `json:"sku"      validate:"required,max=64"`
	Name        string `json:"name"     validate:"required,max=255"`
	Category    string `json:"category" validate:"max=255"`
	Price       string `json:"price"    validate:"required"`
	Cost        string `json:"cost"`
	TaxRate     string `json:"tax_rate"`
	Unit        string `json:"unit"     validate:"max=32"`
	Description string `json:"description"`
	Features    string `json:"features"`
	BestFor     string `json:"best_for"`
}

// ProductUpdate changes the non-nil fields of a product. The SKU is immutable.
type ProductUpdate struct {
	Name        *string `json:"name"     validate:"omitempty,max=255"`
	Category    *string `json:"category" validate:"omitempty,max=255"`
	Price       *string `json:"price"`
	Cost        *string `json:"cost"`
	TaxRate     *string `json:"tax_rate"`
	Unit        *string `json:"unit"     validate:"omitempty,max=32"`
	Description *string `json:"description"`
	Features    *string `json:"features"`
	BestFor     *string `json:"best_for"`
}

// CustomerInput is the request to create or upsert a customer.
type CustomerInput struct {
	Name          string     `json:"name"  validate:"required,max=255"`
	Email         string     `json:"email" validate:"omitempty,email,max=255"`
	Phone         string     `json:"phone" validate:"max=64"`
	Company       string     `json:"company"`
	Industry      string     `json:"industry"`
	Segment       string     `json:"segment"`
	Status        string     `json:"status"`
	LeadSource    string     `json:"lead_source"`
	AddressLine1  string     `json:"address_line1"`
	AddressLine2  string     `json:"address_line2"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Country       string     `json:"country"`
	PostalCode    string     `json:"postal_code"`
	Notes         string     `json:"notes"`
	LastContactAt *time.Time `json:"last_contact_at"`
}

// CustomerUpdate changes the non-nil fields of a customer.
type CustomerUpdate struct {
	Name          *string    `json:"name"  validate:"omitempty,max=255"`
	Email         *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string    `json:"phone"`
	Company       *string    `json:"company"`
	Industry      *string    `json:"industry"`
	Segment       *string    `json:"segment"`
	Status        *string    `json:"status"`
	LeadSource    *string    `json:"lead_source"`
	AddressLine1  *string    `json:"address_line1"`
	AddressLine2  *string    `json:"address_line2"`
	City          *string    `json:"city"`
	State         *string    `json:"state"`
	Country       *string    `json:"country"`
	PostalCode    *string    `json:"postal_code"`
	Notes         *string    `json:"notes"`
	LastContactAt *time.Time `json:"last_contact_at"`
}

// SaleInput is the request to record a purchase. Empty strings take the
// product's price, a derived tax, a computed total or the configured
// defaults. A non-empty Total must equal the computed one.
type SaleInput struct {
	InvoiceID         string   `json:"invoice_id"  validate:"max=64"`
	SKU               string   `json:"sku"         validate:"required,max=64"`
	CustomerID        string   `json:"customer_id" validate:"required,uuid"`
	Quantity          int64    `json:"quantity"    validate:"gt=0,lte=1000000"`
	UnitPrice         string   `json:"unit_price"`
	Discount          string   `json:"discount"`
	Tax               string   `json:"tax"`
	Total             string   `json:"total"`
	Currency          string   `json:"currency"    validate:"omitempty,iso4217"`
	PaymentStatus     string   `json:"payment_status"`
	PaymentTerms      string   `json:"payment_terms"`
	PaymentMethod     string   `json:"payment_method"`
	FulfillmentStatus string   `json:"fulfillment_status"`
	Channel           string   `json:"channel"`
	Source            string   `json:"source"`
	Region            string   `json:"region"`
	SalesRep          string   `json:"sales_rep"`
	Tags              []string `json:"tags"`
	Notes             string   `json:"notes"`
}
