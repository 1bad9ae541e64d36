package db

import (
	"database/sql"
)

type SalesProduct struct {
	ID          int64
	Sku         string
	Name        string
	Category    string
	Price       string
	Cost        string
	TaxRate     string
	Unit        string
	Description string
	Features    string
	BestFor     string
	Status      string
	CreatedAt   int64
	UpdatedAt   int64
}

type SalesCustomer struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Company       string
	Industry      string
	Segment       string
	Status        string
	LeadSource    string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	Country       string
	PostalCode    string
	Notes         string
	LastContactAt sql.NullInt64
	CreatedAt     int64
	UpdatedAt     int64
}

type SalesPurchase struct {
	ID                int64
	InvoiceID         string
	ProductSku        string
	CustomerID        string
	Quantity          int64
	UnitPrice         string
	Discount          string
	Tax               string
	Total             string
	Currency          string
	PaymentStatus     string
	PaymentTerms      string
	PaymentMethod     string
	FulfillmentStatus string
	Channel           string
	Source            string
	Region            string
	SalesRep          string
	Tags              string
	Notes             string
	CreatedAt         int64
	UpdatedAt         int64
	InRecent          bool
}

// PurchaseRow is a purchase joined with product and customer display fields.
type PurchaseRow struct {
	SalesPurchase
	ProductName   string
	CustomerName  string
	CustomerEmail string
}
