package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "CRM Pro", false},
		{"empty", "", true},
		{"only spaces", "   ", true},
		{"leading space", " CRM", true},
		{"control char", "CRM\x00Pro", true},
		{"too long", strings.Repeat("a", 256), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateName(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	valid := func() *models.Product {
		p := models.NewProduct("CRM-001", "CRM Pro", d("99"), time.Now())
		p.TaxRate = d("0.1")
		return p
	}
	if err := ValidateProduct(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *models.Product)
	}{
		{"negative price", func(p *models.Product) { p.Price = d("-1") }},
		{"negative cost", func(p *models.Product) { p.Cost = d("-1") }},
		{"tax rate above one", func(p *models.Product) { p.TaxRate = d("1.1") }},
		{"bad sku", func(p *models.Product) { p.SKU = "bad sku" }},
		{"empty name", func(p *models.Product) { p.Name = "" }},
		{"unknown status", func(p *models.Product) { p.Status = "deleted" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			if err := ValidateProduct(p); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateCustomer(t *testing.T) {
	c := models.NewCustomer("Ada", time.Now())
	c.Email = "ada@example.com"
	if err := ValidateCustomer(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Email = "not an email"
	if err := ValidateCustomer(c); err == nil {
		t.Error("expected error for bad email")
	}
	c.Email = ""
	c.ID = uuid.Nil
	if err := ValidateCustomer(c); err == nil {
		t.Error("expected error for nil id")
	}
}

func TestValidatePurchase(t *testing.T) {
	valid := func() *models.Purchase {
		p := &models.Purchase{
			InvoiceID:  "INV-1",
			ProductSKU: "P1",
			CustomerID: uuid.New(),
			Quantity:   2,
			UnitPrice:  d("10"),
			Discount:   d("1"),
			Tax:        d("2"),
			Currency:   "USD",
		}
		p.Total = p.ExpectedTotal()
		return p
	}
	if err := ValidatePurchase(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *models.Purchase)
	}{
		{"zero quantity", func(p *models.Purchase) { p.Quantity = 0 }},
		{"quantity above cap", func(p *models.Purchase) { p.Quantity = models.MaxQuantity + 1; p.Total = p.ExpectedTotal() }},
		{"total drift", func(p *models.Purchase) { p.Total = p.Total.Add(decimal.New(1, -9)) }},
		{"bad currency", func(p *models.Purchase) { p.Currency = "US" }},
		{"missing customer", func(p *models.Purchase) { p.CustomerID = uuid.Nil }},
		{"missing invoice", func(p *models.Purchase) { p.InvoiceID = " " }},
		{"negative tax", func(p *models.Purchase) { p.Tax = d("-1"); p.Total = p.ExpectedTotal() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			if err := ValidatePurchase(p); err == nil {
				t.Error("expected error")
			}
		})
	}
}
