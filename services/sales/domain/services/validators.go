// Package services contains stateless domain services for the sales bounded
// context. They operate purely on domain types and have zero external
// dependencies beyond the domain layer and decimal arithmetic.
package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

const maxNameLength = 255

// ValidateName enforces the rules shared by product and customer names:
//   - 1 to 255 characters after trimming
//   - no leading or trailing whitespace
//   - no control characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name must not exceed %d characters", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("name must not contain control characters")
		}
	}
	return nil
}

// ValidateProduct checks a fully-built product before it is persisted.
func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if _, err := models.NewSKU(p.SKU.String()); err != nil {
		return err
	}
	if err := ValidateName(p.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if p.Cost.IsNegative() {
		return fmt.Errorf("cost must not be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimalOne) {
		return fmt.Errorf("tax rate must be between 0 and 1")
	}
	if _, err := models.ParseProductStatus(string(p.Status)); err != nil {
		return err
	}
	return nil
}

// ValidateCustomer checks a customer before it is persisted.
func ValidateCustomer(c *models.Customer) error {
	if c == nil {
		return fmt.Errorf("customer cannot be nil")
	}
	if c.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}
	if err := ValidateName(c.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil || strings.ContainsAny(c.Email, " <>") {
			return fmt.Errorf("email %q is not a valid address", c.Email)
		}
	}
	return nil
}

// ValidatePurchase checks the cross-field invariants of a purchase:
// positive quantity, non-negative amounts, a currency code, set references
// and total == quantity × unit price − discount + tax exactly.
func ValidatePurchase(p *models.Purchase) error {
	if p == nil {
		return fmt.Errorf("purchase cannot be nil")
	}
	if strings.TrimSpace(p.InvoiceID) == "" {
		return fmt.Errorf("invoice id must be set")
	}
	if p.ProductSKU == "" {
		return fmt.Errorf("product sku must be set")
	}
	if p.CustomerID == uuid.Nil {
		return fmt.Errorf("customer id must be set")
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", p.Quantity)
	}
	if p.Quantity > models.MaxQuantity {
		return fmt.Errorf("quantity must be at most %d, got %d", models.MaxQuantity, p.Quantity)
	}
	if p.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price must not be negative")
	}
	if p.Discount.IsNegative() {
		return fmt.Errorf("discount must not be negative")
	}
	if p.Tax.IsNegative() {
		return fmt.Errorf("tax must not be negative")
	}
	if _, err := models.NormalizeCurrency(p.Currency); err != nil {
		return err
	}
	if p.Total.IsNegative() {
		return fmt.Errorf("discount %s exceeds subtotal plus tax", p.Discount)
	}
	if want := p.ExpectedTotal(); !p.Total.Equal(want) {
		return fmt.Errorf("total %s does not equal quantity × unit price − discount + tax (%s)", p.Total, want)
	}
	return nil
}
