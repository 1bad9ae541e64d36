package tabular

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// ReadProducts parses a product catalog. The header must carry sku and name
// (full form) or name and price (legacy name,price,features,best_for form).
// Legacy rows get a SKU derived from the name. Rows without a name are
// skipped. defaultTaxRate applies where tax_rate is blank.
func ReadProducts(r io.Reader, defaultTaxRate decimal.Decimal, now time.Time) ([]*models.Product, error) {
	var out []*models.Product
	seen := map[models.SKU]int{}

	err := readAll(r, checkProductHeader, func(h header, rec []string, _ int) error {
		name := h.get(rec, "name", "product_name")
		if name == "" {
			return nil
		}

		rawSKU := h.get(rec, "sku")
		if rawSKU == "" {
			rawSKU = DeriveSKU(name)
		}
		sku, err := models.NewSKU(rawSKU)
		if err != nil {
			return fmt.Errorf("sku: %w", err)
		}
		if n := seen[sku]; n > 0 {
			seen[sku] = n + 1
			if sku, err = models.NewSKU(fmt.Sprintf("%s-%d", truncate(sku.String(), maxSKUBase), n+1)); err != nil {
				return fmt.Errorf("sku: %w", err)
			}
		}
		seen[sku]++

		price, err := models.ParseAmount(h.get(rec, "price"))
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		p := models.NewProduct(sku, name, price, now)
		if p.Cost, err = models.ParseAmount(h.get(rec, "cost")); err != nil {
			return fmt.Errorf("cost: %w", err)
		}
		p.TaxRate = defaultTaxRate
		if raw := h.get(rec, "tax_rate"); raw != "" {
			if p.TaxRate, err = models.ParseRate(raw); err != nil {
				return fmt.Errorf("tax_rate: %w", err)
			}
		}
		if unit := h.get(rec, "unit"); unit != "" {
			p.Unit = unit
		}
		if raw := h.get(rec, "status"); raw != "" {
			if p.Status, err = models.ParseProductStatus(strings.ToLower(raw)); err != nil {
				return err
			}
		}
		p.Category = h.get(rec, "category")
		p.Description = h.get(rec, "description")
		p.Features = h.get(rec, "features")
		p.BestFor = h.get(rec, "best_for")
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkProductHeader(h header) error {
	if h.has("sku", "name") || h.has("name", "price") || h.has("product_name", "price") {
		return nil
	}
	return fmt.Errorf("header must contain sku,name or name,price")
}

const maxSKUBase = 56

// DeriveSKU builds a SKU candidate from a product name: upper-cased, with
// runs of other characters collapsed to a single dash.
func DeriveSKU(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimRight(truncate(b.String(), maxSKUBase), "-")
	if s == "" {
		return "ITEM"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// ReadCustomers parses a customers file. Only name is required; rows without
// one are skipped.
func ReadCustomers(r io.Reader, now time.Time) ([]*models.Customer, error) {
	var out []*models.Customer
	err := readAll(r, requireColumns("name"), func(h header, rec []string, _ int) error {
		name := h.get(rec, "name")
		if name == "" {
			return nil
		}
		c := models.NewCustomer(name, now)
		c.Email = strings.ToLower(h.get(rec, "email"))
		c.Phone = h.get(rec, "phone")
		c.Company = h.get(rec, "company")
		c.Industry = h.get(rec, "industry")
		c.Segment = h.get(rec, "segment")
		c.Status = h.get(rec, "status")
		c.LeadSource = h.get(rec, "lead_source")
		c.AddressLine1 = h.get(rec, "address_line1")
		c.AddressLine2 = h.get(rec, "address_line2")
		c.City = h.get(rec, "city")
		c.State = h.get(rec, "state")
		c.Country = h.get(rec, "country")
		c.PostalCode = h.get(rec, "postal_code")
		c.Notes = h.get(rec, "notes")
		if raw := h.get(rec, "last_contact_at"); raw != "" {
			t, err := parseContactTime(raw)
			if err != nil {
				return fmt.Errorf("last_contact_at: %w", err)
			}
			c.LastContactAt = &t
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseContactTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}
