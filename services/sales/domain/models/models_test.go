package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewSKU(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SKU
		wantErr bool
	}{
		{"upper-cases and trims", "  crm-001 ", "CRM-001", false},
		{"allows dot and underscore", "a.b_c", "A.B_C", false},
		{"empty", "   ", "", true},
		{"space inside", "CRM 001", "", true},
		{"slash", "CRM/1", "", true},
		{"max length", strings.Repeat("A", 64), SKU(strings.Repeat("A", 64)), false},
		{"too long", strings.Repeat("A", 65), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSKU(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSKU(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NewSKU(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAmountAndRate(t *testing.T) {
	if d, err := ParseAmount(""); err != nil || !d.IsZero() {
		t.Errorf("empty amount = %v, %v; want 0, nil", d, err)
	}
	if _, err := ParseAmount("-1"); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := ParseAmount("ten"); err == nil {
		t.Error("expected error for non-number")
	}
	if d, err := ParseRate("0.075"); err != nil || !d.Equal(decimal.RequireFromString("0.075")) {
		t.Errorf("rate = %v, %v", d, err)
	}
	if _, err := ParseRate("1.01"); err == nil {
		t.Error("expected error for rate above 1")
	}
}

func TestNormalizeCurrency(t *testing.T) {
	if c, err := NormalizeCurrency(" usd "); err != nil || c != "USD" {
		t.Errorf("got %q, %v", c, err)
	}
	for _, bad := range []string{"US", "USDX", "U$D", ""} {
		if _, err := NormalizeCurrency(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestPurchase_SubtotalAndExpectedTotal(t *testing.T) {
	p := Purchase{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("0.10"),
		Discount:  decimal.RequireFromString("0.05"),
		Tax:       decimal.RequireFromString("0.02"),
	}
	if !p.Subtotal().Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("subtotal = %s, want 0.30", p.Subtotal())
	}
	if !p.ExpectedTotal().Equal(decimal.RequireFromString("0.27")) {
		t.Errorf("expected total = %s, want 0.27", p.ExpectedTotal())
	}
}

func TestNewInvoiceID_Format(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	id := NewInvoiceID(now)
	if !strings.HasPrefix(id, "INV-20260314-") {
		t.Fatalf("unexpected prefix: %q", id)
	}
	if len(id) != len("INV-20260314-")+8 {
		t.Errorf("unexpected length: %q", id)
	}
	if NewInvoiceID(now) == id {
		t.Error("expected distinct invoice ids")
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" vip, renewal;; q3 ,")
	want := []string{"vip", "renewal", "q3"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ParseTags = %v, want %v", got, want)
	}
}

func TestDayRange_FollowsZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST starts 2026-03-08 in New York: the day is 23 hours long.
	r := DayRange(time.Date(2026, 3, 8, 12, 0, 0, 0, loc), loc)
	if got := r.End.Sub(r.Start); got != 23*time.Hour {
		t.Errorf("day length = %v, want 23h", got)
	}
	if !r.Contains(r.Start) || r.Contains(r.End) {
		t.Error("range must be half-open")
	}
}

func TestDateRange_IsEmpty(t *testing.T) {
	now := time.Now()
	if !(DateRange{Start: now, End: now}).IsEmpty() {
		t.Error("zero-length range must be empty")
	}
	if !(DateRange{Start: now, End: now.Add(-time.Hour)}).IsEmpty() {
		t.Error("inverted range must be empty")
	}
	if (DateRange{Start: now, End: now.Add(time.Hour)}).IsEmpty() {
		t.Error("forward range must not be empty")
	}
}

func TestCustomer_MergeKeepsExistingWhenEmpty(t *testing.T) {
	c := NewCustomer("Acme", time.Now())
	c.Email = "ops@acme.test"
	c.City = "Lisbon"
	c.Merge(&Customer{Phone: "555-0100", City: ""})
	if c.Email != "ops@acme.test" || c.City != "Lisbon" || c.Phone != "555-0100" {
		t.Errorf("unexpected merge result: %+v", c)
	}
}

func TestParseProductStatus(t *testing.T) {
	if s, err := ParseProductStatus("retired"); err != nil || s != ProductRetired {
		t.Errorf("got %q, %v", s, err)
	}
	if _, err := ParseProductStatus("deleted"); err == nil {
		t.Error("expected error for unknown status")
	}
}
