package validator_test

import (
	"errors"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/salesdesk/pkg/validator"
)

type sampleStruct struct {
	CustomerID string `json:"customer_id" validate:"required,uuid4"`
	SKU        string `json:"sku" validate:"required,min=1,max=10"`
	Email      string `json:"email" validate:"omitempty,email"`
	Currency   string `json:"currency" validate:"omitempty,iso4217"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
}

func valid() sampleStruct {
	return sampleStruct{
		CustomerID: "550e8400-e29b-41d4-a716-446655440000",
		SKU:        "CRM-001",
		Quantity:   1,
	}
}

func TestValidate_valid(t *testing.T) {
	s := valid()
	if err := pkgvalidator.Validate(&s); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidate_missingRequired(t *testing.T) {
	s := sampleStruct{}
	if err := pkgvalidator.Validate(&s); err == nil {
		t.Fatal("expected validation error for empty struct")
	}
}

func TestFormatValidationErrors_usesJSONNames(t *testing.T) {
	s := sampleStruct{Quantity: 1}
	m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&s))
	if m["customer_id"] != "This field is required" {
		t.Errorf("unexpected customer_id message: %q", m["customer_id"])
	}
	if m["sku"] != "This field is required" {
		t.Errorf("unexpected sku message: %q", m["sku"])
	}
}

func TestFormatValidationErrors_messages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *sampleStruct)
		field  string
		want   string
	}{
		{"uuid", func(s *sampleStruct) { s.CustomerID = "not-a-uuid" }, "customer_id", "Must be a valid UUID"},
		{"max", func(s *sampleStruct) { s.SKU = "12345678901" }, "sku", "Maximum length is 10"},
		{"email", func(s *sampleStruct) { s.Email = "nope" }, "email", "Must be a valid email address"},
		{"currency", func(s *sampleStruct) { s.Currency = "XYZ" }, "currency", "Must be an ISO 4217 currency code"},
		{"quantity", func(s *sampleStruct) { s.Quantity = 0 }, "quantity", "Must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&s))
			if m[tt.field] != tt.want {
				t.Errorf("%s message = %q, want %q", tt.field, m[tt.field], tt.want)
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(errors.New("disk full"))
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

func TestDescribe_sortedSingleLine(t *testing.T) {
	s := sampleStruct{}
	got := pkgvalidator.Describe(pkgvalidator.Validate(&s))
	if !strings.HasPrefix(got, "customer_id: ") {
		t.Errorf("expected customer_id first, got %q", got)
	}
	if !strings.Contains(got, "; sku: This field is required") {
		t.Errorf("expected sku entry, got %q", got)
	}
	if pkgvalidator.Describe(nil) != "" {
		t.Error("expected empty string for nil error")
	}
}
