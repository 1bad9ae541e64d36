package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSpecificSentinels_WrapTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		taxonomy error
	}{
		{"product not found", ErrProductNotFound, ErrValidation},
		{"customer not found", ErrCustomerNotFound, ErrValidation},
		{"purchase not found", ErrPurchaseNotFound, ErrValidation},
		{"product retired", ErrProductRetired, ErrValidation},
		{"duplicate sku", ErrDuplicateSKU, ErrIntegrity},
		{"duplicate invoice", ErrDuplicateInvoice, ErrIntegrity},
		{"duplicate email", ErrDuplicateEmail, ErrIntegrity},
		{"bad reference", ErrReferenceMismatch, ErrIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("record sale: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is must match the specific sentinel")
			}
			if !errors.Is(wrapped, tt.taxonomy) {
				t.Errorf("errors.Is must match the taxonomy sentinel %v", tt.taxonomy)
			}
		})
	}
}

func TestSentinels_DoNotCrossMatch(t *testing.T) {
	if errors.Is(ErrDuplicateSKU, ErrValidation) {
		t.Error("integrity error must not match ErrValidation")
	}
	if errors.Is(ErrProductNotFound, ErrIntegrity) {
		t.Error("validation error must not match ErrIntegrity")
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("quantity must be positive, got %d", 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatal("Invalid must wrap ErrValidation")
	}
	if err.Error() != "validation failed: quantity must be positive, got 0" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
