package domain

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Every error returned by the sales services wraps
// exactly one of these; use errors.Is() to classify.
var (
	// ErrValidation indicates input that violates a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity indicates a uniqueness or referential constraint violation.
	ErrIntegrity = errors.New("integrity violation")

	// ErrStoreUnavailable indicates the database could not be opened or reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrProvider indicates the summary provider failed. Reports degrade
	// instead of surfacing it.
	ErrProvider = errors.New("summary provider failed")
)

// Specific sentinels wrap a taxonomy sentinel so errors.Is matches both.
var (
	ErrProductNotFound  = fmt.Errorf("%w: product not found", ErrValidation)
	ErrCustomerNotFound = fmt.Errorf("%w: customer not found", ErrValidation)
	ErrPurchaseNotFound = fmt.Errorf("%w: purchase not found", ErrValidation)
	ErrProductRetired   = fmt.Errorf("%w: product is retired", ErrValidation)

	ErrDuplicateSKU      = fmt.Errorf("%w: product sku already exists", ErrIntegrity)
	ErrDuplicateInvoice  = fmt.Errorf("%w: invoice id already exists", ErrIntegrity)
	ErrDuplicateEmail    = fmt.Errorf("%w: customer email already exists", ErrIntegrity)
	ErrReferenceMismatch = fmt.Errorf("%w: referenced row does not exist", ErrIntegrity)
)

// Invalid wraps a rule violation as a validation error.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
