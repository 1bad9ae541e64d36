// Package errexit maps domain sentinel errors to process exit codes.
// Add a case to Code for each new taxonomy sentinel.
package errexit

import (
	"errors"
	"fmt"
	"io"

	"github.com/ghuser/salesdesk/pkg/database"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
)

// Exit codes.
const (
	OK               = 0
	Failure          = 1
	Validation       = 2
	Integrity        = 3
	StoreUnavailable = 4
)

// Code returns the exit code for err. Uses errors.Is() so wrapped sentinels
// are matched. Not-found errors report as integrity failures even though they
// wrap ErrValidation.
func Code(err error) int {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, salesdomain.ErrProductNotFound),
		errors.Is(err, salesdomain.ErrCustomerNotFound),
		errors.Is(err, salesdomain.ErrPurchaseNotFound):
		return Integrity
	case errors.Is(err, salesdomain.ErrStoreUnavailable), errors.Is(err, database.ErrUnavailable):
		return StoreUnavailable
	case errors.Is(err, salesdomain.ErrIntegrity):
		return Integrity
	case errors.Is(err, salesdomain.ErrValidation):
		return Validation
	default:
		return Failure
	}
}

// Write prints err to w as "error: <message>" and returns its exit code.
func Write(w io.Writer, err error) int {
	if err == nil {
		return OK
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return Code(err)
}
