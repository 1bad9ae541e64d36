package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

var decimalOne = decimal.NewFromInt(1)

// LineInput is what a caller knows about a sale line. Nil pointers mean
// "derive it".
type LineInput struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Tax       *decimal.Decimal // nil: quantity × unit price × TaxRate
	TaxRate   decimal.Decimal
	Total     *decimal.Decimal // nil: computed; otherwise must match
}

// Line is a priced sale line.
type Line struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// PriceLine computes subtotal, tax and total exactly. Tax is derived from
// the gross subtotal, before discount. A caller-supplied total that differs
// from the computed one is rejected, as is a discount that would make the
// total negative.
func PriceLine(in LineInput) (Line, error) {
	if in.Quantity <= 0 {
		return Line{}, fmt.Errorf("quantity must be positive, got %d", in.Quantity)
	}
	if in.Quantity > models.MaxQuantity {
		return Line{}, fmt.Errorf("quantity must be at most %d, got %d", models.MaxQuantity, in.Quantity)
	}
	if in.UnitPrice.IsNegative() {
		return Line{}, fmt.Errorf("unit price must not be negative")
	}
	if in.Discount.IsNegative() {
		return Line{}, fmt.Errorf("discount must not be negative")
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimalOne) {
		return Line{}, fmt.Errorf("tax rate must be between 0 and 1")
	}

	subtotal := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))

	tax := subtotal.Mul(in.TaxRate)
	if in.Tax != nil {
		if in.Tax.IsNegative() {
			return Line{}, fmt.Errorf("tax must not be negative")
		}
		tax = *in.Tax
	}

	total := subtotal.Sub(in.Discount).Add(tax)
	if total.IsNegative() {
		return Line{}, fmt.Errorf("discount %s exceeds subtotal plus tax %s", in.Discount, subtotal.Add(tax))
	}
	if in.Total != nil && !in.Total.Equal(total) {
		return Line{}, fmt.Errorf("total %s does not match computed total %s", in.Total, total)
	}

	return Line{Subtotal: subtotal, Tax: tax, Total: total}, nil
}
