package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ParseAmount parses a non-negative decimal amount. An empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a decimal number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative, got %s", d)
	}
	return d, nil
}

// ParseRate parses a fraction in [0, 1]. An empty string is zero.
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.GreaterThan(one) {
		return decimal.Zero, fmt.Errorf("rate must be between 0 and 1, got %s", d)
	}
	return d, nil
}

// FormatMoney renders an amount at two decimal places. Rounding happens here
// and nowhere else.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NormalizeCurrency upper-cases and validates a three-letter currency code.
func NormalizeCurrency(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	if len(c) != 3 {
		return "", fmt.Errorf("currency must be a 3-letter code, got %q", s)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("currency must be a 3-letter code, got %q", s)
		}
	}
	return c, nil
}
