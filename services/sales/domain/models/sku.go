package models

import (
	"fmt"
	"strings"
)

// SKU is a value object identifying a product. It is upper-cased and
// restricted to [A-Z0-9._-], 1 to 64 characters.
type SKU string

const maxSKULength = 64

// NewSKU normalizes s and returns a valid SKU or an error.
func NewSKU(s string) (SKU, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return "", fmt.Errorf("sku must not be empty")
	}
	if len(v) > maxSKULength {
		return "", fmt.Errorf("sku must not exceed %d characters", maxSKULength)
	}
	for _, r := range v {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
		default:
			return "", fmt.Errorf("sku contains invalid character %q", r)
		}
	}
	return SKU(v), nil
}

// String returns the underlying string value.
func (s SKU) String() string {
	return string(s)
}
