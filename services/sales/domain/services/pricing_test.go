package services

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name      string
		in        LineInput
		wantTax   string
		wantTotal string
		wantErr   bool
	}{
		{
			name:      "derives tax before discount",
			in:        LineInput{Quantity: 2, UnitPrice: d("10"), Discount: d("5"), TaxRate: d("0.1")},
			wantTax:   "2",
			wantTotal: "17",
		},
		{
			name:      "explicit tax wins over rate",
			in:        LineInput{Quantity: 1, UnitPrice: d("99.99"), Tax: dp("0"), TaxRate: d("0.2")},
			wantTax:   "0",
			wantTotal: "99.99",
		},
		{
			name:      "matching caller total accepted",
			in:        LineInput{Quantity: 3, UnitPrice: d("0.1"), Total: dp("0.3")},
			wantTax:   "0",
			wantTotal: "0.3",
		},
		{name: "mismatching caller total", in: LineInput{Quantity: 3, UnitPrice: d("0.1"), Total: dp("0.31")}, wantErr: true},
		{name: "zero quantity", in: LineInput{Quantity: 0, UnitPrice: d("1")}, wantErr: true},
		{name: "quantity above cap", in: LineInput{Quantity: math.MaxInt64/2 + 1, UnitPrice: d("1")}, wantErr: true},
		{name: "negative price", in: LineInput{Quantity: 1, UnitPrice: d("-1")}, wantErr: true},
		{name: "negative discount", in: LineInput{Quantity: 1, UnitPrice: d("1"), Discount: d("-1")}, wantErr: true},
		{name: "negative tax", in: LineInput{Quantity: 1, UnitPrice: d("1"), Tax: dp("-0.5")}, wantErr: true},
		{name: "discount beyond total", in: LineInput{Quantity: 1, UnitPrice: d("10"), Discount: d("11")}, wantErr: true},
		{name: "rate above one", in: LineInput{Quantity: 1, UnitPrice: d("10"), TaxRate: d("1.5")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceLine(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PriceLine error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Tax.Equal(d(tt.wantTax)) {
				t.Errorf("tax = %s, want %s", got.Tax, tt.wantTax)
			}
			if !got.Total.Equal(d(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestPriceLine_NoDriftAcrossManyLines(t *testing.T) {
	sum := decimal.Zero
	for i := 0; i < 1000; i++ {
		line, err := PriceLine(LineInput{Quantity: 1, UnitPrice: d("0.1"), TaxRate: d("0.07")})
		if err != nil {
			t.Fatalf("PriceLine: %v", err)
		}
		sum = sum.Add(line.Total)
	}
	if !sum.Equal(d("107")) {
		t.Errorf("sum of 1000 lines = %s, want exactly 107", sum)
	}
}
