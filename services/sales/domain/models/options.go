package models

import "github.com/shopspring/decimal"

// Defaults fill unset purchase fields. Built once at startup and passed by value.
type Defaults struct {
	Currency          string
	TaxRate           decimal.Decimal
	PaymentStatus     string
	PaymentTerms      string
	FulfillmentStatus string
	Channel           string
	Source            string
	Region            string
	SalesRep          string
}

// Thresholds drive report alerts. A zero MinDailyRevenue or TrendDropRatio
// disables the corresponding alert.
type Thresholds struct {
	DailySalesTarget  int
	LowSalesThreshold int
	MinDailyRevenue   decimal.Decimal
	TrendDropRatio    decimal.Decimal
	TopProducts       int
}
