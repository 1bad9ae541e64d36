package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is the half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsEmpty reports whether the range contains no instant. Inverted ranges are empty.
func (r DateRange) IsEmpty() bool {
	return !r.Start.Before(r.End)
}

// Contains reports whether t falls in [Start, End).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns the calendar day containing t in loc. Day lengths follow
// the zone, so DST transitions give 23 or 25 hour days.
func DayRange(t time.Time, loc *time.Location) DateRange {
	start := StartOfDay(t, loc)
	return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// Totals are sums over a set of purchases. Revenue is the gross subtotal
// (Σ quantity × unit price); Total is Σ total.
type Totals struct {
	Revenue   decimal.Decimal
	Discounts decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Quantity  int64
	Count     int
}

// ProductRevenue is one entry of a top-products ranking.
type ProductRevenue struct {
	SKU      SKU
	Name     string
	Quantity int64
	Revenue  decimal.Decimal
}

// DailyTotals are the totals of one calendar day.
type DailyTotals struct {
	Day time.Time
	Totals
}

// AlertSeverity orders alerts for display.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert codes.
const (
	AlertNoSales          = "no_sales"
	AlertLowCount         = "low_count"
	AlertRevenueShortfall = "revenue_shortfall"
	AlertBelowTrend       = "below_trend"
)

// Alert is a threshold breach with a human-readable reason.
type Alert struct {
	Code     string
	Severity AlertSeverity
	Message  string
}

// Report is the daily report. Trend holds seven days ending on Day, oldest first.
type Report struct {
	Day             time.Time
	Currency        string
	Today           Totals
	Trend           []DailyTotals
	TopProducts     []ProductRevenue
	Alerts          []Alert
	Summary         string
	SummaryDegraded bool
	GeneratedAt     time.Time
}
