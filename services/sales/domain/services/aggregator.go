package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// Aggregate sums the purchases whose CreatedAt falls in r. Purchases outside
// r are ignored, so callers may pass a superset. An empty or inverted range
// yields zero Totals.
func Aggregate(purchases []*models.PurchaseView, r models.DateRange) models.Totals {
	t := zeroTotals()
	if r.IsEmpty() {
		return t
	}
	for _, p := range purchases {
		if !r.Contains(p.CreatedAt) {
			continue
		}
		t.Revenue = t.Revenue.Add(p.Subtotal())
		t.Discounts = t.Discounts.Add(p.Discount)
		t.Tax = t.Tax.Add(p.Tax)
		t.Total = t.Total.Add(p.Total)
		t.Quantity += p.Quantity
		t.Count++
	}
	return t
}

// TopProducts ranks products by revenue within r: at most n entries, revenue
// descending, ties broken by SKU ascending. n <= 0 yields an empty slice.
func TopProducts(purchases []*models.PurchaseView, r models.DateRange, n int) []models.ProductRevenue {
	if n <= 0 || r.IsEmpty() {
		return []models.ProductRevenue{}
	}

	bySKU := make(map[models.SKU]*models.ProductRevenue)
	for _, p := range purchases {
		if !r.Contains(p.CreatedAt) {
			continue
		}
		pr, ok := bySKU[p.ProductSKU]
		if !ok {
			pr = &models.ProductRevenue{SKU: p.ProductSKU, Name: p.ProductName, Revenue: decimal.Zero}
			bySKU[p.ProductSKU] = pr
		}
		pr.Quantity += p.Quantity
		pr.Revenue = pr.Revenue.Add(p.Subtotal())
	}

	ranked := make([]models.ProductRevenue, 0, len(bySKU))
	for _, pr := range bySKU {
		ranked = append(ranked, *pr)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].SKU < ranked[j].SKU
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DailyTrend returns one DailyTotals per calendar day in loc for the days
// days ending on (and including) the day of end, oldest first. Days without
// sales are zero-filled.
func DailyTrend(purchases []*models.PurchaseView, end time.Time, days int, loc *time.Location) []models.DailyTotals {
	if days <= 0 {
		return []models.DailyTotals{}
	}
	first := models.StartOfDay(end, loc).AddDate(0, 0, -(days - 1))

	trend := make([]models.DailyTotals, 0, days)
	for i := 0; i < days; i++ {
		start := first.AddDate(0, 0, i)
		r := models.DateRange{Start: start, End: start.AddDate(0, 0, 1)}
		trend = append(trend, models.DailyTotals{Day: start, Totals: Aggregate(purchases, r)})
	}
	return trend
}

func zeroTotals() models.Totals {
	return models.Totals{
		Revenue:   decimal.Zero,
		Discounts: decimal.Zero,
		Tax:       decimal.Zero,
		Total:     decimal.Zero,
	}
}
