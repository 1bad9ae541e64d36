package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// EvaluateAlerts checks today's totals against every threshold. previous
// holds the trailing days before today (the first six trend entries); it
// feeds the below-trend rule. All rules are evaluated; the result is
// empty, never nil, when nothing fires.
func EvaluateAlerts(today models.Totals, previous []models.DailyTotals, th models.Thresholds) []models.Alert {
	alerts := []models.Alert{}

	if today.Count == 0 {
		alerts = append(alerts, models.Alert{
			Code:     models.AlertNoSales,
			Severity: models.SeverityCritical,
			Message:  "No sales recorded today.",
		})
	}
	if th.LowSalesThreshold > 0 && today.Count < th.LowSalesThreshold {
		alerts = append(alerts, models.Alert{
			Code:     models.AlertLowCount,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Low sales count: %d (threshold %d).", today.Count, th.LowSalesThreshold),
		})
	}

	if th.MinDailyRevenue.IsPositive() && today.Revenue.LessThan(th.MinDailyRevenue) {
		alerts = append(alerts, models.Alert{
			Code:     models.AlertRevenueShortfall,
			Severity: models.SeverityWarning,
			Message: fmt.Sprintf("Revenue %s is %s below the daily minimum of %s.",
				models.FormatMoney(today.Revenue),
				models.FormatMoney(th.MinDailyRevenue.Sub(today.Revenue)),
				models.FormatMoney(th.MinDailyRevenue)),
		})
	}

	if th.TrendDropRatio.IsPositive() && len(previous) > 0 {
		sum := decimal.Zero
		for _, d := range previous {
			sum = sum.Add(d.Revenue)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(previous))))
		floor := avg.Mul(th.TrendDropRatio)
		if avg.IsPositive() && today.Revenue.LessThan(floor) {
			alerts = append(alerts, models.Alert{
				Code:     models.AlertBelowTrend,
				Severity: models.SeverityWarning,
				Message: fmt.Sprintf("Revenue %s is below %s%% of the %d-day average (%s).",
					models.FormatMoney(today.Revenue),
					th.TrendDropRatio.Mul(decimal.NewFromInt(100)).String(),
					len(previous),
					models.FormatMoney(avg)),
			})
		}
	}

	return alerts
}
