package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// SummarySystemPrompt instructs the model how to summarize a report.
const SummarySystemPrompt = "You are a sales analytics assistant. Provide a short summary with trends and 1-2 recommendations."

// SummaryUserPrompt renders the facts of a report for a summary request.
func SummaryUserPrompt(r *models.Report, company string, dailyTarget int) string {
	var b strings.Builder
	if company != "" {
		fmt.Fprintf(&b, "Company: %s\n", company)
	}
	fmt.Fprintf(&b, "Date: %s\n", r.Day.Format("2006-01-02"))
	fmt.Fprintf(&b, "Sales count: %d\n", r.Today.Count)
	fmt.Fprintf(&b, "Revenue: %s %s\n", models.FormatMoney(r.Today.Revenue), r.Currency)
	fmt.Fprintf(&b, "Average deal: %s\n", models.FormatMoney(AverageDeal(r.Today)))
	fmt.Fprintf(&b, "Target: %d\n", dailyTarget)

	names := make([]string, 0, len(r.TopProducts))
	for _, p := range r.TopProducts {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, models.FormatMoney(p.Revenue)))
	}
	fmt.Fprintf(&b, "Top products: %s\n", strings.Join(names, ", "))

	b.WriteString("7-day revenue trend:")
	for _, d := range r.Trend {
		fmt.Fprintf(&b, " %s=%s", d.Day.Format("01-02"), models.FormatMoney(d.Revenue))
	}
	b.WriteString("\n")

	for _, a := range r.Alerts {
		fmt.Fprintf(&b, "Alert: %s\n", a.Message)
	}
	return b.String()
}

// AverageDeal is Total / Count, or zero without sales.
func AverageDeal(t models.Totals) decimal.Decimal {
	if t.Count == 0 {
		return decimal.Zero
	}
	return t.Total.DivRound(decimal.NewFromInt(int64(t.Count)), 8)
}
