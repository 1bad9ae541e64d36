package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

var (
	accent   = lipgloss.Color("#8BC34A")
	warning  = lipgloss.Color("#FFC107")
	critical = lipgloss.Color("#e53935")
	muted    = lipgloss.Color("#6b7280")

	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle    = lipgloss.NewStyle().Foreground(muted)
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(warning)
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(critical)
	okStyle       = lipgloss.NewStyle().Foreground(accent)
)

const timeLayout = "2006-01-02 15:04"

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label+":"), value)
}

// table writes tab-aligned rows under a header line.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func money(d decimal.Decimal, currency string) string {
	return models.FormatMoney(d) + " " + currency
}

func localTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func renderProducts(w io.Writer, products []*models.Product) error {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.SKU.String(), p.Name, p.Category,
			models.FormatMoney(p.Price), p.TaxRate.String(), p.Unit, string(p.Status),
		})
	}
	return table(w, []string{"SKU", "NAME", "CATEGORY", "PRICE", "TAX RATE", "UNIT", "STATUS"}, rows)
}

func renderProduct(w io.Writer, p *models.Product) {
	heading(w, "Product "+p.SKU.String())
	field(w, "Name", p.Name)
	field(w, "Category", p.Category)
	field(w, "Price", models.FormatMoney(p.Price))
	field(w, "Cost", models.FormatMoney(p.Cost))
	field(w, "Tax rate", p.TaxRate.String())
	field(w, "Unit", p.Unit)
	field(w, "Status", p.Status)
}

func renderCustomers(w io.Writer, customers []*models.Customer) error {
	if len(customers) == 0 {
		fmt.Fprintln(w, "No customers found.")
		return nil
	}
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Email, c.Company, c.Segment, c.Status})
	}
	return table(w, []string{"ID", "NAME", "EMAIL", "COMPANY", "SEGMENT", "STATUS"}, rows)
}

func renderCustomer(w io.Writer, c *models.Customer, loc *time.Location) {
	heading(w, "Customer "+c.Name)
	field(w, "ID", c.ID)
	field(w, "Email", c.Email)
	field(w, "Phone", c.Phone)
	field(w, "Company", c.Company)
	field(w, "Industry", c.Industry)
	field(w, "Segment", c.Segment)
	field(w, "Status", c.Status)
	field(w, "Lead source", c.LeadSource)

	addr := strings.Join(nonEmpty(c.AddressLine1, c.AddressLine2, c.City, c.State, c.PostalCode, c.Country), ", ")
	field(w, "Address", addr)
	if c.LastContactAt != nil {
		field(w, "Last contact", localTime(*c.LastContactAt, loc))
	}
	if c.Notes != "" {
		field(w, "Notes", c.Notes)
	}
	field(w, "Created", localTime(c.CreatedAt, loc))
}

func renderPurchases(w io.Writer, views []*models.PurchaseView, loc *time.Location) error {
	if len(views) == 0 {
		fmt.Fprintln(w, "No purchases found.")
		return nil
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			localTime(v.CreatedAt, loc), v.InvoiceID, v.ProductSKU.String(), v.CustomerName,
			fmt.Sprint(v.Quantity), money(v.Total, v.Currency),
			v.PaymentStatus, v.FulfillmentStatus,
		})
	}
	return table(w, []string{"TIME", "INVOICE", "SKU", "CUSTOMER", "QTY", "TOTAL", "PAYMENT", "FULFILLMENT"}, rows)
}

func renderPurchase(w io.Writer, p *models.Purchase, loc *time.Location) {
	heading(w, "Purchase "+p.InvoiceID)
	field(w, "Product", p.ProductSKU)
	field(w, "Customer", p.CustomerID)
	field(w, "Quantity", p.Quantity)
	field(w, "Unit price", money(p.UnitPrice, p.Currency))
	field(w, "Discount", money(p.Discount, p.Currency))
	field(w, "Tax", money(p.Tax, p.Currency))
	field(w, "Total", money(p.Total, p.Currency))
	field(w, "Payment", p.PaymentStatus)
	field(w, "Fulfillment", p.FulfillmentStatus)
	field(w, "Recorded", localTime(p.CreatedAt, loc))
}

func renderTotals(w io.Writer, t models.Totals, currency string) {
	field(w, "Purchases", t.Count)
	field(w, "Quantity", t.Quantity)
	field(w, "Revenue", money(t.Revenue, currency))
	field(w, "Discounts", money(t.Discounts, currency))
	field(w, "Tax", money(t.Tax, currency))
	field(w, "Total", money(t.Total, currency))
}

func renderTop(w io.Writer, top []models.ProductRevenue, currency string) error {
	if len(top) == 0 {
		fmt.Fprintln(w, "No sales in this period.")
		return nil
	}
	rows := make([][]string, 0, len(top))
	for i, p := range top {
		rows = append(rows, []string{
			fmt.Sprint(i + 1), p.SKU.String(), p.Name, fmt.Sprint(p.Quantity), money(p.Revenue, currency),
		})
	}
	return table(w, []string{"#", "SKU", "NAME", "QTY", "REVENUE"}, rows)
}

func renderReport(w io.Writer, r *models.Report) error {
	heading(w, "Daily report for "+r.Day.Format(time.DateOnly))
	renderTotals(w, r.Today, r.Currency)

	fmt.Fprintln(w)
	heading(w, "7-day trend")
	rows := make([][]string, 0, len(r.Trend))
	for _, d := range r.Trend {
		rows = append(rows, []string{
			d.Day.Format(time.DateOnly), fmt.Sprint(d.Count), fmt.Sprint(d.Quantity), money(d.Revenue, r.Currency),
		})
	}
	if err := table(w, []string{"DAY", "PURCHASES", "QTY", "REVENUE"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(w)
	heading(w, "Top products")
	if err := renderTop(w, r.TopProducts, r.Currency); err != nil {
		return err
	}

	fmt.Fprintln(w)
	heading(w, "Alerts")
	if len(r.Alerts) == 0 {
		fmt.Fprintln(w, okStyle.Render("All thresholds met."))
	}
	for _, a := range r.Alerts {
		style := warningStyle
		if a.Severity == models.SeverityCritical {
			style = criticalStyle
		}
		fmt.Fprintf(w, "%s %s\n", style.Render("["+string(a.Severity)+"]"), a.Message)
	}

	fmt.Fprintln(w)
	heading(w, "Summary")
	fmt.Fprintln(w, r.Summary)
	if r.SummaryDegraded {
		fmt.Fprintln(w, warningStyle.Render("(summary provider unavailable, showing fallback text)"))
	}
	return nil
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
