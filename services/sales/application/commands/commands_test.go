package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	salesmigrations "github.com/ghuser/salesdesk/migrations/sales"
	"github.com/ghuser/salesdesk/pkg/app"
	"github.com/ghuser/salesdesk/pkg/config"
	"github.com/ghuser/salesdesk/pkg/database"
	"github.com/ghuser/salesdesk/pkg/errexit"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/migrator"
	appsvcs "github.com/ghuser/salesdesk/services/sales/application/services"
)

type harness struct {
	t    *testing.T
	app  *app.Application
	svcs *appsvcs.Services
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	cfg := &config.Config{
		DatabasePath:             filepath.Join(dir, "sales.db"),
		DBTimeout:                2 * time.Second,
		ExportsDir:               filepath.Join(dir, "exports"),
		BackupsDir:               filepath.Join(dir, "backups"),
		SeedProductsFile:         filepath.Join(dir, "products.csv"),
		SeedCustomersFile:        filepath.Join(dir, "customers.csv"),
		MaxRecentPurchases:       5,
		Currency:                 "USD",
		DefaultTaxRate:           "0",
		DefaultPaymentStatus:     "Paid",
		DefaultPaymentTerms:      "Net 30",
		DefaultFulfillmentStatus: "Delivered",
		DefaultChannel:           "in-store",
		DefaultSource:            "direct",
		DefaultRegion:            "local",
		Timezone:                 "UTC",
		TopProducts:              3,
		DailySalesTarget:         10,
		LowSalesThreshold:        5,
		MinDailyRevenue:          "0",
		TrendDropRatio:           "0",
		LLMProvider:              config.ProviderNone,
		MaxTokens:                100,
		SummaryTimeout:           time.Second,
		LogLevel:                 "info",
		Environment:              config.EnvTesting,
	}

	d, err := database.Open(ctx, database.Options{Path: cfg.DatabasePath, Timeout: cfg.DBTimeout}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, migrator.RunMigrations(d.DB(), salesmigrations.FS))

	a := &app.Application{Db: d, Logger: logger.Nop(), Config: cfg}
	svcs, err := appsvcs.New(ctx, a)
	require.NoError(t, err)
	return &harness{t: t, app: a, svcs: svcs}
}

// run executes one command line on a fresh tree so flag values never leak
// between invocations.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := &cobra.Command{Use: "salesdesk", SilenceUsage: true, SilenceErrors: true}
	SalesCommands(root, h.app, h.svcs)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "salesdesk %s\n%s", strings.Join(args, " "), out)
	return out
}

func TestSaleFlow(t *testing.T) {
	h := newHarness(t)

	h.mustRun("product", "add", "--sku", "crm-001", "--name", "CRM Suite", "--price", "99", "--tax-rate", "0.1")
	out := h.mustRun("product", "list")
	require.Contains(t, out, "CRM-001")
	require.Contains(t, out, "CRM Suite")

	out = h.mustRun("customer", "add", "--name", "Ada Lovelace", "--email", "ada@example.com")
	require.Contains(t, out, "Added customer Ada Lovelace")

	out = h.mustRun("sale", "record", "--sku", "CRM-001", "--customer", "ada@example.com", "--quantity", "2")
	require.Contains(t, out, "198.00 USD")
	require.Contains(t, out, "19.80 USD")
	require.Contains(t, out, "217.80 USD")

	out = h.mustRun("sale", "recent")
	require.Contains(t, out, "INV-")
	require.Contains(t, out, "Ada Lovelace")

	out = h.mustRun("report", "range")
	require.Contains(t, out, "Purchases: 1")
	require.Contains(t, out, "Revenue: 198.00 USD")

	out = h.mustRun("report", "top", "--limit", "1")
	require.Contains(t, out, "Top 1 products")
	require.Contains(t, out, "CRM-001")

	out = h.mustRun("report", "daily", "--day", time.Now().UTC().Format(time.DateOnly))
	require.Contains(t, out, "7-day trend")
	require.Contains(t, out, "Low sales count: 1")
}

func TestSaleStatusUpdate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("product", "add", "--sku", "ANL-101", "--name", "Analytics", "--price", "149")
	h.mustRun("customer", "add", "--name", "Grace Hopper")
	h.mustRun("sale", "record", "--sku", "ANL-101", "--customer", "Grace Hopper", "--invoice", "INV-TEST-1")

	out := h.mustRun("sale", "status", "INV-TEST-1", "--payment", "Refunded", "--fulfillment", "Returned")
	require.Contains(t, out, "Refunded")
	require.Contains(t, out, "Returned")

	_, err := h.run("sale", "status", "INV-TEST-1")
	require.Equal(t, errexit.Validation, errexit.Code(err))
}

func TestExitCodes(t *testing.T) {
	h := newHarness(t)
	h.mustRun("product", "add", "--sku", "MKT-201", "--name", "Marketing", "--price", "79")
	h.mustRun("customer", "add", "--name", "Alan Turing")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"duplicate sku", []string{"product", "add", "--sku", "mkt-201", "--name", "Again", "--price", "1"}, errexit.Integrity},
		{"negative price", []string{"product", "add", "--sku", "NEG", "--name", "Neg", "--price=-1"}, errexit.Validation},
		{"unknown product", []string{"sale", "record", "--sku", "NOPE", "--customer", "Alan Turing"}, errexit.Integrity},
		{"unknown customer", []string{"sale", "record", "--sku", "MKT-201", "--customer", "Nobody"}, errexit.Integrity},
		{"zero quantity", []string{"sale", "record", "--sku", "MKT-201", "--customer", "Alan Turing", "--quantity", "0"}, errexit.Validation},
		{"huge quantity", []string{"sale", "record", "--sku", "MKT-201", "--customer", "Alan Turing", "--quantity", "4611686018427387904"}, errexit.Validation},
		{"mismatched total", []string{"sale", "record", "--sku", "MKT-201", "--customer", "Alan Turing", "--total", "1"}, errexit.Validation},
		{"bad day", []string{"report", "daily", "--day", "yesterday"}, errexit.Validation},
		{"unknown invoice", []string{"sale", "status", "INV-NONE", "--payment", "Paid"}, errexit.Integrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			require.Error(t, err)
			require.Equal(t, tt.want, errexit.Code(err), "error: %v", err)
		})
	}
}

func TestReportTopInvertedRange(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("report", "top", "--from", "2026-03-05", "--to", "2026-03-01")
	require.Contains(t, out, "No sales in this period.")

	out = h.mustRun("report", "range", "--from", "2026-03-05", "--to", "2026-03-01")
	require.Contains(t, out, "Purchases: 0")
}

func TestDataCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("data", "seed")
	require.Contains(t, out, "Seeded 3 products")
	out = h.mustRun("data", "seed")
	require.Contains(t, out, "Nothing to seed")

	h.mustRun("customer", "add", "--name", "Ada Lovelace")
	h.mustRun("sale", "record", "--sku", "CRM-001", "--customer", "Ada Lovelace")

	out = h.mustRun("data", "export")
	require.Contains(t, out, "Exported 1 purchases")
	files, err := filepath.Glob(filepath.Join(h.app.Config.ExportsDir, "purchases_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	out = h.mustRun("data", "import", files[0])
	require.Contains(t, out, "Imported 0 of 1 rows (1 already present)")

	out = h.mustRun("data", "backup")
	require.Contains(t, out, "Backup written to")
	backups, err := os.ReadDir(h.app.Config.BackupsDir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("status")
	require.Contains(t, out, "salesdesk status: ok")
	require.Contains(t, out, "Schema version: 1")
	require.Contains(t, out, "AI status: disabled")
}

func TestCustomerUpdateAndShow(t *testing.T) {
	h := newHarness(t)
	h.mustRun("customer", "add", "--name", "Ada Lovelace", "--email", "ada@example.com", "--city", "London")

	out := h.mustRun("customer", "update", "ada@example.com", "--company", "Analytical Engines", "--city", "")
	require.Contains(t, out, "Analytical Engines")
	require.NotContains(t, out, "London")

	out = h.mustRun("customer", "show", "Ada Lovelace")
	require.Contains(t, out, "ada@example.com")

	out = h.mustRun("customer", "add", "--name", "Ada Lovelace", "--email", "ada@example.com", "--phone", "555", "--upsert")
	require.Contains(t, out, "Updated customer Ada Lovelace")

	out = h.mustRun("customer", "list", "--query", "analytical")
	require.Contains(t, out, "Ada Lovelace")
}
