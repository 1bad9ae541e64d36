package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	salesmigrations "github.com/ghuser/salesdesk/migrations/sales"
	"github.com/ghuser/salesdesk/pkg/app"
	"github.com/ghuser/salesdesk/pkg/config"
	"github.com/ghuser/salesdesk/pkg/database"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/migrator"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

var testDay = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func testConfig(dir string) *config.Config {
	return &config.Config{
		DatabasePath:             filepath.Join(dir, "sales.db"),
		DBTimeout:                2 * time.Second,
		ExportsDir:               filepath.Join(dir, "exports"),
		BackupsDir:               filepath.Join(dir, "backups"),
		SeedProductsFile:         filepath.Join(dir, "products.csv"),
		SeedCustomersFile:        filepath.Join(dir, "customers.csv"),
		MaxRecentPurchases:       10,
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
		MinDailyRevenue:          "0",
		TrendDropRatio:           "0",
		LLMProvider:              config.ProviderNone,
		MaxTokens:                100,
		SummaryTimeout:           time.Second,
		LogLevel:                 "info",
		Environment:              config.EnvTesting,
	}
}

// newServices opens a fresh store in a temp dir and wires every service.
// mutate may adjust the config first. Service clocks are pinned to testDay.
func newServices(t *testing.T, mutate func(*config.Config)) *Services {
	t.Helper()
	ctx := context.Background()

	cfg := testConfig(t.TempDir())
	if mutate != nil {
		mutate(cfg)
	}

	d, err := database.Open(ctx, database.Options{Path: cfg.DatabasePath, Timeout: cfg.DBTimeout}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, migrator.RunMigrations(d.DB(), salesmigrations.FS))

	svc, err := New(ctx, &app.Application{Db: d, Logger: logger.Nop(), Config: cfg})
	require.NoError(t, err)

	fixed := func() time.Time { return testDay }
	svc.Products.now = fixed
	svc.Customers.now = fixed
	svc.Purchases.now = fixed
	svc.Reports.now = fixed
	svc.Transfer.now = fixed
	svc.Seed.now = fixed
	return svc
}

func mustProduct(t *testing.T, svc *Services, sku, price, taxRate string) *models.Product {
	t.Helper()
	p, err := svc.Products.Create(context.Background(), ProductInput{
		SKU:     sku,
		Name:    "Product " + sku,
		Price:   price,
		TaxRate: taxRate,
	})
	require.NoError(t, err)
	return p
}

func mustCustomer(t *testing.T, svc *Services, name, email string) *models.Customer {
	t.Helper()
	c, err := svc.Customers.Create(context.Background(), CustomerInput{Name: name, Email: email})
	require.NoError(t, err)
	return c
}

func mustSale(t *testing.T, svc *Services, sku string, c *models.Customer, qty int64) *models.Purchase {
	t.Helper()
	p, err := svc.Purchases.Record(context.Background(), SaleInput{
		SKU:        sku,
		CustomerID: c.ID.String(),
		Quantity:   qty,
	})
	require.NoError(t, err)
	return p
}
