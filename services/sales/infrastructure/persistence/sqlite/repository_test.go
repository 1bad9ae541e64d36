package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	salesmigrations "github.com/ghuser/salesdesk/migrations/sales"
	"github.com/ghuser/salesdesk/pkg/database"
	"github.com/ghuser/salesdesk/pkg/logger"
	"github.com/ghuser/salesdesk/pkg/migrator"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

type fixture struct {
	products  *ProductRepository
	customers *CustomerRepository
	purchases *PurchaseRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureAt(t, filepath.Join(t.TempDir(), "sales.db"), 2*time.Second)
}

func newFixtureAt(t *testing.T, path string, timeout time.Duration) *fixture {
	t.Helper()
	ctx := context.Background()
	d, err := database.Open(ctx, database.Options{Path: path, Timeout: timeout}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, migrator.RunMigrations(d.DB(), salesmigrations.FS))

	return &fixture{
		products:  NewProductRepository(d),
		customers: NewCustomerRepository(d),
		purchases: NewPurchaseRepository(d),
	}
}

func (f *fixture) seed(t *testing.T) (*models.Product, *models.Customer) {
	t.Helper()
	ctx := context.Background()
	p := models.NewProduct("CRM-001", "CRM Pro", decimal.RequireFromString("99"), time.Now())
	require.NoError(t, f.products.Save(ctx, p))
	c := models.NewCustomer("Ada Lovelace", time.Now())
	c.Email = "Ada@Example.com"
	require.NoError(t, f.customers.Save(ctx, c))
	return p, c
}

func purchase(p *models.Product, c *models.Customer, invoice string, at time.Time) *models.Purchase {
	pu := &models.Purchase{
		InvoiceID:  invoice,
		ProductSKU: p.SKU,
		CustomerID: c.ID,
		Quantity:   1,
		UnitPrice:  p.Price,
		Discount:   decimal.Zero,
		Tax:        decimal.Zero,
		Currency:   "USD",
		Tags:       []string{"vip", "q3"},
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	pu.Total = pu.ExpectedTotal()
	return pu
}

func TestProductRepository_SaveGetUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.seed(t)
	require.NotZero(t, p.ID)

	got, err := f.products.GetBySKU(ctx, "CRM-001")
	require.NoError(t, err)
	require.Equal(t, "CRM Pro", got.Name)
	require.True(t, got.Price.Equal(decimal.RequireFromString("99")))
	require.Equal(t, models.ProductActive, got.Status)

	got.Status = models.ProductRetired
	got.Price = decimal.RequireFromString("109.50")
	require.NoError(t, f.products.Update(ctx, got))

	again, err := f.products.GetBySKU(ctx, "CRM-001")
	require.NoError(t, err)
	require.Equal(t, models.ProductRetired, again.Status)
	require.Equal(t, "109.5", again.Price.String())

	_, err = f.products.GetBySKU(ctx, "NOPE")
	require.ErrorIs(t, err, salesdomain.ErrProductNotFound)
}

func TestProductRepository_DuplicateSKU(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	dup := models.NewProduct("CRM-001", "Other", decimal.Zero, time.Now())
	err := f.products.Save(context.Background(), dup)
	require.ErrorIs(t, err, salesdomain.ErrDuplicateSKU)
	require.ErrorIs(t, err, salesdomain.ErrIntegrity)
}

func TestProductRepository_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, sku := range []string{"ANL-101", "MKT-201"} {
		p := models.NewProduct(models.SKU(sku), "Tool "+sku, decimal.NewFromInt(10), time.Now())
		p.Category = "software"
		require.NoError(t, f.products.Save(ctx, p))
	}
	retired := models.NewProduct("OLD-1", "Legacy", decimal.NewFromInt(1), time.Now())
	retired.Status = models.ProductRetired
	require.NoError(t, f.products.Save(ctx, retired))

	all, err := f.products.Search(ctx, models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	active, err := f.products.Search(ctx, models.ProductFilter{Status: models.ProductActive})
	require.NoError(t, err)
	require.Len(t, active, 2)

	byQuery, err := f.products.Search(ctx, models.ProductFilter{Query: "mkt"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	require.Equal(t, models.SKU("MKT-201"), byQuery[0].SKU)

	n, err := f.products.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestCustomerRepository_FindAndDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, c := f.seed(t)

	byEmail, err := f.customers.FindByEmail(ctx, "ADA@example.COM")
	require.NoError(t, err)
	require.Equal(t, c.ID, byEmail.ID)
	require.Equal(t, "ada@example.com", byEmail.Email)

	byName, err := f.customers.FindByName(ctx, "Ada Lovelace")
	require.NoError(t, err)
	require.Equal(t, c.ID, byName.ID)

	other := models.NewCustomer("Impostor", time.Now())
	other.Email = "ada@example.com"
	require.ErrorIs(t, f.customers.Save(ctx, other), salesdomain.ErrDuplicateEmail)

	// Empty emails never collide.
	require.NoError(t, f.customers.Save(ctx, models.NewCustomer("No Email 1", time.Now())))
	require.NoError(t, f.customers.Save(ctx, models.NewCustomer("No Email 2", time.Now())))

	_, err = f.customers.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, salesdomain.ErrCustomerNotFound)

	contact := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	c.Phone = "555-0101"
	c.LastContactAt = &contact
	require.NoError(t, f.customers.Update(ctx, c))
	got, err := f.customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "555-0101", got.Phone)
	require.NotNil(t, got.LastContactAt)
	require.True(t, got.LastContactAt.Equal(contact))

	found, err := f.customers.Search(ctx, "email", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestPurchaseRepository_SaveIsMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, c := f.seed(t)

	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	var last time.Time
	for i := 0; i < 5; i++ {
		pu := purchase(p, c, fmt.Sprintf("INV-%d", i), at) // identical clock reading
		require.NoError(t, f.purchases.Save(ctx, pu))
		require.True(t, pu.CreatedAt.After(last), "created_at must strictly increase")
		last = pu.CreatedAt
	}

	got, err := f.purchases.GetByInvoiceID(ctx, "INV-4")
	require.NoError(t, err)
	require.Equal(t, "CRM Pro", got.ProductName)
	require.Equal(t, "Ada Lovelace", got.CustomerName)
	require.Equal(t, []string{"vip", "q3"}, got.Tags)
	require.True(t, got.CreatedAt.Equal(last))
	require.True(t, got.Total.Equal(got.ExpectedTotal()))
}

func TestPurchaseRepository_IntegrityErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, c := f.seed(t)

	require.NoError(t, f.purchases.Save(ctx, purchase(p, c, "INV-1", time.Now())))
	err := f.purchases.Save(ctx, purchase(p, c, "INV-1", time.Now()))
	require.ErrorIs(t, err, salesdomain.ErrDuplicateInvoice)

	ghost := models.NewCustomer("Ghost", time.Now())
	err = f.purchases.Save(ctx, purchase(p, ghost, "INV-2", time.Now()))
	require.ErrorIs(t, err, salesdomain.ErrIntegrity)

	n, err := f.purchases.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n, "failed writes must leave no partial rows")
}

func TestPurchaseRepository_KeepRecentNeverDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, c := f.seed(t)

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		require.NoError(t, f.purchases.Save(ctx, purchase(p, c, fmt.Sprintf("INV-%02d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	left, err := f.purchases.KeepRecent(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 3, left)

	recent, err := f.purchases.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	require.Equal(t, "INV-07", recent[0].InvoiceID)
	require.Equal(t, "INV-03", recent[4].InvoiceID)

	all, err := f.purchases.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 8)

	// Growing the window brings rows back.
	left, err = f.purchases.KeepRecent(ctx, 6)
	require.NoError(t, err)
	require.Zero(t, left)
	recent, err = f.purchases.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 6)
}

func TestPurchaseRepository_InRangeSearchAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, c := f.seed(t)

	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.purchases.Save(ctx, purchase(p, c, "INV-A", day.Add(-time.Hour))))
	require.NoError(t, f.purchases.Save(ctx, purchase(p, c, "INV-B", day.Add(time.Hour))))

	in, err := f.purchases.InRange(ctx, models.DateRange{Start: day, End: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, in, 1)
	require.Equal(t, "INV-B", in[0].InvoiceID)

	empty, err := f.purchases.InRange(ctx, models.DateRange{Start: day, End: day})
	require.NoError(t, err)
	require.Empty(t, empty)

	found, err := f.purchases.Search(ctx, models.PurchaseFilter{Query: "lovelace"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "INV-B", found[0].InvoiceID)

	since, err := f.purchases.Search(ctx, models.PurchaseFilter{Since: day})
	require.NoError(t, err)
	require.Len(t, since, 1)

	paid := "Refunded"
	require.NoError(t, f.purchases.UpdateStatus(ctx, "INV-A", &paid, nil, time.Now()))
	got, err := f.purchases.GetByInvoiceID(ctx, "INV-A")
	require.NoError(t, err)
	require.Equal(t, "Refunded", got.PaymentStatus)

	err = f.purchases.UpdateStatus(ctx, "INV-missing", &paid, nil, time.Now())
	require.ErrorIs(t, err, salesdomain.ErrPurchaseNotFound)
}

func TestPurchaseRepository_ImportSkipsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, c := f.seed(t)

	old := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	require.NoError(t, f.purchases.Save(ctx, purchase(p, c, "INV-1", time.Now())))

	n, err := f.purchases.Import(ctx, []*models.Purchase{
		purchase(p, c, "INV-1", old),
		purchase(p, c, "INV-2", old),
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := f.purchases.GetByInvoiceID(ctx, "INV-2")
	require.NoError(t, err)
	require.True(t, got.CreatedAt.Equal(old), "import keeps original timestamps")
}

func TestRepositories_StoreUnavailableWhileLocked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sales.db")
	f := newFixtureAt(t, path, 100*time.Millisecond)
	p, c := f.seed(t)

	other, err := database.Open(ctx, database.Options{Path: path, Timeout: 100 * time.Millisecond}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })
	tx, err := other.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback() //nolint:errcheck
	_, err = tx.ExecContext(ctx, "UPDATE products SET name = 'Locked' WHERE sku = ?", p.SKU.String())
	require.NoError(t, err)

	err = f.products.Save(ctx, models.NewProduct("ANL-101", "Analytics", decimal.RequireFromString("149"), time.Now()))
	require.ErrorIs(t, err, salesdomain.ErrStoreUnavailable)

	err = f.purchases.Save(ctx, purchase(p, c, "INV-LOCKED", time.Now()))
	require.ErrorIs(t, err, salesdomain.ErrStoreUnavailable)

	// Readers are not blocked by a writer in WAL mode.
	_, err = f.products.GetBySKU(ctx, p.SKU)
	require.NoError(t, err)
}

func TestSearch_MatchesWildcardsLiterally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, c := f.seed(t)

	var products []*models.Product
	for _, sku := range []string{"A_B", "AXB", "A%B"} {
		p := models.NewProduct(models.SKU(sku), "Kit "+sku, decimal.NewFromInt(5), time.Now())
		require.NoError(t, f.products.Save(ctx, p))
		products = append(products, p)
	}
	for i, p := range products {
		require.NoError(t, f.purchases.Save(ctx, purchase(p, c, fmt.Sprintf("INV-W%d", i), time.Now())))
	}

	found, err := f.products.Search(ctx, models.ProductFilter{Query: "A_B"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, models.SKU("A_B"), found[0].SKU)

	found, err = f.products.Search(ctx, models.ProductFilter{Query: "A%B"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, models.SKU("A%B"), found[0].SKU)

	views, err := f.purchases.Search(ctx, models.PurchaseFilter{Query: "A_B"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, models.SKU("A_B"), views[0].ProductSKU)

	for _, name := range []string{"Grace_Hopper", "Grace Hopper"} {
		require.NoError(t, f.customers.Save(ctx, models.NewCustomer(name, time.Now())))
	}
	customers, err := f.customers.Search(ctx, "e_h", 0)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "Grace_Hopper", customers[0].Name)
}
