package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghuser/salesdesk/pkg/config"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

func strPtr(s string) *string { return &s }

func TestProductService_CreateUpdateRetire(t *testing.T) {
	svc := newServices(t, func(c *config.Config) { c.DefaultTaxRate = "0.08" })
	ctx := context.Background()

	p, err := svc.Products.Create(ctx, ProductInput{SKU: " crm-001 ", Name: "CRM Pro", Price: "99"})
	require.NoError(t, err)
	require.Equal(t, models.SKU("CRM-001"), p.SKU)
	require.Equal(t, "0.08", p.TaxRate.String(), "default tax rate applies")
	require.Equal(t, "unit", p.Unit)

	_, err = svc.Products.Create(ctx, ProductInput{SKU: "CRM-001", Name: "Again", Price: "1"})
	require.ErrorIs(t, err, salesdomain.ErrDuplicateSKU)

	p, err = svc.Products.Update(ctx, "crm-001", ProductUpdate{Price: strPtr("89.50"), Category: strPtr("CRM")})
	require.NoError(t, err)
	require.Equal(t, "89.5", p.Price.String())
	require.Equal(t, "CRM Pro", p.Name)

	p, err = svc.Products.Retire(ctx, "CRM-001")
	require.NoError(t, err)
	require.Equal(t, models.ProductRetired, p.Status)

	active, err := svc.Products.List(ctx, true)
	require.NoError(t, err)
	require.Empty(t, active)
	all, err := svc.Products.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1, "retired products stay in the catalog")

	p, err = svc.Products.Activate(ctx, "CRM-001")
	require.NoError(t, err)
	require.True(t, p.IsActive())
}

func TestProductService_CreateRejects(t *testing.T) {
	svc := newServices(t, nil)
	tests := []struct {
		name string
		in   ProductInput
	}{
		{"missing sku", ProductInput{Name: "X", Price: "1"}},
		{"bad sku", ProductInput{SKU: "A B", Name: "X", Price: "1"}},
		{"missing name", ProductInput{SKU: "X1", Price: "1"}},
		{"padded name", ProductInput{SKU: "X1", Name: " X ", Price: "1"}},
		{"negative price", ProductInput{SKU: "X1", Name: "X", Price: "-1"}},
		{"price not a number", ProductInput{SKU: "X1", Name: "X", Price: "ten"}},
		{"negative cost", ProductInput{SKU: "X1", Name: "X", Price: "1", Cost: "-2"}},
		{"tax rate above one", ProductInput{SKU: "X1", Name: "X", Price: "1", TaxRate: "1.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Products.Create(context.Background(), tt.in)
			require.ErrorIs(t, err, salesdomain.ErrValidation)
		})
	}

	_, err := svc.Products.Get(context.Background(), "NOPE")
	require.ErrorIs(t, err, salesdomain.ErrProductNotFound)
}

func TestCustomerService_UpsertMatchesEmailThenName(t *testing.T) {
	svc := newServices(t, nil)
	ctx := context.Background()

	c, created, err := svc.Customers.Upsert(ctx, CustomerInput{Name: "Ada Lovelace", Email: "Ada@Example.com", City: "London"})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "ada@example.com", c.Email)

	byEmail, created, err := svc.Customers.Upsert(ctx, CustomerInput{Name: "Augusta Ada", Email: "ada@example.com", Phone: "555"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, c.ID, byEmail.ID)
	require.Equal(t, "Augusta Ada", byEmail.Name)
	require.Equal(t, "London", byEmail.City, "empty fields do not overwrite")
	require.Equal(t, "555", byEmail.Phone)

	byName, created, err := svc.Customers.Upsert(ctx, CustomerInput{Name: "Augusta Ada", Company: "Analytical"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, c.ID, byName.ID)
	require.Equal(t, "ada@example.com", byName.Email)

	list, err := svc.Customers.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCustomerService_UpdateAndResolve(t *testing.T) {
	svc := newServices(t, nil)
	ctx := context.Background()
	c := mustCustomer(t, svc, "Grace Hopper", "grace@example.com")
	mustCustomer(t, svc, "Alan Turing", "alan@example.com")

	updated, err := svc.Customers.Update(ctx, c.ID.String(), CustomerUpdate{Company: strPtr("Navy"), Email: strPtr("")})
	require.NoError(t, err)
	require.Equal(t, "Navy", updated.Company)
	require.Empty(t, updated.Email, "update clears fields set to empty")

	_, err = svc.Customers.Update(ctx, c.ID.String(), CustomerUpdate{Email: strPtr("alan@example.com")})
	require.ErrorIs(t, err, salesdomain.ErrDuplicateEmail)
	_, err = svc.Customers.Update(ctx, c.ID.String(), CustomerUpdate{Email: strPtr("not-an-email")})
	require.ErrorIs(t, err, salesdomain.ErrValidation)

	for _, ref := range []string{c.ID.String(), "Grace Hopper"} {
		got, err := svc.Customers.Resolve(ctx, ref)
		require.NoError(t, err)
		require.Equal(t, c.ID, got.ID)
	}
	got, err := svc.Customers.Resolve(ctx, "ALAN@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alan Turing", got.Name)

	_, err = svc.Customers.Resolve(ctx, "Nobody")
	require.ErrorIs(t, err, salesdomain.ErrCustomerNotFound)
	_, err = svc.Customers.Get(ctx, "nope")
	require.ErrorIs(t, err, salesdomain.ErrValidation)

	found, err := svc.Customers.Search(ctx, "navy", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestSeedService_SamplesWhenNoFile(t *testing.T) {
	svc := newServices(t, nil)
	ctx := context.Background()

	res, err := svc.Seed.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.Equal(t, &SeedResult{Products: 3}, res)

	p, err := svc.Products.Get(ctx, "ANL-101")
	require.NoError(t, err)
	require.Equal(t, "149", p.Price.String())

	res, err = svc.Seed.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.Equal(t, &SeedResult{}, res, "seeding never touches a populated store")
}

func TestSeedService_LoadsFiles(t *testing.T) {
	dir := t.TempDir()
	products := filepath.Join(dir, "p.csv")
	customers := filepath.Join(dir, "c.csv")
	require.NoError(t, os.WriteFile(products, []byte("name,price,features,best_for\nWidget,12.5,Small,Everyone\n"), 0o644))
	require.NoError(t, os.WriteFile(customers, []byte("name,email\nAda,ada@example.com\nAda Dup,ADA@example.com\n"), 0o644))

	svc := newServices(t, func(c *config.Config) {
		c.SeedProductsFile = products
		c.SeedCustomersFile = customers
	})
	res, err := svc.Seed.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	require.Equal(t, &SeedResult{Products: 1, Customers: 1}, res)

	p, err := svc.Products.Get(context.Background(), "WIDGET")
	require.NoError(t, err)
	require.Equal(t, "Everyone", p.BestFor)
}
