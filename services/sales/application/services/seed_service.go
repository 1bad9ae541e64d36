package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/pkg/logger"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/tabular"
)

type sampleProduct struct {
	sku, name, category, price, features, bestFor string
}

var sampleCatalog = []sampleProduct{
	{"CRM-001", "CRM Pro", "CRM", "99", "Contact management, email tracking, basic reporting", "Small teams"},
	{"ANL-101", "Analytics Suite", "Analytics", "149", "Dashboards, predictive insights, custom reports", "Data teams"},
	{"MKT-201", "Marketing Tool", "Marketing", "79", "Email campaigns, social scheduling, A/B testing", "Marketing teams"},
}

// SeedService fills an empty store on first run.
type SeedService struct {
	products       repositories.ProductRepository
	customers      repositories.CustomerRepository
	log            logger.Logger
	productsFile   string
	customersFile  string
	defaultTaxRate decimal.Decimal
	now            func() time.Time
}

// SeedServiceDeps groups the collaborators of a SeedService.
type SeedServiceDeps struct {
	Products       repositories.ProductRepository
	Customers      repositories.CustomerRepository
	Log            logger.Logger
	ProductsFile   string
	CustomersFile  string
	DefaultTaxRate decimal.Decimal
}

// NewSeedService returns a SeedService wired with deps.
func NewSeedService(deps SeedServiceDeps) *SeedService {
	return &SeedService{
		products:       deps.Products,
		customers:      deps.Customers,
		log:            deps.Log,
		productsFile:   deps.ProductsFile,
		customersFile:  deps.CustomersFile,
		defaultTaxRate: deps.DefaultTaxRate,
		now:            time.Now,
	}
}

// SeedResult counts what SeedIfEmpty inserted.
type SeedResult struct {
	Products  int
	Customers int
}

// SeedIfEmpty loads the product catalog when no product exists, from the
// products file or, failing that, the built-in samples. Customers are loaded
// from the customers file when none exist and the file is present. Existing
// rows are never touched.
func (s *SeedService) SeedIfEmpty(ctx context.Context) (*SeedResult, error) {
	res := &SeedResult{}

	n, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		if res.Products, err = s.seedProducts(ctx); err != nil {
			return nil, err
		}
	}

	n, err = s.customers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if n == 0 {
		if res.Customers, err = s.seedCustomers(ctx); err != nil {
			return nil, err
		}
	}

	if res.Products > 0 || res.Customers > 0 {
		s.log.InfoContext(ctx, "store seeded", "products", res.Products, "customers", res.Customers)
	}
	return res, nil
}

func (s *SeedService) seedProducts(ctx context.Context) (int, error) {
	ps, err := s.readProducts()
	if err != nil {
		s.log.WarnContext(ctx, "failed to read products file, using built-in samples",
			"path", s.productsFile, "error", err)
	}
	if len(ps) == 0 {
		ps = s.samples()
	}

	saved := 0
	for _, p := range ps {
		if err := domainsvcs.ValidateProduct(p); err != nil {
			s.log.WarnContext(ctx, "skipping invalid seed product", "sku", p.SKU, "error", err)
			continue
		}
		if err := s.products.Save(ctx, p); err != nil {
			if errors.Is(err, salesdomain.ErrDuplicateSKU) {
				s.log.WarnContext(ctx, "skipping duplicate seed product", "sku", p.SKU)
				continue
			}
			return saved, fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
		saved++
	}
	return saved, nil
}

func (s *SeedService) readProducts() ([]*models.Product, error) {
	if s.productsFile == "" {
		return nil, nil
	}
	f, err := os.Open(s.productsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return tabular.ReadProducts(f, s.defaultTaxRate, s.now())
}

func (s *SeedService) samples() []*models.Product {
	now := s.now()
	ps := make([]*models.Product, 0, len(sampleCatalog))
	for _, sp := range sampleCatalog {
		p := models.NewProduct(models.SKU(sp.sku), sp.name, decimal.RequireFromString(sp.price), now)
		p.Category = sp.category
		p.Features = sp.features
		p.BestFor = sp.bestFor
		p.TaxRate = s.defaultTaxRate
		ps = append(ps, p)
	}
	return ps
}

func (s *SeedService) seedCustomers(ctx context.Context) (int, error) {
	if s.customersFile == "" {
		return 0, nil
	}
	f, err := os.Open(s.customersFile)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		s.log.WarnContext(ctx, "failed to open customers file", "path", s.customersFile, "error", err)
		return 0, nil
	}
	defer f.Close() //nolint:errcheck

	cs, err := tabular.ReadCustomers(f, s.now())
	if err != nil {
		s.log.WarnContext(ctx, "failed to read customers file", "path", s.customersFile, "error", err)
		return 0, nil
	}

	saved := 0
	for _, c := range cs {
		if err := domainsvcs.ValidateCustomer(c); err != nil {
			s.log.WarnContext(ctx, "skipping invalid seed customer", "name", c.Name, "error", err)
			continue
		}
		if err := s.customers.Save(ctx, c); err != nil {
			if errors.Is(err, salesdomain.ErrIntegrity) {
				s.log.WarnContext(ctx, "skipping duplicate seed customer", "name", c.Name, "error", err)
				continue
			}
			return saved, fmt.Errorf("seed customer %s: %w", c.Name, err)
		}
		saved++
	}
	return saved, nil
}
