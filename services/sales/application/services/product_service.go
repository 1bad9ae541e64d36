package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/salesdesk/pkg/validator"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/domain/repositories"
	domainsvcs "github.com/ghuser/salesdesk/services/sales/domain/services"
)

// ProductService manages the catalog.
type ProductService struct {
	repo           repositories.ProductRepository
	defaultTaxRate decimal.Decimal
	now            func() time.Time
}

// NewProductService returns a ProductService. defaultTaxRate applies to
// products created without a tax rate.
func NewProductService(repo repositories.ProductRepository, defaultTaxRate decimal.Decimal) *ProductService {
	return &ProductService{repo: repo, defaultTaxRate: defaultTaxRate, now: time.Now}
}

// Create validates and persists a new active product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := pkgvalidator.Validate(in); err != nil {
		return nil, salesdomain.Invalid("%s", pkgvalidator.Describe(err))
	}

	sku, err := models.NewSKU(in.SKU)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	price, err := models.ParseAmount(in.Price)
	if err != nil {
		return nil, salesdomain.Invalid("price: %v", err)
	}

	p := models.NewProduct(sku, in.Name, price, s.now())
	if p.Cost, err = models.ParseAmount(in.Cost); err != nil {
		return nil, salesdomain.Invalid("cost: %v", err)
	}
	p.TaxRate = s.defaultTaxRate
	if in.TaxRate != "" {
		if p.TaxRate, err = models.ParseRate(in.TaxRate); err != nil {
			return nil, salesdomain.Invalid("tax rate: %v", err)
		}
	}
	if in.Unit != "" {
		p.Unit = in.Unit
	}
	p.Category = in.Category
	p.Description = in.Description
	p.Features = in.Features
	p.BestFor = in.BestFor

	if err := domainsvcs.ValidateProduct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of in to the product with the given SKU.
func (s *ProductService) Update(ctx context.Context, rawSKU string, in ProductUpdate) (*models.Product, error) {
	if err := pkgvalidator.Validate(in); err != nil {
		return nil, salesdomain.Invalid("%s", pkgvalidator.Describe(err))
	}
	p, err := s.Get(ctx, rawSKU)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		if p.Price, err = models.ParseAmount(*in.Price); err != nil {
			return nil, salesdomain.Invalid("price: %v", err)
		}
	}
	if in.Cost != nil {
		if p.Cost, err = models.ParseAmount(*in.Cost); err != nil {
			return nil, salesdomain.Invalid("cost: %v", err)
		}
	}
	if in.TaxRate != nil {
		if p.TaxRate, err = models.ParseRate(*in.TaxRate); err != nil {
			return nil, salesdomain.Invalid("tax rate: %v", err)
		}
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.BestFor != nil {
		p.BestFor = *in.BestFor
	}

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the product with the given SKU.
func (s *ProductService) Get(ctx context.Context, rawSKU string) (*models.Product, error) {
	sku, err := models.NewSKU(rawSKU)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Search returns products matching filter, ordered by name.
func (s *ProductService) Search(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	if filter.Status != "" {
		if _, err := models.ParseProductStatus(string(filter.Status)); err != nil {
			return nil, fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
		}
	}
	ps, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return ps, nil
}

// List returns the whole catalog, or only sellable products when activeOnly.
func (s *ProductService) List(ctx context.Context, activeOnly bool) ([]*models.Product, error) {
	filter := models.ProductFilter{}
	if activeOnly {
		filter.Status = models.ProductActive
	}
	return s.Search(ctx, filter)
}

// Retire stops a product from being sold. Its history is kept.
func (s *ProductService) Retire(ctx context.Context, rawSKU string) (*models.Product, error) {
	return s.setStatus(ctx, rawSKU, models.ProductRetired)
}

// Activate makes a retired product sellable again.
func (s *ProductService) Activate(ctx context.Context, rawSKU string) (*models.Product, error) {
	return s.setStatus(ctx, rawSKU, models.ProductActive)
}

func (s *ProductService) setStatus(ctx context.Context, rawSKU string, status models.ProductStatus) (*models.Product, error) {
	p, err := s.Get(ctx, rawSKU)
	if err != nil {
		return nil, err
	}
	if p.Status == status {
		return p, nil
	}
	p.Status = status
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) save(ctx context.Context, p *models.Product) error {
	if err := domainsvcs.ValidateProduct(p); err != nil {
		return fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}
