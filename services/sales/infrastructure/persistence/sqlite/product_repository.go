package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/pkg/database"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/persistence/sqlite/db"
)

// ProductRepository implements repositories.ProductRepository against SQLite.
type ProductRepository struct {
	db *database.Database
}

// NewProductRepository returns a ProductRepository backed by the given database.
func NewProductRepository(database *database.Database) *ProductRepository {
	return &ProductRepository{db: database}
}

// Save inserts a new product. Returns ErrDuplicateSKU on unique constraint violations.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	params := db.InsertProductParams{
		Sku:         p.SKU.String(),
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price.String(),
		Cost:        p.Cost.String(),
		TaxRate:     p.TaxRate.String(),
		Unit:        p.Unit,
		Description: p.Description,
		Features:    p.Features,
		BestFor:     p.BestFor,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UnixNano(),
		UpdatedAt:   p.UpdatedAt.UnixNano(),
	}
	var id int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		id, err = q.InsertProduct(ctx, params)
		return err
	})
	if err != nil {
		switch classify(err) {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", salesdomain.ErrDuplicateSKU, p.SKU)
		case checkViolation:
			return fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return nil
}

// Update persists every mutable field. The SKU is the identity and never changes.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	params := db.UpdateProductParams{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price.String(),
		Cost:        p.Cost.String(),
		TaxRate:     p.TaxRate.String(),
		Unit:        p.Unit,
		Description: p.Description,
		Features:    p.Features,
		BestFor:     p.BestFor,
		Status:      string(p.Status),
		UpdatedAt:   p.UpdatedAt.UnixNano(),
		Sku:         p.SKU.String(),
	}
	var n int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		n, err = q.UpdateProduct(ctx, params)
		return err
	})
	if err != nil {
		if classify(err) == checkViolation {
			return fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", salesdomain.ErrProductNotFound, p.SKU)
	}
	return nil
}

// GetBySKU returns ErrProductNotFound if no product has the SKU.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku models.SKU) (*models.Product, error) {
	var row db.SalesProduct
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		row, err = q.GetProductBySKU(ctx, sku.String())
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", salesdomain.ErrProductNotFound, sku)
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return rowToProduct(row)
}

// Search lists products matching filter ordered by name.
func (r *ProductRepository) Search(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	var rows []db.SalesProduct
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		rows, err = q.SearchProducts(ctx, db.SearchProductsParams{
			Query:    filter.Query,
			Category: filter.Category,
			Status:   string(filter.Status),
			Limit:    int64(filter.Limit),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := rowToProduct(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Count returns the number of catalog entries.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		n, err = q.CountProducts(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return int(n), nil
}

// rowToProduct maps a db.SalesProduct to a domain models.Product.
func rowToProduct(row db.SalesProduct) (*models.Product, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad price %q: %w", row.Sku, row.Price, err)
	}
	cost, err := decimal.NewFromString(row.Cost)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad cost %q: %w", row.Sku, row.Cost, err)
	}
	rate, err := decimal.NewFromString(row.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad tax rate %q: %w", row.Sku, row.TaxRate, err)
	}
	return &models.Product{
		ID:          row.ID,
		SKU:         models.SKU(row.Sku),
		Name:        row.Name,
		Category:    row.Category,
		Price:       price,
		Cost:        cost,
		TaxRate:     rate,
		Unit:        row.Unit,
		Description: row.Description,
		Features:    row.Features,
		BestFor:     row.BestFor,
		Status:      models.ProductStatus(row.Status),
		CreatedAt:   fromNanos(row.CreatedAt),
		UpdatedAt:   fromNanos(row.UpdatedAt),
	}, nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
