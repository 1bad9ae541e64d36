package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/salesdesk/services/sales/domain/models"
)

// ProductRepository is the persistence interface for the Product catalog.
// The domain layer owns this interface; infrastructure implements it.
type ProductRepository interface {
	// Save inserts a new product. Returns ErrDuplicateSKU on a taken SKU.
	Save(ctx context.Context, p *models.Product) error
	// Update persists every mutable field of an existing product.
	Update(ctx context.Context, p *models.Product) error
	GetBySKU(ctx context.Context, sku models.SKU) (*models.Product, error)
	Search(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	Count(ctx context.Context) (int, error)
}

// CustomerRepository is the persistence interface for customers.
type CustomerRepository interface {
	// Save inserts a new customer. Returns ErrDuplicateEmail on a taken email.
	Save(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	// FindByEmail and FindByName return ErrCustomerNotFound when nothing matches.
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByName(ctx context.Context, name string) (*models.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Customer, error)
	Count(ctx context.Context) (int, error)
}

// PurchaseRepository is the persistence interface for purchases.
// Purchases are never deleted.
type PurchaseRepository interface {
	// Save inserts p. CreatedAt is replaced with max(p.CreatedAt, newest+1ns)
	// so timestamps are strictly increasing within the store.
	Save(ctx context.Context, p *models.Purchase) error

	// Import inserts purchases keeping their CreatedAt. Rows whose invoice id
	// already exists are skipped. Returns the number inserted.
	Import(ctx context.Context, ps []*models.Purchase) (int, error)

	GetByInvoiceID(ctx context.Context, invoiceID string) (*models.PurchaseView, error)
	Exists(ctx context.Context, invoiceID string) (bool, error)

	// UpdateStatus changes payment and/or fulfillment status; nil leaves a field alone.
	UpdateStatus(ctx context.Context, invoiceID string, payment, fulfillment *string, now time.Time) error

	// Recent returns rows in the retention window, newest first.
	Recent(ctx context.Context, limit int) ([]*models.PurchaseView, error)
	Search(ctx context.Context, filter models.PurchaseFilter) ([]*models.PurchaseView, error)

	// InRange returns every purchase with CreatedAt in [r.Start, r.End),
	// regardless of the retention window.
	InRange(ctx context.Context, r models.DateRange) ([]*models.PurchaseView, error)

	// All returns the full history ordered by CreatedAt ascending.
	All(ctx context.Context) ([]*models.PurchaseView, error)

	// KeepRecent sets the retention window to the newest keep rows
	// (CreatedAt DESC, InvoiceID DESC). Returns how many rows left the window.
	KeepRecent(ctx context.Context, keep int) (int, error)

	Count(ctx context.Context) (int, error)
}
