package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/salesdesk/pkg/database"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/persistence/sqlite/db"
)

const tagSeparator = ","

// PurchaseRepository implements repositories.PurchaseRepository against SQLite.
type PurchaseRepository struct {
	db *database.Database
}

// NewPurchaseRepository returns a PurchaseRepository backed by the given database.
func NewPurchaseRepository(database *database.Database) *PurchaseRepository {
	return &PurchaseRepository{db: database}
}

// Save inserts p inside a transaction that also reads the newest timestamp,
// so CreatedAt is strictly greater than every stored purchase.
func (r *PurchaseRepository) Save(ctx context.Context, p *models.Purchase) error {
	return inTx(ctx, r.db, func(q *db.Queries) error {
		latest, err := q.LatestPurchaseCreatedAt(ctx)
		if err != nil {
			return fmt.Errorf("read latest purchase: %w", err)
		}
		if p.CreatedAt.UnixNano() <= latest {
			p.CreatedAt = fromNanos(latest + 1)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		if p.UpdatedAt.Before(p.CreatedAt) {
			p.UpdatedAt = p.CreatedAt
		}
		p.InRecent = true

		id, err := q.InsertPurchase(ctx, purchaseToRow(p))
		if err != nil {
			return mapPurchaseInsertError(err, p.InvoiceID)
		}
		p.ID = id
		return nil
	})
}

// Import inserts ps keeping their timestamps, skipping invoice ids already
// stored. All inserts share one transaction.
func (r *PurchaseRepository) Import(ctx context.Context, ps []*models.Purchase) (int, error) {
	inserted := 0
	err := inTx(ctx, r.db, func(q *db.Queries) error {
		inserted = 0
		for _, p := range ps {
			exists, err := q.PurchaseExists(ctx, p.InvoiceID)
			if err != nil {
				return fmt.Errorf("check purchase %s: %w", p.InvoiceID, err)
			}
			if exists {
				continue
			}
			p.InRecent = true
			id, err := q.InsertPurchase(ctx, purchaseToRow(p))
			if err != nil {
				return mapPurchaseInsertError(err, p.InvoiceID)
			}
			p.ID = id
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetByInvoiceID returns ErrPurchaseNotFound if no purchase has the id.
func (r *PurchaseRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*models.PurchaseView, error) {
	var row db.PurchaseRow
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		row, err = q.GetPurchaseByInvoiceID(ctx, invoiceID)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", salesdomain.ErrPurchaseNotFound, invoiceID)
		}
		return nil, fmt.Errorf("query purchase: %w", err)
	}
	return rowToPurchaseView(row)
}

// Exists reports whether a purchase with the invoice id is stored.
func (r *PurchaseRepository) Exists(ctx context.Context, invoiceID string) (bool, error) {
	var exists bool
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		exists, err = q.PurchaseExists(ctx, invoiceID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("check purchase exists: %w", err)
	}
	return exists, nil
}

// UpdateStatus changes the payment and/or fulfillment status.
func (r *PurchaseRepository) UpdateStatus(ctx context.Context, invoiceID string, payment, fulfillment *string, now time.Time) error {
	params := db.UpdatePurchaseStatusParams{
		PaymentStatus:     nullString(payment),
		FulfillmentStatus: nullString(fulfillment),
		UpdatedAt:         now.UnixNano(),
		InvoiceID:         invoiceID,
	}
	var n int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		n, err = q.UpdatePurchaseStatus(ctx, params)
		return err
	})
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", salesdomain.ErrPurchaseNotFound, invoiceID)
	}
	return nil
}

// Recent returns the retention window, newest first.
func (r *PurchaseRepository) Recent(ctx context.Context, limit int) ([]*models.PurchaseView, error) {
	rows, err := r.list(ctx, func(q *db.Queries) ([]db.PurchaseRow, error) {
		return q.ListRecentPurchases(ctx, int64(limit))
	})
	if err != nil {
		return nil, fmt.Errorf("list recent purchases: %w", err)
	}
	return rowsToPurchaseViews(rows)
}

// Search scans the full history, newest first.
func (r *PurchaseRepository) Search(ctx context.Context, filter models.PurchaseFilter) ([]*models.PurchaseView, error) {
	var since int64
	if !filter.Since.IsZero() {
		since = filter.Since.UnixNano()
	}
	params := db.SearchPurchasesParams{
		Since: since,
		Query: strings.TrimSpace(filter.Query),
		Limit: int64(filter.Limit),
	}
	rows, err := r.list(ctx, func(q *db.Queries) ([]db.PurchaseRow, error) {
		return q.SearchPurchases(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("search purchases: %w", err)
	}
	return rowsToPurchaseViews(rows)
}

// InRange returns purchases with CreatedAt in [r.Start, r.End) from the full table.
func (r *PurchaseRepository) InRange(ctx context.Context, dr models.DateRange) ([]*models.PurchaseView, error) {
	if dr.IsEmpty() {
		return []*models.PurchaseView{}, nil
	}
	rows, err := r.list(ctx, func(q *db.Queries) ([]db.PurchaseRow, error) {
		return q.ListPurchasesInRange(ctx, dr.Start.UnixNano(), dr.End.UnixNano())
	})
	if err != nil {
		return nil, fmt.Errorf("list purchases in range: %w", err)
	}
	return rowsToPurchaseViews(rows)
}

// All returns the full history, oldest first.
func (r *PurchaseRepository) All(ctx context.Context) ([]*models.PurchaseView, error) {
	rows, err := r.list(ctx, func(q *db.Queries) ([]db.PurchaseRow, error) {
		return q.ListAllPurchases(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return rowsToPurchaseViews(rows)
}

// KeepRecent makes the newest keep purchases the retention window. Rows that
// should be in the window but are not (for example after keep grows) are
// restored. Nothing is deleted.
func (r *PurchaseRepository) KeepRecent(ctx context.Context, keep int) (int, error) {
	var left int64
	err := inTx(ctx, r.db, func(q *db.Queries) error {
		var err error
		if left, err = q.LeaveRecentWindow(ctx, int64(keep)); err != nil {
			return fmt.Errorf("trim recent window: %w", err)
		}
		if _, err = q.EnterRecentWindow(ctx, int64(keep)); err != nil {
			return fmt.Errorf("restore recent window: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(left), nil
}

// Count returns the number of stored purchases.
func (r *PurchaseRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		n, err = q.CountPurchases(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return int(n), nil
}

func (r *PurchaseRepository) list(ctx context.Context, query func(q *db.Queries) ([]db.PurchaseRow, error)) ([]db.PurchaseRow, error) {
	var rows []db.PurchaseRow
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		rows, err = query(q)
		return err
	})
	return rows, err
}

func mapPurchaseInsertError(err error, invoiceID string) error {
	switch classify(err) {
	case uniqueViolation:
		return fmt.Errorf("%w: %s", salesdomain.ErrDuplicateInvoice, invoiceID)
	case foreignKeyViolation:
		return fmt.Errorf("%w: purchase %s", salesdomain.ErrReferenceMismatch, invoiceID)
	case checkViolation:
		return fmt.Errorf("%w: %w", salesdomain.ErrValidation, err)
	}
	return fmt.Errorf("insert purchase: %w", err)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func purchaseToRow(p *models.Purchase) db.SalesPurchase {
	return db.SalesPurchase{
		InvoiceID:         p.InvoiceID,
		ProductSku:        p.ProductSKU.String(),
		CustomerID:        p.CustomerID.String(),
		Quantity:          p.Quantity,
		UnitPrice:         p.UnitPrice.String(),
		Discount:          p.Discount.String(),
		Tax:               p.Tax.String(),
		Total:             p.Total.String(),
		Currency:          p.Currency,
		PaymentStatus:     p.PaymentStatus,
		PaymentTerms:      p.PaymentTerms,
		PaymentMethod:     p.PaymentMethod,
		FulfillmentStatus: p.FulfillmentStatus,
		Channel:           p.Channel,
		Source:            p.Source,
		Region:            p.Region,
		SalesRep:          p.SalesRep,
		Tags:              strings.Join(p.Tags, tagSeparator),
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt.UnixNano(),
		UpdatedAt:         p.UpdatedAt.UnixNano(),
		InRecent:          p.InRecent,
	}
}

func rowsToPurchaseViews(rows []db.PurchaseRow) ([]*models.PurchaseView, error) {
	views := make([]*models.PurchaseView, 0, len(rows))
	for _, row := range rows {
		v, err := rowToPurchaseView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// rowToPurchaseView maps a db.PurchaseRow to a domain models.PurchaseView.
func rowToPurchaseView(row db.PurchaseRow) (*models.PurchaseView, error) {
	customerID, err := uuid.Parse(row.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("purchase %s: bad customer id: %w", row.InvoiceID, err)
	}
	amounts := make([]decimal.Decimal, 4)
	for i, s := range []string{row.UnitPrice, row.Discount, row.Tax, row.Total} {
		if amounts[i], err = decimal.NewFromString(s); err != nil {
			return nil, fmt.Errorf("purchase %s: bad amount %q: %w", row.InvoiceID, s, err)
		}
	}

	var tags []string
	if row.Tags != "" {
		tags = strings.Split(row.Tags, tagSeparator)
	}

	return &models.PurchaseView{
		Purchase: models.Purchase{
			ID:                row.ID,
			InvoiceID:         row.InvoiceID,
			ProductSKU:        models.SKU(row.ProductSku),
			CustomerID:        customerID,
			Quantity:          row.Quantity,
			UnitPrice:         amounts[0],
			Discount:          amounts[1],
			Tax:               amounts[2],
			Total:             amounts[3],
			Currency:          row.Currency,
			PaymentStatus:     row.PaymentStatus,
			PaymentTerms:      row.PaymentTerms,
			PaymentMethod:     row.PaymentMethod,
			FulfillmentStatus: row.FulfillmentStatus,
			Channel:           row.Channel,
			Source:            row.Source,
			Region:            row.Region,
			SalesRep:          row.SalesRep,
			Tags:              tags,
			Notes:             row.Notes,
			CreatedAt:         fromNanos(row.CreatedAt),
			UpdatedAt:         fromNanos(row.UpdatedAt),
			InRecent:          row.InRecent,
		},
		ProductName:   row.ProductName,
		CustomerName:  row.CustomerName,
		CustomerEmail: row.CustomerEmail,
	}, nil
}
