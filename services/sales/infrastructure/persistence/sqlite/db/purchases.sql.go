package db

import (
	"context"
	"database/sql"
)

const purchaseRowSelect = `SELECT p.id, p.invoice_id, p.product_sku, p.customer_id, p.quantity, p.unit_price,
       p.discount, p.tax, p.total, p.currency, p.payment_status, p.payment_terms,
       p.payment_method, p.fulfillment_status, p.channel, p.source, p.region, p.sales_rep,
       p.tags, p.notes, p.created_at, p.updated_at, p.in_recent,
       COALESCE(pr.name, ''), COALESCE(c.name, ''), COALESCE(c.email, '')
FROM purchases p
LEFT JOIN products pr ON pr.sku = p.product_sku
LEFT JOIN customers c ON c.id = p.customer_id`

func scanPurchaseRow(row interface{ Scan(...interface{}) error }) (PurchaseRow, error) {
	var i PurchaseRow
	err := row.Scan(
		&i.ID,
		&i.InvoiceID,
		&i.ProductSku,
		&i.CustomerID,
		&i.Quantity,
		&i.UnitPrice,
		&i.Discount,
		&i.Tax,
		&i.Total,
		&i.Currency,
		&i.PaymentStatus,
		&i.PaymentTerms,
		&i.PaymentMethod,
		&i.FulfillmentStatus,
		&i.Channel,
		&i.Source,
		&i.Region,
		&i.SalesRep,
		&i.Tags,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.InRecent,
		&i.ProductName,
		&i.CustomerName,
		&i.CustomerEmail,
	)
	return i, err
}

func collectPurchaseRows(rows *sql.Rows) ([]PurchaseRow, error) {
	defer rows.Close()
	var items []PurchaseRow
	for rows.Next() {
		i, err := scanPurchaseRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const latestPurchaseCreatedAt = `-- name: LatestPurchaseCreatedAt :one
SELECT COALESCE(MAX(created_at), 0) FROM purchases
`

func (q *Queries) LatestPurchaseCreatedAt(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, latestPurchaseCreatedAt)
	var latest int64
	err := row.Scan(&latest)
	return latest, err
}

const insertPurchase = `-- name: InsertPurchase :one
INSERT INTO purchases (
    invoice_id, product_sku, customer_id, quantity, unit_price, discount, tax, total, currency,
    payment_status, payment_terms, payment_method, fulfillment_status, channel, source, region,
    sales_rep, tags, notes, created_at, updated_at, in_recent
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

func (q *Queries) InsertPurchase(ctx context.Context, arg SalesPurchase) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertPurchase,
		arg.InvoiceID,
		arg.ProductSku,
		arg.CustomerID,
		arg.Quantity,
		arg.UnitPrice,
		arg.Discount,
		arg.Tax,
		arg.Total,
		arg.Currency,
		arg.PaymentStatus,
		arg.PaymentTerms,
		arg.PaymentMethod,
		arg.FulfillmentStatus,
		arg.Channel,
		arg.Source,
		arg.Region,
		arg.SalesRep,
		arg.Tags,
		arg.Notes,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.InRecent,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const purchaseExists = `-- name: PurchaseExists :one
SELECT EXISTS (SELECT 1 FROM purchases WHERE invoice_id = ?)
`

func (q *Queries) PurchaseExists(ctx context.Context, invoiceID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, purchaseExists, invoiceID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getPurchaseByInvoiceID = `-- name: GetPurchaseByInvoiceID :one
` + purchaseRowSelect + `
WHERE p.invoice_id = ?
`

func (q *Queries) GetPurchaseByInvoiceID(ctx context.Context, invoiceID string) (PurchaseRow, error) {
	return scanPurchaseRow(q.db.QueryRowContext(ctx, getPurchaseByInvoiceID, invoiceID))
}

const updatePurchaseStatus = `-- name: UpdatePurchaseStatus :execrows
UPDATE purchases
SET payment_status = COALESCE(?, payment_status),
    fulfillment_status = COALESCE(?, fulfillment_status),
    updated_at = ?
WHERE invoice_id = ?
`

type UpdatePurchaseStatusParams struct {
	PaymentStatus     sql.NullString
	FulfillmentStatus sql.NullString
	UpdatedAt         int64
	InvoiceID         string
}

func (q *Queries) UpdatePurchaseStatus(ctx context.Context, arg UpdatePurchaseStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePurchaseStatus,
		arg.PaymentStatus,
		arg.FulfillmentStatus,
		arg.UpdatedAt,
		arg.InvoiceID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listRecentPurchases = `-- name: ListRecentPurchases :many
` + purchaseRowSelect + `
WHERE p.in_recent = 1
ORDER BY p.created_at DESC, p.invoice_id DESC
LIMIT ?
`

func (q *Queries) ListRecentPurchases(ctx context.Context, limit int64) ([]PurchaseRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecentPurchases, limitOrAll(limit))
	if err != nil {
		return nil, err
	}
	return collectPurchaseRows(rows)
}

const searchPurchases = `-- name: SearchPurchases :many
` + purchaseRowSelect + `
WHERE p.created_at >= ?
  AND (? = ''
       OR p.invoice_id LIKE '%' || ? || '%' ESCAPE '\'
       OR p.product_sku LIKE '%' || ? || '%' ESCAPE '\'
       OR pr.name LIKE '%' || ? || '%' ESCAPE '\'
       OR c.name LIKE '%' || ? || '%' ESCAPE '\'
       OR c.email LIKE '%' || ? || '%' ESCAPE '\'
       OR p.tags LIKE '%' || ? || '%' ESCAPE '\'
       OR p.notes LIKE '%' || ? || '%' ESCAPE '\')
ORDER BY p.created_at DESC, p.invoice_id DESC
LIMIT ?
`

type SearchPurchasesParams struct {
	Since int64
	Query string
	Limit int64
}

func (q *Queries) SearchPurchases(ctx context.Context, arg SearchPurchasesParams) ([]PurchaseRow, error) {
	like := escapeLike(arg.Query)
	rows, err := q.db.QueryContext(ctx, searchPurchases,
		arg.Since,
		arg.Query, like, like, like, like, like, like, like,
		limitOrAll(arg.Limit),
	)
	if err != nil {
		return nil, err
	}
	return collectPurchaseRows(rows)
}

const listPurchasesInRange = `-- name: ListPurchasesInRange :many
` + purchaseRowSelect + `
WHERE p.created_at >= ? AND p.created_at < ?
ORDER BY p.created_at, p.invoice_id
`

func (q *Queries) ListPurchasesInRange(ctx context.Context, start, end int64) ([]PurchaseRow, error) {
	rows, err := q.db.QueryContext(ctx, listPurchasesInRange, start, end)
	if err != nil {
		return nil, err
	}
	return collectPurchaseRows(rows)
}

const listAllPurchases = `-- name: ListAllPurchases :many
` + purchaseRowSelect + `
ORDER BY p.created_at, p.invoice_id
`

func (q *Queries) ListAllPurchases(ctx context.Context) ([]PurchaseRow, error) {
	rows, err := q.db.QueryContext(ctx, listAllPurchases)
	if err != nil {
		return nil, err
	}
	return collectPurchaseRows(rows)
}

const leaveRecentWindow = `-- name: LeaveRecentWindow :execrows
UPDATE purchases SET in_recent = 0
WHERE in_recent = 1
  AND id NOT IN (SELECT id FROM purchases ORDER BY created_at DESC, invoice_id DESC LIMIT ?)
`

func (q *Queries) LeaveRecentWindow(ctx context.Context, keep int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, leaveRecentWindow, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const enterRecentWindow = `-- name: EnterRecentWindow :execrows
UPDATE purchases SET in_recent = 1
WHERE in_recent = 0
  AND id IN (SELECT id FROM purchases ORDER BY created_at DESC, invoice_id DESC LIMIT ?)
`

func (q *Queries) EnterRecentWindow(ctx context.Context, keep int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, enterRecentWindow, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countPurchases = `-- name: CountPurchases :one
SELECT COUNT(*) FROM purchases
`

func (q *Queries) CountPurchases(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPurchases)
	var count int64
	err := row.Scan(&count)
	return count, err
}
