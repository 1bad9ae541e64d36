package db

import (
	"context"
)

const productColumns = `id, sku, name, category, price, cost, tax_rate, unit, description, features, best_for, status, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (SalesProduct, error) {
	var i SalesProduct
	err := row.Scan(
		&i.ID,
		&i.Sku,
		&i.Name,
		&i.Category,
		&i.Price,
		&i.Cost,
		&i.TaxRate,
		&i.Unit,
		&i.Description,
		&i.Features,
		&i.BestFor,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProduct = `-- name: InsertProduct :one
INSERT INTO products (sku, name, category, price, cost, tax_rate, unit, description, features, best_for, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type InsertProductParams struct {
	Sku         string
	Name        string
	Category    string
	Price       string
	Cost        string
	TaxRate     string
	Unit        string
	Description string
	Features    string
	BestFor     string
	Status      string
	CreatedAt   int64
	UpdatedAt   int64
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertProduct,
		arg.Sku,
		arg.Name,
		arg.Category,
		arg.Price,
		arg.Cost,
		arg.TaxRate,
		arg.Unit,
		arg.Description,
		arg.Features,
		arg.BestFor,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateProduct = `-- name: UpdateProduct :execrows
UPDATE products
SET name = ?, category = ?, price = ?, cost = ?, tax_rate = ?, unit = ?,
    description = ?, features = ?, best_for = ?, status = ?, updated_at = ?
WHERE sku = ?
`

type UpdateProductParams struct {
	Name        string
	Category    string
	Price       string
	Cost        string
	TaxRate     string
	Unit        string
	Description string
	Features    string
	BestFor     string
	Status      string
	UpdatedAt   int64
	Sku         string
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateProduct,
		arg.Name,
		arg.Category,
		arg.Price,
		arg.Cost,
		arg.TaxRate,
		arg.Unit,
		arg.Description,
		arg.Features,
		arg.BestFor,
		arg.Status,
		arg.UpdatedAt,
		arg.Sku,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProductBySKU = `-- name: GetProductBySKU :one
SELECT ` + productColumns + ` FROM products WHERE sku = ?
`

func (q *Queries) GetProductBySKU(ctx context.Context, sku string) (SalesProduct, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductBySKU, sku))
}

const searchProducts = `-- name: SearchProducts :many
SELECT ` + productColumns + ` FROM products
WHERE (? = '' OR name LIKE '%' || ? || '%' ESCAPE '\' OR sku LIKE '%' || ? || '%' ESCAPE '\' OR category LIKE '%' || ? || '%' ESCAPE '\')
  AND (? = '' OR category = ? COLLATE NOCASE)
  AND (? = '' OR status = ?)
ORDER BY name, sku
LIMIT ?
`

type SearchProductsParams struct {
	Query    string
	Category string
	Status   string
	Limit    int64
}

func (q *Queries) SearchProducts(ctx context.Context, arg SearchProductsParams) ([]SalesProduct, error) {
	like := escapeLike(arg.Query)
	rows, err := q.db.QueryContext(ctx, searchProducts,
		arg.Query, like, like, like,
		arg.Category, arg.Category,
		arg.Status, arg.Status,
		limitOrAll(arg.Limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SalesProduct
	for rows.Next() {
		i, err := scanProduct(rows)
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

const countProducts = `-- name: CountProducts :one
SELECT COUNT(*) FROM products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}
