package db

import (
	"context"
	"database/sql"
)

const customerColumns = `id, name, email, phone, company, industry, segment, status, lead_source, address_line1, address_line2, city, state, country, postal_code, notes, last_contact_at, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (SalesCustomer, error) {
	var i SalesCustomer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Company,
		&i.Industry,
		&i.Segment,
		&i.Status,
		&i.LeadSource,
		&i.AddressLine1,
		&i.AddressLine2,
		&i.City,
		&i.State,
		&i.Country,
		&i.PostalCode,
		&i.Notes,
		&i.LastContactAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectCustomers(rows *sql.Rows) ([]SalesCustomer, error) {
	defer rows.Close()
	var items []SalesCustomer
	for rows.Next() {
		i, err := scanCustomer(rows)
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

const insertCustomer = `-- name: InsertCustomer :exec
INSERT INTO customers (` + customerColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertCustomer(ctx context.Context, arg SalesCustomer) error {
	_, err := q.db.ExecContext(ctx, insertCustomer,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Company,
		arg.Industry,
		arg.Segment,
		arg.Status,
		arg.LeadSource,
		arg.AddressLine1,
		arg.AddressLine2,
		arg.City,
		arg.State,
		arg.Country,
		arg.PostalCode,
		arg.Notes,
		arg.LastContactAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateCustomer = `-- name: UpdateCustomer :execrows
UPDATE customers
SET name = ?, email = ?, phone = ?, company = ?, industry = ?, segment = ?, status = ?,
    lead_source = ?, address_line1 = ?, address_line2 = ?, city = ?, state = ?, country = ?,
    postal_code = ?, notes = ?, last_contact_at = ?, updated_at = ?
WHERE id = ?
`

func (q *Queries) UpdateCustomer(ctx context.Context, arg SalesCustomer) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCustomer,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Company,
		arg.Industry,
		arg.Segment,
		arg.Status,
		arg.LeadSource,
		arg.AddressLine1,
		arg.AddressLine2,
		arg.City,
		arg.State,
		arg.Country,
		arg.PostalCode,
		arg.Notes,
		arg.LastContactAt,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getCustomerByID = `-- name: GetCustomerByID :one
SELECT ` + customerColumns + ` FROM customers WHERE id = ?
`

func (q *Queries) GetCustomerByID(ctx context.Context, id string) (SalesCustomer, error) {
	return scanCustomer(q.db.QueryRowContext(ctx, getCustomerByID, id))
}

const getCustomerByEmail = `-- name: GetCustomerByEmail :one
SELECT ` + customerColumns + ` FROM customers WHERE email <> '' AND email = lower(?)
`

func (q *Queries) GetCustomerByEmail(ctx context.Context, email string) (SalesCustomer, error) {
	return scanCustomer(q.db.QueryRowContext(ctx, getCustomerByEmail, email))
}

const getCustomerByName = `-- name: GetCustomerByName :one
SELECT ` + customerColumns + ` FROM customers WHERE name = ? ORDER BY created_at, id LIMIT 1
`

func (q *Queries) GetCustomerByName(ctx context.Context, name string) (SalesCustomer, error) {
	return scanCustomer(q.db.QueryRowContext(ctx, getCustomerByName, name))
}

const searchCustomers = `-- name: SearchCustomers :many
SELECT ` + customerColumns + ` FROM customers
WHERE (? = '' OR name LIKE '%' || ? || '%' ESCAPE '\' OR email LIKE '%' || ? || '%' ESCAPE '\' OR company LIKE '%' || ? || '%' ESCAPE '\')
ORDER BY name, id
LIMIT ?
`

type SearchCustomersParams struct {
	Query string
	Limit int64
}

func (q *Queries) SearchCustomers(ctx context.Context, arg SearchCustomersParams) ([]SalesCustomer, error) {
	like := escapeLike(arg.Query)
	rows, err := q.db.QueryContext(ctx, searchCustomers,
		arg.Query, like, like, like,
		limitOrAll(arg.Limit),
	)
	if err != nil {
		return nil, err
	}
	return collectCustomers(rows)
}

const countCustomers = `-- name: CountCustomers :one
SELECT COUNT(*) FROM customers
`

func (q *Queries) CountCustomers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCustomers)
	var count int64
	err := row.Scan(&count)
	return count, err
}
