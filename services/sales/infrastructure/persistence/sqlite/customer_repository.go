package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/salesdesk/pkg/database"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/domain/models"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/persistence/sqlite/db"
)

// CustomerRepository implements repositories.CustomerRepository against SQLite.
type CustomerRepository struct {
	db *database.Database
}

// NewCustomerRepository returns a CustomerRepository backed by the given database.
func NewCustomerRepository(database *database.Database) *CustomerRepository {
	return &CustomerRepository{db: database}
}

// Save inserts a new customer. Returns ErrDuplicateEmail when the email is taken.
func (r *CustomerRepository) Save(ctx context.Context, c *models.Customer) error {
	row := customerToRow(c)
	err := run(ctx, r.db, func(q *db.Queries) error {
		return q.InsertCustomer(ctx, row)
	})
	if err != nil {
		if classify(err) == uniqueViolation {
			return fmt.Errorf("%w: %s", salesdomain.ErrDuplicateEmail, c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update persists every field except identity and creation time.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	row := customerToRow(c)
	var n int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		n, err = q.UpdateCustomer(ctx, row)
		return err
	})
	if err != nil {
		if classify(err) == uniqueViolation {
			return fmt.Errorf("%w: %s", salesdomain.ErrDuplicateEmail, c.Email)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", salesdomain.ErrCustomerNotFound, c.ID)
	}
	return nil
}

// GetByID returns ErrCustomerNotFound if no customer has the id.
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return r.one(ctx, id.String(), (*db.Queries).GetCustomerByID)
}

// FindByEmail matches case-insensitively. Empty emails never match.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: empty email", salesdomain.ErrCustomerNotFound)
	}
	return r.one(ctx, email, (*db.Queries).GetCustomerByEmail)
}

// FindByName returns the oldest customer with exactly this name.
func (r *CustomerRepository) FindByName(ctx context.Context, name string) (*models.Customer, error) {
	return r.one(ctx, name, (*db.Queries).GetCustomerByName)
}

// Search lists customers whose name, email or company contains query.
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	params := db.SearchCustomersParams{
		Query: strings.TrimSpace(query),
		Limit: int64(limit),
	}
	var rows []db.SalesCustomer
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		rows, err = q.SearchCustomers(ctx, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	customers := make([]*models.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := rowToCustomer(row)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// Count returns the number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		n, err = q.CountCustomers(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return int(n), nil
}

// one runs a single-row lookup by key.
func (r *CustomerRepository) one(
	ctx context.Context,
	key string,
	get func(*db.Queries, context.Context, string) (db.SalesCustomer, error),
) (*models.Customer, error) {
	var row db.SalesCustomer
	err := run(ctx, r.db, func(q *db.Queries) (err error) {
		row, err = get(q, ctx, key)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", salesdomain.ErrCustomerNotFound, key)
		}
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return rowToCustomer(row)
}

func customerToRow(c *models.Customer) db.SalesCustomer {
	row := db.SalesCustomer{
		ID:           c.ID.String(),
		Name:         c.Name,
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:        c.Phone,
		Company:      c.Company,
		Industry:     c.Industry,
		Segment:      c.Segment,
		Status:       c.Status,
		LeadSource:   c.LeadSource,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		State:        c.State,
		Country:      c.Country,
		PostalCode:   c.PostalCode,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt.UnixNano(),
		UpdatedAt:    c.UpdatedAt.UnixNano(),
	}
	if c.LastContactAt != nil {
		row.LastContactAt = sql.NullInt64{Int64: c.LastContactAt.UnixNano(), Valid: true}
	}
	return row
}

// rowToCustomer maps a db.SalesCustomer to a domain models.Customer.
func rowToCustomer(row db.SalesCustomer) (*models.Customer, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("customer %q: bad id: %w", row.ID, err)
	}
	c := &models.Customer{
		ID:           id,
		Name:         row.Name,
		Email:        row.Email,
		Phone:        row.Phone,
		Company:      row.Company,
		Industry:     row.Industry,
		Segment:      row.Segment,
		Status:       row.Status,
		LeadSource:   row.LeadSource,
		AddressLine1: row.AddressLine1,
		AddressLine2: row.AddressLine2,
		City:         row.City,
		State:        row.State,
		Country:      row.Country,
		PostalCode:   row.PostalCode,
		Notes:        row.Notes,
		CreatedAt:    fromNanos(row.CreatedAt),
		UpdatedAt:    fromNanos(row.UpdatedAt),
	}
	if row.LastContactAt.Valid {
		t := fromNanos(row.LastContactAt.Int64)
		c.LastContactAt = &t
	}
	return c, nil
}
