package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ghuser/salesdesk/pkg/database"
	salesdomain "github.com/ghuser/salesdesk/services/sales/domain"
	"github.com/ghuser/salesdesk/services/sales/infrastructure/persistence/sqlite/db"
)

type constraintKind int

const (
	notConstraint constraintKind = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
)

// classify maps a driver error to the constraint it violated.
func classify(err error) constraintKind {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return notConstraint
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return uniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return foreignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return checkViolation
	}
	// Primary code only: fall back to the message.
	if sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := strings.ToUpper(sqlErr.Error())
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return uniqueViolation
		case strings.Contains(msg, "FOREIGN KEY"):
			return foreignKeyViolation
		default:
			return checkViolation
		}
	}
	return notConstraint
}

// run executes fn on the shared connection, retrying once if the store is busy.
func run(ctx context.Context, d *database.Database, fn func(q *db.Queries) error) error {
	return unavailable(d.Retry(ctx, func(context.Context) error {
		return fn(db.New(d.DB()))
	}))
}

// inTx is run for statements that must share one transaction.
func inTx(ctx context.Context, d *database.Database, fn func(q *db.Queries) error) error {
	return unavailable(d.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(db.New(tx))
	}))
}

// unavailable tags errors the database gave up on with ErrStoreUnavailable.
func unavailable(err error) error {
	if err == nil || !errors.Is(err, database.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", salesdomain.ErrStoreUnavailable, err)
}
