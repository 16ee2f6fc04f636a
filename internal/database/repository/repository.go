// Package repository holds the SQL for each table. Repositories are thin:
// validation and balance rules live in the service layer, which runs
// repositories against a *sql.Tx when several writes must land atomically.
package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// DBTX is the subset of database/sql that repositories need. Both *sql.DB
// and *sql.Tx satisfy it, so a repository can be bound to a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanDecimal parses a TEXT amount column. Amounts are stored as decimal
// strings; binary floating point never touches them.
func scanDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
