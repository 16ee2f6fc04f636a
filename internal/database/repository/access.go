package repository

import (
	"context"
	"database/sql"
	"errors"

	"pennywise/internal/ledger"
)

// AccessRepo handles per-(user, ledger) grants.
type AccessRepo struct {
	db DBTX
}

func NewAccessRepo(db DBTX) *AccessRepo { return &AccessRepo{db: db} }

func (r *AccessRepo) Upsert(ctx context.Context, a ledger.Access) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO ledger_access(ledger_id, user_id, can_read, can_write, can_write_all)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(ledger_id, user_id) DO UPDATE SET
	 can_read=excluded.can_read,
	 can_write=excluded.can_write,
	 can_write_all=excluded.can_write_all;
	`, a.LedgerID, a.UserID, a.Read, a.Write, a.WriteAll)
	return err
}

// Get returns the grant for (ledger, user), or (nil, nil) when no explicit
// grant exists.
func (r *AccessRepo) Get(ctx context.Context, ledgerID, userID string) (*ledger.Access, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT ledger_id, user_id, can_read, can_write, can_write_all
	FROM ledger_access WHERE ledger_id = ? AND user_id = ?`, ledgerID, userID)
	var a ledger.Access
	err := row.Scan(&a.LedgerID, &a.UserID, &a.Read, &a.Write, &a.WriteAll)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
