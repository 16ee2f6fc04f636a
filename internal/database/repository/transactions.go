package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pennywise/internal/ledger"
)

// TransactionRepo handles transactions and their splits. Split lifecycle is
// driven entirely by the owning transaction; deleting a transaction cascades
// to its splits.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t ledger.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, datetime, num, description, commodity_id, disabled, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, t.ID, t.Datetime, t.Num, t.Description, t.CommodityID, t.Disabled)
	return err
}

func (r *TransactionRepo) InsertSplit(ctx context.Context, s ledger.Split) error {
	var reconciled sql.NullTime
	if s.ReconciledDate != nil {
		reconciled = sql.NullTime{Time: *s.ReconciledDate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transaction_splits(id, transaction_id, ledger_id, value, quantity, reconciled, reconciled_date)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, s.ID, s.TransactionID, s.LedgerID, s.Value.String(), s.Quantity.String(), s.Reconciled, reconciled)
	return err
}

// Get loads a transaction with its splits in insertion order.
// Returns (nil, nil) when absent.
func (r *TransactionRepo) Get(ctx context.Context, id string) (*ledger.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, datetime, num, description, commodity_id, disabled FROM transactions WHERE id = ?`, id)
	var t ledger.Transaction
	err := row.Scan(&t.ID, &t.Datetime, &t.Num, &t.Description, &t.CommodityID, &t.Disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Splits, err = r.splits(ctx, `WHERE transaction_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a transaction; the splits go with it via cascade.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	return err
}

func (r *TransactionRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET disabled = ? WHERE id = ?`, disabled, id)
	return err
}

// UnreconciledByLedger returns the splits still awaiting reconciliation in
// one ledger, oldest transaction first.
func (r *TransactionRepo) UnreconciledByLedger(ctx context.Context, ledgerID string) ([]ledger.Split, error) {
	return r.splits(ctx, `WHERE ledger_id = ? AND reconciled = 0 ORDER BY rowid`, ledgerID)
}

// GetSplit returns one split by id, or (nil, nil) when absent.
func (r *TransactionRepo) GetSplit(ctx context.Context, splitID string) (*ledger.Split, error) {
	splits, err := r.splits(ctx, `WHERE id = ?`, splitID)
	if err != nil {
		return nil, err
	}
	if len(splits) == 0 {
		return nil, nil
	}
	return &splits[0], nil
}

// MarkReconciled flags a split as confirmed against an external statement.
func (r *TransactionRepo) MarkReconciled(ctx context.Context, splitID string, when time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transaction_splits SET reconciled = 1, reconciled_date = ? WHERE id = ?`, when, splitID)
	return err
}

func (r *TransactionRepo) splits(ctx context.Context, where string, args ...any) ([]ledger.Split, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, transaction_id, ledger_id, value, quantity, reconciled, reconciled_date FROM transaction_splits `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Split
	for rows.Next() {
		var s ledger.Split
		var value, quantity string
		var reconciled sql.NullTime
		if err := rows.Scan(&s.ID, &s.TransactionID, &s.LedgerID, &value, &quantity, &s.Reconciled, &reconciled); err != nil {
			return nil, err
		}
		if s.Value, err = scanDecimal(value); err != nil {
			return nil, err
		}
		if s.Quantity, err = scanDecimal(quantity); err != nil {
			return nil, err
		}
		if reconciled.Valid {
			t := reconciled.Time
			s.ReconciledDate = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Header returns the description and datetime of one transaction without
// loading its splits, used when pairing statement lines with splits.
func (r *TransactionRepo) Header(ctx context.Context, transactionID string) (string, time.Time, error) {
	var desc string
	var at time.Time
	err := r.db.QueryRowContext(ctx, `SELECT description, datetime FROM transactions WHERE id = ?`, transactionID).Scan(&desc, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ledger.ErrNotFound
	}
	return desc, at, err
}
