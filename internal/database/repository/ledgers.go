package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"pennywise/internal/ledger"
)

// LedgerRepo handles ledger nodes. The tree is stored flat: every row
// carries a parent_id and children are derived by query, never by live
// object links.
type LedgerRepo struct {
	db DBTX
}

func NewLedgerRepo(db DBTX) *LedgerRepo { return &LedgerRepo{db: db} }

const ledgerColumns = `id, kind, owner_id, remote_url, title, code, description, notes,
 placeholder, hidden, ledger_type, ledger_subtype, commodity_id, parent_id, balance`

func (r *LedgerRepo) Insert(ctx context.Context, l ledger.Ledger) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO ledgers(`+ledgerColumns+`, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, l.ID, string(l.Kind), nullable(l.OwnerID), nullable(l.RemoteURL), l.Title, l.Code,
		l.Description, l.Notes, l.Placeholder, l.Hidden, int(l.Type), int(l.Subtype),
		l.CommodityID, nullable(l.ParentID), l.Balance.String())
	return err
}

func (r *LedgerRepo) Get(ctx context.Context, id string) (*ledger.Ledger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledgers WHERE id = ?`, id)
	return scanLedger(row)
}

// GetByOwner returns the user-root ledger owned by ownerID, or (nil, nil).
func (r *LedgerRepo) GetByOwner(ctx context.Context, ownerID string) (*ledger.Ledger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledgers WHERE owner_id = ?`, ownerID)
	return scanLedger(row)
}

// Children returns the direct children of parentID in display order.
func (r *LedgerRepo) Children(ctx context.Context, parentID string) ([]ledger.Ledger, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ledgerColumns+` FROM ledgers WHERE parent_id = ? ORDER BY title`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Ledger
	for rows.Next() {
		l, err := scanLedgerRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// HasChildren reports whether any ledger names id as its parent.
func (r *LedgerRepo) HasChildren(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM ledgers WHERE parent_id = ?`, id).Scan(&n)
	return n > 0, err
}

// Balance reads the running balance for one ledger.
func (r *LedgerRepo) Balance(ctx context.Context, id string) (decimal.Decimal, error) {
	var s string
	if err := r.db.QueryRowContext(ctx, `SELECT balance FROM ledgers WHERE id = ?`, id).Scan(&s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ledger.ErrNotFound
		}
		return decimal.Zero, err
	}
	return scanDecimal(s)
}

// SetBalance writes a recomputed balance. Only the service layer's split
// attach/detach paths may call this.
func (r *LedgerRepo) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ledgers SET balance = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, balance.String(), id)
	return err
}

func (r *LedgerRepo) SetHidden(ctx context.Context, id string, hidden bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ledgers SET hidden = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, hidden, id)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLedgerFrom(sc scanner) (*ledger.Ledger, error) {
	var l ledger.Ledger
	var kind, balance string
	var owner, remote, parent sql.NullString
	var typ, subtype int
	err := sc.Scan(&l.ID, &kind, &owner, &remote, &l.Title, &l.Code, &l.Description, &l.Notes,
		&l.Placeholder, &l.Hidden, &typ, &subtype, &l.CommodityID, &parent, &balance)
	if err != nil {
		return nil, err
	}
	l.Kind = ledger.Kind(kind)
	l.OwnerID = owner.String
	l.RemoteURL = remote.String
	l.ParentID = parent.String
	l.Type = ledger.LedgerType(typ)
	l.Subtype = ledger.LedgerSubtype(subtype)
	l.Balance, err = scanDecimal(balance)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanLedger(row *sql.Row) (*ledger.Ledger, error) {
	l, err := scanLedgerFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func scanLedgerRows(rows *sql.Rows) (*ledger.Ledger, error) {
	return scanLedgerFrom(rows)
}
