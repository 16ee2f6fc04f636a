package repository

import (
	"context"
	"database/sql"
	"errors"

	"pennywise/internal/ledger"
)

// CommodityRepo handles commodities.
type CommodityRepo struct {
	db DBTX
}

func NewCommodityRepo(db DBTX) *CommodityRepo { return &CommodityRepo{db: db} }

// Insert adds a commodity. The UNIQUE(type, symbol) constraint makes
// concurrent inserts of the same pair collapse into one row; the loser is
// ignored and should re-read.
func (r *CommodityRepo) Insert(ctx context.Context, c ledger.Commodity) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO commodities(id, type, symbol, title, created_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(type, symbol) DO NOTHING;
	`, c.ID, int(c.Type), c.Symbol, c.Title)
	return err
}

func (r *CommodityRepo) Get(ctx context.Context, id string) (*ledger.Commodity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, type, symbol, title FROM commodities WHERE id = ?`, id)
	return scanCommodity(row)
}

// GetBySymbol looks a commodity up by its (type, symbol) identity.
// Returns (nil, nil) when absent.
func (r *CommodityRepo) GetBySymbol(ctx context.Context, typ ledger.CommodityType, symbol string) (*ledger.Commodity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, type, symbol, title FROM commodities WHERE type = ? AND symbol = ?`, int(typ), symbol)
	return scanCommodity(row)
}

func scanCommodity(row *sql.Row) (*ledger.Commodity, error) {
	var c ledger.Commodity
	var typ int
	err := row.Scan(&c.ID, &typ, &c.Symbol, &c.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Type = ledger.CommodityType(typ)
	return &c, nil
}
