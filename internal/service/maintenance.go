package service

import (
	"context"
	"database/sql"
	"fmt"

	"pennywise/internal/database"
)

// MaintenanceService houses destructive/ops actions.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all bookkeeping data. It keeps the schema intact so the app
// can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		// break parent links first so the self-referencing FK cannot
		// trip on deletion order
		if _, err := tx.ExecContext(ctx, "UPDATE ledgers SET parent_id = NULL"); err != nil {
			return fmt.Errorf("reset ledger parents: %w", err)
		}
		tables := []string{
			"ledger_access",
			"transaction_splits",
			"transactions",
			"ledgers",
			"commodities",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
