package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pennywise/internal/ledger"
)

func TestResetWipesEverything(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	_, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: f.ledgerByTitle(t, "Bank").ID, Value: dec("-10")},
		{LedgerID: f.ledgerByTitle(t, "Food").ID, Value: dec("10")},
	})
	require.NoError(t, err)

	require.NoError(t, (&MaintenanceService{DB: f.DB}).Reset(ctx))

	for _, table := range []string{"commodities", "ledgers", "transactions", "transaction_splits", "ledger_access"} {
		var count int
		require.NoError(t, f.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count))
		require.Zero(t, count, "table %s", table)
	}

	// The schema survives: a fresh user can start over.
	usd, err := f.Commodities.Resolve(ctx, ledger.Currency, "USD")
	require.NoError(t, err)
	_, err = f.Tree.CreateUserRoot(ctx, "alice", usd.ID)
	require.NoError(t, err)
}
