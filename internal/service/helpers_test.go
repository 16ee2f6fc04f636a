package service

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"pennywise/internal/database"
	"pennywise/internal/ledger"
)

// newTestDB migrates and opens a throwaway sqlite database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fixture is a migrated database with one user, a currency and the starter
// chart already in place.
type fixture struct {
	DB          *sql.DB
	Commodities *CommodityService
	Tree        *LedgerTreeService
	Engine      *TransactionEngine

	USD  *ledger.Commodity
	Root *ledger.Ledger
	rows []ledger.TreeRow
}

func newFixture(t *testing.T, owner string) *fixture {
	t.Helper()
	ctx := context.Background()

	db := newTestDB(t)
	f := &fixture{
		DB:          db,
		Commodities: &CommodityService{DB: db, Log: quietLog()},
		Tree:        &LedgerTreeService{DB: db, Log: quietLog()},
		Engine:      &TransactionEngine{DB: db, Log: quietLog()},
	}

	usd, err := f.Commodities.Resolve(ctx, ledger.Currency, "USD")
	require.NoError(t, err)
	f.USD = usd

	root, err := f.Tree.CreateUserRoot(ctx, owner, usd.ID)
	require.NoError(t, err)
	f.Root = root

	require.NoError(t, f.Tree.SeedDefaultChart(ctx, root.ID))

	f.rows, err = f.Tree.ListTree(ctx, root.ID, true)
	require.NoError(t, err)
	return f
}

// ledgerByTitle finds a seeded ledger in the fixture's tree.
func (f *fixture) ledgerByTitle(t *testing.T, title string) *ledger.Ledger {
	t.Helper()
	for _, r := range f.rows {
		if r.Ledger.Title == title {
			return r.Ledger
		}
	}
	t.Fatalf("ledger %q not found in seeded chart", title)
	return nil
}

// balance re-reads a ledger's stored balance.
func (f *fixture) balance(t *testing.T, id string) string {
	t.Helper()
	l, err := f.Tree.Get(context.Background(), id)
	require.NoError(t, err)
	return l.Balance.String()
}
