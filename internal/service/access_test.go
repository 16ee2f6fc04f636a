package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pennywise/internal/ledger"
)

func TestOwnerHasImplicitFullAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	access := &AccessService{DB: f.DB}
	bank := f.ledgerByTitle(t, "Bank")

	for _, action := range []ledger.Action{ledger.ActionRead, ledger.ActionWrite, ledger.ActionWriteAll} {
		ok, err := access.Can(ctx, "alice", bank.ID, action)
		require.NoError(t, err)
		require.True(t, ok, "owner of the tree's root gets %s", action)
	}

	ok, err := access.Can(ctx, "mallory", bank.ID, ledger.ActionRead)
	require.NoError(t, err)
	require.False(t, ok, "strangers get nothing without a grant")
}

func TestExplicitGrantDecides(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	access := &AccessService{DB: f.DB}
	bank := f.ledgerByTitle(t, "Bank")

	require.NoError(t, access.Grant(ctx, ledger.Access{
		LedgerID: bank.ID,
		UserID:   "bob",
		Read:     true,
		Write:    true,
	}))

	ok, err := access.Can(ctx, "bob", bank.ID, ledger.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = access.Can(ctx, "bob", bank.ID, ledger.ActionWrite)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = access.Can(ctx, "bob", bank.ID, ledger.ActionWriteAll)
	require.NoError(t, err)
	require.False(t, ok, "write does not imply write_all")

	// Grants are per ledger, not per tree.
	ok, err = access.Can(ctx, "bob", f.ledgerByTitle(t, "Cash").ID, ledger.ActionRead)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGrantRowOverridesOwnerFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	access := &AccessService{DB: f.DB}
	bank := f.ledgerByTitle(t, "Bank")

	// An explicit row for the owner narrows what the fallback would give.
	require.NoError(t, access.Grant(ctx, ledger.Access{
		LedgerID: bank.ID,
		UserID:   "alice",
		Read:     true,
	}))

	ok, err := access.Can(ctx, "alice", bank.ID, ledger.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = access.Can(ctx, "alice", bank.ID, ledger.ActionWrite)
	require.NoError(t, err)
	require.False(t, ok, "an explicit grant row always decides")
}

func TestGrantUpsertReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	access := &AccessService{DB: f.DB}
	bank := f.ledgerByTitle(t, "Bank")

	require.NoError(t, access.Grant(ctx, ledger.Access{LedgerID: bank.ID, UserID: "bob", Read: true}))
	require.NoError(t, access.Grant(ctx, ledger.Access{LedgerID: bank.ID, UserID: "bob", Read: true, Write: true, WriteAll: true}))

	ok, err := access.Can(ctx, "bob", bank.ID, ledger.ActionWriteAll)
	require.NoError(t, err)
	require.True(t, ok)
}
