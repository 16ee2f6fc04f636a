package service

import (
	"context"
	"database/sql"
	"fmt"

	"pennywise/internal/database/repository"
	"pennywise/internal/ledger"
)

// AccessService answers per-user, per-ledger permission checks. The acting
// user is always an explicit parameter; the engine never reads ambient
// identity.
type AccessService struct {
	DB *sql.DB
}

// Can reports whether user may perform action on the ledger. An explicit
// grant row decides when present. Without one, the owner of the tree's root
// has full access (the bootstrap case) and everyone else has none.
func (s *AccessService) Can(ctx context.Context, userID, ledgerID string, action ledger.Action) (bool, error) {
	grant, err := repository.NewAccessRepo(s.DB).Get(ctx, ledgerID, userID)
	if err != nil {
		return false, err
	}
	if grant != nil {
		switch action {
		case ledger.ActionRead:
			return grant.Read, nil
		case ledger.ActionWrite:
			return grant.Write, nil
		case ledger.ActionWriteAll:
			return grant.WriteAll, nil
		default:
			return false, fmt.Errorf("unknown action %q", action)
		}
	}

	root, err := s.treeRoot(ctx, ledgerID)
	if err != nil {
		return false, err
	}
	return root.OwnerID != "" && root.OwnerID == userID, nil
}

// Grant records or replaces an explicit access row.
func (s *AccessService) Grant(ctx context.Context, a ledger.Access) error {
	return repository.NewAccessRepo(s.DB).Upsert(ctx, a)
}

// treeRoot walks parent references up to the root of a ledger's tree.
func (s *AccessService) treeRoot(ctx context.Context, ledgerID string) (*ledger.Ledger, error) {
	repo := repository.NewLedgerRepo(s.DB)
	id := ledgerID
	for {
		l, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("ledger %s: %w", id, ledger.ErrNotFound)
		}
		if l.ParentID == "" {
			return l, nil
		}
		id = l.ParentID
	}
}
