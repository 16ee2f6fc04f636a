// Package service implements the bookkeeping engine on top of the
// repositories: commodity resolution, the ledger tree, the transaction
// engine, access control and reconciliation. The surrounding front end
// (CLI, web, whatever) calls in here and never touches balances directly.
package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pennywise/internal/database/repository"
	"pennywise/internal/ledger"
)

// CommodityService is the registry of commodity identities.
type CommodityService struct {
	DB  *sql.DB
	Log *logrus.Logger
}

// Get returns one commodity by id, or ErrNotFound.
func (s *CommodityService) Get(ctx context.Context, id string) (*ledger.Commodity, error) {
	c, err := repository.NewCommodityRepo(s.DB).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("commodity %s: %w", id, ledger.ErrNotFound)
	}
	return c, nil
}

// Resolve returns the commodity for (type, symbol), creating it on first
// reference. Currency names come from the static ISO table; unrecognized
// codes are accepted with a blank name. Resolving the same pair twice always
// yields the same row: the UNIQUE(type, symbol) constraint collapses
// concurrent first references.
func (s *CommodityService) Resolve(ctx context.Context, typ ledger.CommodityType, symbol string) (*ledger.Commodity, error) {
	repo := repository.NewCommodityRepo(s.DB)

	c, err := repo.GetBySymbol(ctx, typ, symbol)
	if err != nil {
		return nil, fmt.Errorf("lookup commodity %s/%s: %w", typ, symbol, err)
	}
	if c != nil {
		return c, nil
	}

	title := ""
	if typ == ledger.Currency {
		title = ledger.CurrencyName(symbol)
	}
	created := ledger.Commodity{
		ID:     uuid.NewString(),
		Type:   typ,
		Symbol: symbol,
		Title:  title,
	}
	if err := repo.Insert(ctx, created); err != nil {
		return nil, fmt.Errorf("create commodity %s/%s: %w", typ, symbol, err)
	}

	// Re-read: if a concurrent Resolve won the insert race, its row is the
	// canonical one.
	c, err = repo.GetBySymbol(ctx, typ, symbol)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("commodity %s/%s vanished after insert", typ, symbol)
	}
	if s.Log != nil && c.ID == created.ID {
		s.Log.WithFields(logrus.Fields{"type": typ.String(), "symbol": symbol}).Info("commodity created")
	}
	return c, nil
}
