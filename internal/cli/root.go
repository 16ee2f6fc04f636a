// Package cli wires the cobra front end to the engine. The CLI is a plain
// collaborator: it resolves commodities, asks the access layer before every
// mutation, and renders query results; balances and hierarchy are only ever
// touched through the services.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pennywise/internal/config"
	"pennywise/internal/database"
	"pennywise/internal/logging"
	"pennywise/internal/service"
)

// app carries the shared state commands operate on.
type app struct {
	cfg config.Config
	log *logrus.Logger
	db  *sql.DB

	commodities  *service.CommodityService
	ledgers      *service.LedgerTreeService
	transactions *service.TransactionEngine
	access       *service.AccessService
	reconcile    *service.ReconcileService
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Log)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	a.db = db

	a.commodities = &service.CommodityService{DB: db, Log: a.log}
	a.ledgers = &service.LedgerTreeService{DB: db, Log: a.log}
	a.transactions = &service.TransactionEngine{DB: db, Log: a.log}
	a.access = &service.AccessService{DB: db}
	a.reconcile = &service.ReconcileService{DB: db, Log: a.log}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Execute runs the pennywise command line.
func Execute() error {
	a := &app{}
	var user string

	root := &cobra.Command{
		Use:           "pennywise",
		Short:         "Double-entry bookkeeping over sqlite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVarP(&user, "user", "u", "", "acting user")

	root.AddCommand(
		newInitCmd(a, &user),
		newLedgersCmd(a, &user),
		newMkledgerCmd(a, &user),
		newPostCmd(a, &user),
		newReverseCmd(a, &user),
		newDisableCmd(a, &user, true),
		newDisableCmd(a, &user, false),
		newHideCmd(a, &user),
		newGrantCmd(a, &user),
		newReconcileCmd(a, &user),
		newResetCmd(a),
	)
	return root.Execute()
}

// requireUser rejects commands invoked without an acting user.
func requireUser(user *string) error {
	if *user == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}
