package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pennywise/internal/service"
)

func newResetCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all bookkeeping data, keeping the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to wipe %s without --force", a.cfg.Database.Path)
			}
			if err := (&service.MaintenanceService{DB: a.db}).Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "actually delete everything")
	return cmd
}
