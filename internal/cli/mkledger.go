package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pennywise/internal/ledger"
	"pennywise/internal/service"
)

func newMkledgerCmd(a *app, user *string) *cobra.Command {
	var (
		parentID    string
		title       string
		code        string
		description string
		typeName    string
		subtypeName string
		currency    string
		placeholder bool
		hidden      bool
		remoteURL   string
	)

	cmd := &cobra.Command{
		Use:   "mkledger",
		Short: "Create a ledger under a placeholder parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()

			ltype, ok := ledger.ParseLedgerType(typeName)
			if !ok {
				return fmt.Errorf("unknown ledger type %q", typeName)
			}
			lsubtype, ok := ledger.ParseLedgerSubtype(subtypeName)
			if !ok {
				return fmt.Errorf("unknown ledger subtype %q", subtypeName)
			}

			if ok, err := a.access.Can(ctx, *user, parentID, ledger.ActionWrite); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("user %s: %w", *user, ledger.ErrUnauthorized)
			}

			parent, err := a.ledgers.Get(ctx, parentID)
			if err != nil {
				return err
			}
			commodityID := parent.CommodityID
			if currency != "" {
				c, err := a.commodities.Resolve(ctx, ledger.Currency, currency)
				if err != nil {
					return err
				}
				commodityID = c.ID
			}

			kind := ledger.KindLedger
			if remoteURL != "" {
				kind = ledger.KindForeign
			}
			l, err := a.ledgers.CreateLedger(ctx, parentID, service.CreateLedgerParams{
				Kind:        kind,
				Title:       title,
				Code:        code,
				Description: description,
				Placeholder: placeholder,
				Hidden:      hidden,
				Type:        ltype,
				Subtype:     lsubtype,
				CommodityID: commodityID,
				RemoteURL:   remoteURL,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ledger %s created under %s\n", l.ID, parent.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "parent ledger id")
	cmd.Flags().StringVar(&title, "title", "", "ledger title")
	cmd.Flags().StringVar(&code, "code", "", "user code, e.g. account number")
	cmd.Flags().StringVar(&description, "description", "", "single-line description")
	cmd.Flags().StringVar(&typeName, "type", "", "ledger type (asset, liability, income, expense, equity)")
	cmd.Flags().StringVar(&subtypeName, "subtype", "", "ledger subtype (bank, cash, creditcard, receivable, payable)")
	cmd.Flags().StringVar(&currency, "currency", "", "commodity ISO code (defaults to the parent's)")
	cmd.Flags().BoolVar(&placeholder, "placeholder", false, "group-only ledger that cannot hold postings")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "hide in listings")
	cmd.Flags().StringVar(&remoteURL, "remote-url", "", "mark as a foreign ledger hosted at this URL")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
