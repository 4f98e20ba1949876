package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/catalog"
	"github.com/unikonkon/ceasflow/internal/cli"
	"github.com/unikonkon/ceasflow/internal/wallet"
)

func importCmd() *cobra.Command {
	var noCheckpoint bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Add wallets and transactions from an .xlsx workbook",
		Long: `Import reads a workbook in the export layout and adds everything it
finds as new wallets. Existing wallets are never merged into; a clashing
name gets a " (ซ้ำ)" suffix. Missing categories are created.

A checkpoint is taken first so an unwanted import can be undone with
"ceasflow checkpoint restore".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			if !noCheckpoint {
				manager, err := s.store.NewCheckpointManager()
				if err != nil {
					return fmt.Errorf("failed to create checkpoint manager: %w", err)
				}
				info, err := manager.AutoCheckpoint(cmd.Context(), "import")
				if err != nil {
					return fmt.Errorf("failed to create checkpoint: %w", err)
				}
				slog.Info("Created checkpoint before import", "id", info.ID)
			}

			stopCats := s.book.SubscribeCategories(func(e catalog.Event) {
				if e.Kind == catalog.EventAdded {
					slog.Debug("Import created category", "id", e.CategoryID, "type", e.Type)
				}
			})
			defer stopCats()
			stopWallets := s.book.SubscribeWallets(func(e wallet.Event) {
				slog.Debug("Import created wallet", "id", e.WalletID)
			})
			defer stopWallets()

			handler := cli.NewInterruptHandler(cmd.OutOrStdout(), "Import")
			ctx := handler.HandleInterrupts(cmd.Context(), !noCheckpoint)
			defer handler.Stop()

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), "Importing")
			result, err := s.book.Import(ctx, f, bar.Update)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Import finished"))
			fmt.Fprintf(out, "  Wallets:      %d\n", result.WalletsCreated)
			fmt.Fprintf(out, "  Transactions: %d\n", result.TransactionsImported)
			if result.CategoriesCreated > 0 {
				fmt.Fprintf(out, "  Categories:   %d new\n", result.CategoriesCreated)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "skip the automatic checkpoint")
	return cmd
}
