package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/aggregate"
	"github.com/unikonkon/ceasflow/internal/cli"
	"github.com/unikonkon/ceasflow/internal/currency"
	"github.com/unikonkon/ceasflow/internal/model"
)

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Manage wallets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List wallets with their balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			wallets := s.book.Wallets()
			balances := aggregate.WalletBalances(wallets, s.book.Transactions())
			r := cli.NewRenderer(cmd.OutOrStdout(), s.cfg.Location(), s.cfg.CurrencySymbol)
			if err := r.Wallets(wallets, balances); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", cli.BoldStyle.Render("Total"),
				currency.FormatWithSymbol(aggregate.TotalBalance(balances), s.cfg.CurrencySymbol))
			return nil
		},
	})

	cmd.AddCommand(addWalletCmd())
	return cmd
}

func addWalletCmd() *cobra.Command {
	var (
		typeFlag string
		icon     string
		color    string
		initial  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseWalletType(typeFlag)
			if err != nil {
				return err
			}
			balance := decimal.Zero
			if initial != "" {
				if balance, err = currency.Parse(initial); err != nil {
					return err
				}
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := s.book.AddWallet(cmd.Context(), model.WalletInput{
				Name:           args[0],
				Type:           t,
				Icon:           icon,
				Color:          color,
				Currency:       s.cfg.Currency,
				InitialBalance: balance,
				IsAsset:        t != model.WalletTypeCreditCard,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added wallet %s %s (%s)", w.Icon, w.Name, w.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", string(model.WalletTypeCash), "cash, bank, credit_card, e_wallet, savings or daily_expense")
	cmd.Flags().StringVar(&icon, "icon", "💰", "emoji icon")
	cmd.Flags().StringVar(&color, "color", "#6366f1", "display color")
	cmd.Flags().StringVar(&initial, "initial", "", "opening balance")
	return cmd
}
