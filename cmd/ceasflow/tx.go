package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/aggregate"
	"github.com/unikonkon/ceasflow/internal/book"
	"github.com/unikonkon/ceasflow/internal/cli"
	"github.com/unikonkon/ceasflow/internal/common"
	"github.com/unikonkon/ceasflow/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Add, list, edit and delete transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())
	return cmd
}

type txFlags struct {
	kind     string
	amount   string
	category string
	wallet   string
	date     string
	note     string
}

func (f *txFlags) register(cmd *cobra.Command, kindDefault string) {
	cmd.Flags().StringVarP(&f.kind, "type", "t", kindDefault, "expense or income")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&f.wallet, "wallet", "w", "", "wallet id or name")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default now)")
	cmd.Flags().StringVarP(&f.note, "note", "n", "", "free-text note")
}

func addTxCmd() *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := parseTransactionType(f.kind)
			if err != nil {
				return err
			}
			amount, err := parsePositiveAmount(f.amount)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			date, err := parseDate(f.date, s.cfg.Location(), time.Now())
			if err != nil {
				return err
			}
			w, err := resolveWallet(s.book, f.wallet)
			if err != nil {
				return err
			}
			c, err := resolveCategory(s.book, f.category, kind.CategoryType())
			if err != nil {
				return err
			}

			txn, err := s.book.AddTransaction(cmd.Context(), model.TransactionInput{
				Type:       kind,
				Amount:     amount,
				CategoryID: c.ID,
				WalletID:   w.ID,
				Date:       date,
				Note:       f.note,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s %s in %s (%s)",
				c.Icon, c.Name, txn.Amount.StringFixed(2), w.Name, txn.ID)))
			return nil
		},
	}

	f.register(cmd, string(model.TransactionTypeExpense))
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("wallet")
	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		month  string
		wallet string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := buildFilter(s.book, month, 0, wallet)
			if err != nil {
				return err
			}

			txs := aggregate.FilterTransactions(s.book.Transactions(), f)
			sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

			r := cli.NewRenderer(cmd.OutOrStdout(), s.cfg.Location(), s.cfg.CurrencySymbol)
			return r.Transactions(txs, categoryLookup{s.book})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "YYYY-MM (default current month)")
	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "wallet id or name")
	return cmd
}

func editTxCmd() *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change any field of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			current, ok := s.book.Transaction(args[0])
			if !ok {
				return fmt.Errorf("transaction %q: %w", args[0], common.ErrNotFound)
			}

			var patch model.TransactionPatch
			flags := cmd.Flags()
			kind := current.Type
			if flags.Changed("type") {
				if kind, err = parseTransactionType(f.kind); err != nil {
					return err
				}
				patch.Type = &kind
			}
			if flags.Changed("amount") {
				amount, err := parsePositiveAmount(f.amount)
				if err != nil {
					return err
				}
				patch.Amount = &amount
			}
			if flags.Changed("category") {
				c, err := resolveCategory(s.book, f.category, kind.CategoryType())
				if err != nil {
					return err
				}
				patch.CategoryID = &c.ID
			}
			if flags.Changed("wallet") {
				w, err := resolveWallet(s.book, f.wallet)
				if err != nil {
					return err
				}
				patch.WalletID = &w.ID
			}
			if flags.Changed("date") {
				date, err := parseDate(f.date, s.cfg.Location(), time.Now())
				if err != nil {
					return err
				}
				patch.Date = &date
			}
			if flags.Changed("note") {
				patch.Note = &f.note
			}

			if _, err := s.book.UpdateTransaction(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated transaction "+args[0]))
			return nil
		},
	}

	f.register(cmd, "")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.book.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted transaction "+args[0]))
			return nil
		},
	}
}

// buildFilter turns command flags into a filter. An empty month is the
// current month.
func buildFilter(b *book.Book, month string, day int, wallet string) (aggregate.Filter, error) {
	loc := b.Location()
	f := aggregate.MonthOf(time.Now().In(loc))
	if month != "" {
		var err error
		if f, err = aggregate.ParseMonth(month, loc); err != nil {
			return aggregate.Filter{}, err
		}
	}
	f.Day = day
	if wallet != "" {
		w, err := resolveWallet(b, wallet)
		if err != nil {
			return aggregate.Filter{}, err
		}
		f.WalletID = w.ID
	}
	return f, nil
}

// categoryLookup adapts a Book to the renderer's lookup.
type categoryLookup struct {
	b *book.Book
}

func (l categoryLookup) Get(id string) (model.Category, bool) {
	return l.b.Category(id)
}
