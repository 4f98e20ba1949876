package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/cli"
)

func summaryCmd() *cobra.Command {
	var (
		month  string
		day    int
		wallet string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a month's totals, balance, alerts and daily transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := buildFilter(s.book, month, day, wallet)
			if err != nil {
				return err
			}

			v, err := s.book.View(cmd.Context(), f)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("%d-%02d", f.Year, f.Month)
			if f.Day != 0 {
				title += fmt.Sprintf("-%02d", f.Day)
			}
			if w, ok := s.book.Wallet(f.WalletID); ok {
				title += " · " + w.Name
			}

			r := cli.NewRenderer(cmd.OutOrStdout(), s.cfg.Location(), s.cfg.CurrencySymbol)
			if err := r.Summary(title, v.Monthly, v.CurrentBalance); err != nil {
				return err
			}
			if err := r.Alerts(v.Alerts); err != nil {
				return err
			}
			if quiet {
				return nil
			}
			return r.Daily(v.Daily, categoryLookup{s.book})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "YYYY-MM (default current month)")
	cmd.Flags().IntVar(&day, "day", 0, "narrow to one day of the month")
	cmd.Flags().StringVarP(&wallet, "wallet", "w", "", "wallet id or name")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "omit the daily list")
	return cmd
}
