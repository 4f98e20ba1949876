package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/alert"
	"github.com/unikonkon/ceasflow/internal/cli"
	"github.com/unikonkon/ceasflow/internal/model"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Configure the monthly expense target and category limits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show alert settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := s.book.Alerts().Get(cmd.Context())
			if err != nil {
				return err
			}
			r := cli.NewRenderer(cmd.OutOrStdout(), s.cfg.Location(), s.cfg.CurrencySymbol)
			return r.AlertSettings(settings, categoryLookup{s.book})
		},
	})

	cmd.AddCommand(setTargetCmd())
	cmd.AddCommand(toggleCmd("target", "monthly expense target", (*alert.Store).SetMonthlyTargetEnabled))
	cmd.AddCommand(toggleCmd("limits", "category limits", (*alert.Store).SetCategoryLimitsEnabled))
	cmd.AddCommand(limitCmd())
	return cmd
}

func setTargetCmd() *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "set-target [amount]",
		Short: "Set the monthly expense target and enable it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !unset && len(args) == 0 {
				return fmt.Errorf("amount is required unless --clear is given")
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			store := s.book.Alerts()
			if unset {
				if _, err := store.SetMonthlyExpenseTarget(cmd.Context(), nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Cleared monthly target"))
				return nil
			}

			target, err := parsePositiveAmount(args[0])
			if err != nil {
				return err
			}
			if _, err := store.SetMonthlyExpenseTarget(cmd.Context(), &target); err != nil {
				return err
			}
			if _, err := store.SetMonthlyTargetEnabled(cmd.Context(), true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Monthly target set to "+target.StringFixed(2)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unset, "clear", false, "remove the target")
	return cmd
}

func toggleCmd(name, what string, set func(*alert.Store, context.Context, bool) (alert.Settings, error)) *cobra.Command {
	return &cobra.Command{
		Use:       name + " on|off",
		Short:     "Enable or disable the " + what,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := set(s.book.Alerts(), cmd.Context(), enabled); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Turned %s %s", what, args[0])))
			return nil
		},
	}
}

func limitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Manage per-category monthly limits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Add or change an expense category's limit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parsePositiveAmount(args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := resolveCategory(s.book, args[0], model.CategoryTypeExpense)
			if err != nil {
				return err
			}

			store := s.book.Alerts()
			settings, err := store.Get(cmd.Context())
			if err != nil {
				return err
			}
			exists := false
			for _, l := range settings.CategoryLimits {
				if l.CategoryID == c.ID {
					exists = true
				}
			}
			if exists {
				_, err = store.UpdateCategoryLimit(cmd.Context(), c.ID, limit)
			} else {
				_, err = store.AddCategoryLimit(cmd.Context(), c.ID, limit)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Limit for %s set to %s", c.Name, limit.StringFixed(2))))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <category>",
		Short: "Remove a category's limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			id := args[0]
			if c, err := resolveCategory(s.book, args[0], model.CategoryTypeExpense); err == nil {
				id = c.ID
			}
			if _, err := s.book.Alerts().RemoveCategoryLimit(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed limit"))
			return nil
		},
	})

	return cmd
}
