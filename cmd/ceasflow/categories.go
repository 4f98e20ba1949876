package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/cli"
	"github.com/unikonkon/ceasflow/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage expense and income categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(reorderCategoriesCmd())
	cmd.AddCommand(notesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			types := []model.CategoryType{model.CategoryTypeExpense, model.CategoryTypeIncome}
			if typeFlag != "" {
				t, err := parseCategoryType(typeFlag)
				if err != nil {
					return err
				}
				types = []model.CategoryType{t}
			}

			r := cli.NewRenderer(cmd.OutOrStdout(), s.cfg.Location(), s.cfg.CurrencySymbol)
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(string(t)))
				if err := r.Categories(s.book.Categories(t)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "only list expense or income categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		typeFlag string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category at the end of its type's list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseCategoryType(typeFlag)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			cat, err := s.book.AddCategory(cmd.Context(), model.CategoryInput{Name: args[0], Type: t, Icon: icon})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s %s (%s)", cat.Icon, cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", string(model.CategoryTypeExpense), "expense or income")
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon (defaults by name)")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; its transactions keep the old reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.book.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted category "+args[0]))
			return nil
		},
	}
}

func reorderCategoriesCmd() *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the display order of every category of one type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseCategoryType(typeFlag)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.book.ReorderCategories(cmd.Context(), t, args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Reordered %d %s categories", len(args), t)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", string(model.CategoryTypeExpense), "expense or income")
	return cmd
}

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage a category's recent notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <category-id>",
		Short: "List recent notes, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			for _, n := range s.book.Notes(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <category-id> <note>",
		Short: "Remember a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.book.AddNote(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved note"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <category-id> <note>",
		Short: "Forget a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.book.RemoveNote(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed note"))
			return nil
		},
	})

	return cmd
}
