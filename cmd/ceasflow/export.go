package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unikonkon/ceasflow/internal/cli"
)

func exportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole ledger to an .xlsx workbook",
		Long: `Export every wallet, transaction and category to a workbook with an
overview sheet, one sheet per wallet, a monthly summary and a category
breakdown. The workbook can be imported back with "ceasflow import".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if outDir == "" {
				outDir = s.cfg.ExportDir
			}

			handler := cli.NewInterruptHandler(cmd.OutOrStdout(), "Export")
			ctx := handler.HandleInterrupts(cmd.Context(), false)
			defer handler.Stop()

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), "Exporting")
			result, err := s.book.Export(ctx, bar.Update)
			if err != nil {
				return err
			}

			path, err := result.Save(outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %s (%d sheets)", path, len(result.Sheets))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	return cmd
}
