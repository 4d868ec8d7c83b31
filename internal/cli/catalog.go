package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/worker"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the word catalog",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add or update catalog entries from an .xlsx, .csv or .json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, _ := cmd.Flags().GetString("sheet")
			skipHeader, _ := cmd.Flags().GetBool("skip-header")

			a, err := openStore(cmd.Context(), configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			job := &worker.CatalogImportJob{
				Words: a.words,
				Config: catalog.ImportConfig{
					FilePath:   args[0],
					SheetName:  sheet,
					SkipHeader: skipHeader,
				},
			}
			if err := job.Run(cmd.Context()); err != nil {
				return fmt.Errorf("catalog import: %w", err)
			}

			total, err := a.words.CountWords(cmd.Context(), models.WordFilter{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog now holds %d words\n", total)
			return nil
		},
	}
	importCmd.Flags().String("sheet", "", "Worksheet to read (default: first sheet)")
	importCmd.Flags().Bool("skip-header", true, "Skip the first row of spreadsheet and CSV files")

	cmd.AddCommand(importCmd)
	return cmd
}
