package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/transfer"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export learner data as a JSON backup or a spreadsheet report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			xlsx, _ := cmd.Flags().GetBool("xlsx")

			a, err := openApp(cmd.Context(), configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.vocab.Export(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if xlsx {
				words, _, err := a.vocab.Words(cmd.Context(), models.WordFilter{})
				if err != nil {
					return err
				}
				ptrs := make([]*models.Word, len(words))
				for i := range words {
					ptrs[i] = &words[i]
				}
				return transfer.WriteProgressWorkbook(w, ptrs, doc.SessionStats, doc.ExportDate)
			}

			body, err := transfer.Encode(doc)
			if err != nil {
				return err
			}
			_, err = w.Write(append(body, '\n'))
			return err
		},
	}
	cmd.Flags().StringP("out", "o", "-", "Output file, - for stdout")
	cmd.Flags().Bool("xlsx", false, "Write a spreadsheet report instead of the JSON backup")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace learner data with an exported JSON document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.vocab.Import(cmd.Context(), raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported progress for %d words and %d sessions\n", report.WordProgress, report.SessionStats)
			if report.SettingsApplied {
				fmt.Fprintln(out, "user settings applied")
			}
			if report.VersionMismatch {
				fmt.Fprintf(out, "warning: document version %q differs from %q\n", report.Version, repository.DataVersion)
			}
			fmt.Fprintln(out, "previous data saved; run `vocabflash restore` to undo")
			return nil
		},
	}
}

func newRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the data saved before the last import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.vocab.RestoreBackup(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "backup restored")
			return nil
		},
	}
}
