package cli

import (
	"fmt"

	"github.com/docdrop/backend/internal/preview"
	"github.com/docdrop/backend/pkg/ui"
	"github.com/spf13/cobra"
)

var previewRows int

var previewCmd = &cobra.Command{
	Use:   "preview [file.csv]",
	Short: "Print the header and first rows of a semicolon-delimited CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := preview.NewCSVPreviewer(previewRows).PreviewFile(args[0])
		if err != nil {
			return err
		}

		fmt.Println(ui.Table(result.Headers, result.Rows))
		if result.Truncated {
			ui.Info("Showing %d of %d rows", len(result.Rows), result.TotalRows)
		} else {
			ui.Info("%d rows", result.TotalRows)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", 20, "number of rows to show")
	rootCmd.AddCommand(previewCmd)
}
