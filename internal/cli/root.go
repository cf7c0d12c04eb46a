// Package cli implements the docdrop command line tool: batch renaming of a
// directory into an export archive and CSV previews.
package cli

import (
	"os"

	"github.com/docdrop/backend/pkg/ui"
	"github.com/spf13/cobra"
)

// Version is reported by the banner. Set during build.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "docdrop",
	Short: "docdrop renames scanned documents and previews CSV files",
	Long: `docdrop names PDF documents as prefix-distributor-document-date.pdf from a
YAML metadata manifest and packs them, together with any other files, into a
zip archive. It can also preview semicolon-delimited CSV files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
