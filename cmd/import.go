package cmd

import (
	"os"

	"github.com/quietstream/quietstream/exchange"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.SetOut(os.Stdout)
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add the streams of a JSON document to the catalog",
	Long: `Add the streams of a JSON document to the catalog.
Entries whose name or link is already present are skipped.
Run "quietstream schema" to see the expected format.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(exchange.CheckImportPath(args[0]))

		s := openStore(cmd.Context())
		defer s.Close()

		report, err := exchange.New(s).Import(cmd.Context(), args[0])
		handleErr(err)

		printSuccess(
			"imported %d of %d, skipped %d (%d already present)",
			report.Imported,
			report.Total,
			report.Skipped,
			report.Duplicates,
		)
	},
}
