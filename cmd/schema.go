package cmd

import (
	"encoding/json"
	"os"

	"github.com/quietstream/quietstream/exchange"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.SetOut(os.Stdout)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of import and export documents",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := json.MarshalIndent(exchange.Schema(), "", "  ")
		handleErr(err)
		cmd.Println(string(data))
	},
}
