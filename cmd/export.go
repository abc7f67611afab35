package cmd

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/quietstream/quietstream/exchange"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.SetOut(os.Stdout)
}

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the catalog to a JSON document",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := viper.GetString(key.ExportDefaultFile)
		if len(args) == 1 {
			path = args[0]
		}
		path = exchange.ExportPath(path)

		s := openStore(cmd.Context())
		defer s.Close()

		n, err := exchange.New(s).Export(cmd.Context(), path)
		handleErr(err)

		size := "?"
		if info, err := filesystem.API().Stat(path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}

		printSuccess("exported %s to %s (%s)", util.Quantify(n, "stream", "streams"), path, size)
	},
}
