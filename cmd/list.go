package cmd

import (
	"os"

	"github.com/quietstream/quietstream/inline"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.SetOut(os.Stdout)
	listCmd.Flags().StringP("query", "q", "", "Only list records whose name, categories or kind contain this")
	listCmd.Flags().StringP("pick", "p", "", "Keep one record: first, last, an index or @name@")
	listCmd.Flags().BoolP("json", "j", false, "Print as an exchange document")
	listCmd.Flags().BoolP("links", "l", false, "Print only the links, one per line")
	listCmd.MarkFlagsMutuallyExclusive("json", "links")
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the catalog",
	Aliases: []string{"ls"},
	Example: "  quietstream list -q jazz --pick first --links | xargs mpv",
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore(cmd.Context())
		defer s.Close()

		options := &inline.Options{
			Out:    cmd.OutOrStdout(),
			Store:  s,
			Query:  lo.Must(cmd.Flags().GetString("query")),
			Json:   lo.Must(cmd.Flags().GetBool("json")),
			Links:  lo.Must(cmd.Flags().GetBool("links")),
			Picker: mo.None[inline.Picker](),
		}

		if description := lo.Must(cmd.Flags().GetString("pick")); description != "" {
			picker, err := inline.ParsePicker(description)
			handleErr(err)
			options.Picker = mo.Some(picker)
		}

		records, err := inline.Select(cmd.Context(), options)
		handleErr(err)

		if options.Json || options.Links {
			handleErr(inline.Write(records, options))
			return
		}

		if len(records) == 0 {
			cmd.Println("No streams")
			return
		}

		cmd.Println(renderTable(recordHeaders, recordRows(records), 0))
		cmd.Println(util.Quantify(len(records), "stream", "streams"))
	},
}
