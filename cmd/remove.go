package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return lo.Uniq(ids), nil
}

// confirm asks a yes/no question unless skip is set.
func confirm(message string, skip bool) bool {
	if skip {
		return true
	}

	var response bool
	handleErr(survey.AskOne(&survey.Confirm{Message: message, Default: false}, &response))
	return response
}

var removeCmd = &cobra.Command{
	Use:     "remove ID...",
	Short:   "Remove streams from the catalog",
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		handleErr(err)

		s := openStore(cmd.Context())
		defer s.Close()

		c := catalog.New(s)
		_, err = c.Load(cmd.Context())
		handleErr(err)

		var found []stream.Record
		for _, id := range ids {
			r, ok := c.Lookup(id).Get()
			if !ok {
				handleErr(fmt.Errorf("no stream with id %d", id))
			}
			found = append(found, r)
		}

		names := lo.Map(found, func(r stream.Record, _ int) string {
			return "  " + r.Name
		})
		fmt.Println(util.Enumerate(names, 10))

		if !confirm(fmt.Sprintf("Remove %s?", util.Quantify(len(found), "stream", "streams")), lo.Must(cmd.Flags().GetBool("yes"))) {
			return
		}

		n, _, err := c.RemoveMany(cmd.Context(), ids)
		handleErr(err)

		printSuccess("removed %s", util.Quantify(n, "stream", "streams"))
	},
}
