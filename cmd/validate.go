package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/util"
	"github.com/quietstream/quietstream/validator"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.SetOut(os.Stdout)
	validateCmd.Flags().BoolP("delete", "d", false, "Offer to remove broken links after the check")
	validateCmd.Flags().BoolP("yes", "y", false, "Remove broken links without asking, implies --delete")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every link in the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore(cmd.Context())
		defer s.Close()

		c := catalog.New(s)
		snap, err := c.Load(cmd.Context())
		handleErr(err)

		if snap.Len() == 0 {
			cmd.Println("No streams")
			return
		}

		details := make(map[int64]string)
		erase := func() {}
		result := validator.FromConfig().Validate(cmd.Context(), snap.Records(), func(p validator.Progress) {
			if !p.Outcome.Healthy {
				details[p.Record.ID] = p.Outcome.Detail()
			}
			erase()
			if util.IsTerminal() {
				erase = util.PrintErasable(fmt.Sprintf("Validating: %s (%d/%d)", util.Shorten(p.Record.Name, 40), p.Index, p.Total))
			}
		})
		erase()

		checked := len(result.Healthy) + len(result.Broken)
		if result.Cancelled {
			cmd.Printf("Cancelled after %d of %d\n", checked, snap.Len())
		}

		if len(result.Broken) == 0 {
			printSuccess("all %s available", util.Quantify(checked, "link", "links"))
			return
		}

		rows := lo.Map(result.Broken, func(r stream.Record, _ int) []string {
			return []string{
				strconv.FormatInt(r.ID, 10),
				r.Name,
				util.Shorten(r.Link, linkWidth),
				details[r.ID],
			}
		})
		cmd.Println(renderTable([]string{"ID", "Name", "Link", "Reason"}, rows, 0))
		cmd.Printf("%s of %d unavailable\n", util.Quantify(len(result.Broken), "link", "links"), checked)

		yes := lo.Must(cmd.Flags().GetBool("yes"))
		if !yes && !lo.Must(cmd.Flags().GetBool("delete")) {
			return
		}

		if !confirm(fmt.Sprintf("Remove %s?", util.Quantify(len(result.Broken), "broken stream", "broken streams")), yes) {
			return
		}

		// an interrupt that cancelled the check must not void an explicit confirmation
		n, _, err := c.RemoveMany(context.WithoutCancel(cmd.Context()), result.BrokenIDs())
		handleErr(err)
		printSuccess("removed %s", util.Quantify(n, "stream", "streams"))
	},
}
