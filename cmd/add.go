package cmd

import (
	"errors"
	"fmt"

	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("categories", "C", "", "Comma separated categories")
	addCmd.Flags().StringP("kind", "k", stream.KindStream.String(), "Stream or Video")
	addCmd.Flags().BoolP("force", "f", false, "Add even if the name or link is already in the catalog")
	lo.Must0(addCmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(stream.Kinds(), func(k stream.Kind, _ int) string {
			return k.String()
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

var addCmd = &cobra.Command{
	Use:     "add NAME LINK",
	Short:   "Add a stream to the catalog",
	Args:    cobra.ExactArgs(2),
	Example: "  quietstream add \"Lofi radio\" https://example.com/live.m3u8 -C music,chill",
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := stream.ParseKind(lo.Must(cmd.Flags().GetString("kind")))
		handleErr(err)

		record := stream.Record{
			Name:       args[0],
			Link:       args[1],
			Categories: lo.Must(cmd.Flags().GetString("categories")),
			Kind:       kind,
		}
		handleErr(record.Validate())

		s := openStore(cmd.Context())
		defer s.Close()

		var created stream.Record
		if lo.Must(cmd.Flags().GetBool("force")) {
			created, _, err = catalog.New(s).Add(cmd.Context(), record)
		} else {
			created, err = s.InsertUnique(cmd.Context(), record.Normalize())
			if errors.Is(err, store.ErrDuplicate) {
				err = fmt.Errorf("%w, use --force to add it anyway", err)
			}
		}
		handleErr(err)

		printSuccess("added %s as %s", style.Fg(color.Purple)(created.Name), style.Fg(color.Yellow)(fmt.Sprintf("#%d", created.ID)))
	},
}
