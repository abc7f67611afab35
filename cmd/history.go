package cmd

import (
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/quietstream/quietstream/history"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.SetOut(os.Stdout)
	historyCmd.Flags().IntP("limit", "n", 20, "Show at most this many entries, 0 for all")
	historyCmd.Flags().Bool("clear", false, "Forget every played stream")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played streams",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			printSuccess("history cleared")
			return
		}

		recent, err := history.Recent(lo.Must(cmd.Flags().GetInt("limit")))
		handleErr(err)

		if len(recent) == 0 {
			cmd.Println("Nothing played yet")
			return
		}

		rows := lo.Map(recent, func(s *history.SavedStream, _ int) []string {
			return []string{
				strconv.FormatInt(s.ID, 10),
				s.Name,
				s.Kind,
				strconv.Itoa(s.Plays),
				humanize.Time(s.PlayedAt),
			}
		})
		cmd.Println(renderTable([]string{"ID", "Name", "Kind", "Plays", "Last played"}, rows, 3))
	},
}
