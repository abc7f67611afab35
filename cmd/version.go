package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		cmd.Printf("%s %s\n\n", style.Fg(color.Purple)("▇▇▇"), style.Fg(color.Purple)(constant.App))

		info := [][2]string{
			{"Version", constant.Version},
			{"Git commit", constant.Revision},
			{"Build date", strings.TrimSpace(constant.BuiltAt)},
			{"Built by", constant.BuiltBy},
			{"Go", runtime.Version()},
			{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
		}

		width := lo.Max(lo.Map(info, func(row [2]string, _ int) int {
			return len(row[0])
		}))
		for _, row := range info {
			label := row[0] + strings.Repeat(" ", width-len(row[0]))
			cmd.Printf("  %s  %s\n", style.Faint(label), style.Bold(lo.Ternary(row[1] == "", "unknown", row[1])))
		}
	},
}
