package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/player"
	"github.com/quietstream/quietstream/resolver"
	"github.com/quietstream/quietstream/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// installHints maps an executable to its install command per OS.
var installHints = map[string]map[string]string{
	"mpv": {
		constant.Darwin:  "brew install mpv",
		constant.Linux:   "sudo apt install mpv",
		constant.Windows: "scoop install mpv",
	},
	"yt-dlp": {
		constant.Darwin:  "brew install yt-dlp",
		constant.Linux:   "python3 -m pip install -U yt-dlp",
		constant.Windows: "scoop install yt-dlp",
	},
}

// CheckDependencies warns when the configured player is missing.
// Catalog management still works without it, so this never exits.
func CheckDependencies() {
	name := viper.GetString(key.Player)
	if !player.Available(name) {
		printMissingDependencyError(player.Executable(name), "Streams cannot be played until it is installed.")
	}
}

func printMissingDependencyError(dep, consequence string) {
	installCmd := installHints[dep][runtime.GOOS]

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Warn)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH. %s", dep, consequence))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Fprintln(os.Stderr, box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the player and the resolver are installed",
	Run: func(cmd *cobra.Command, args []string) {
		name := viper.GetString(key.Player)
		res := resolver.FromConfig()

		checks := []struct {
			what, program string
			ok            bool
			consequence   string
		}{
			{"player", player.Executable(name), player.Available(name), "Streams cannot be played until it is installed."},
			{"resolver", res.Path, res.Available(), "Video links cannot be resolved until it is installed."},
		}

		var missing int
		for _, c := range checks {
			if c.ok {
				cmd.Printf("%s %s %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), c.what, style.Faint(c.program))
				continue
			}
			missing++
			cmd.Printf("%s %s %s\n", style.Fg(style.Red)(icon.Get(icon.Fail)), c.what, style.Faint(c.program))
			printMissingDependencyError(c.program, c.consequence)
		}

		if missing > 0 {
			os.Exit(1)
		}
	},
}
