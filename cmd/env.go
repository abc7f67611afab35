package cmd

import (
	"os"

	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/config"
	"github.com/quietstream/quietstream/style"
	"github.com/quietstream/quietstream/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVariables lists every supported variable name, sorted.
func envVariables() []string {
	paths := []string{where.EnvConfigPath, where.EnvDataPath}

	names := lo.Map(config.EnvExposed, func(k string, _ int) string {
		field := config.Default[k]
		return field.Env()
	})
	names = append(names, paths...)
	slices.Sort(names)
	return slices.Compact(names)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Long:  `List the supported environment variables and their values in the current process.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, env := range envVariables() {
			value := os.Getenv(env)
			present := value != ""

			if !present && setOnly {
				continue
			}
			if present && unsetOnly {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
