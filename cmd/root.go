// Package cmd implements the quietstream command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/mini"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/quietstream/quietstream/tui"
	"github.com/quietstream/quietstream/validator"
	"github.com/quietstream/quietstream/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// seedStreams is written to an empty catalog when store.seed is on.
var seedStreams []stream.Record

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant (emoji, nerd, plain, kaomoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("db", "", "Use this catalog database instead of the default one")
	lo.Must0(viper.BindPFlag(key.StorePath, rootCmd.PersistentFlags().Lookup("db")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember played streams")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().BoolP("continue", "c", false, "Open the player and replay the last played stream")
	rootCmd.Flags().BoolP("mini", "m", false, "Use prompts instead of the full screen interface")
}

var rootCmd = &cobra.Command{
	Use:           constant.App,
	SilenceErrors: true,
	Short:         "Keep a catalog of stream links and play them from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Keep a catalog of stream links and play them from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		s := openStore(cmd.Context())
		defer s.Close()

		resume := lo.Must(cmd.Flags().GetBool("continue"))

		if lo.Must(cmd.Flags().GetBool("mini")) {
			handleErr(mini.Run(cmd.Context(), &mini.Options{
				Continue: resume,
				Store:    s,
				Playback: playback.OptionsFromConfig(),
			}))
			return
		}

		options := tui.Options{
			Continue:  resume,
			Store:     s,
			Validator: validator.FromConfig(),
			Playback:  playback.OptionsFromConfig(),
		}
		handleErr(tui.Run(cmd.Context(), &options))
	},
}

// Execute runs the root command with a context cancelled on interrupt.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printErr(err)
		stop()
		os.Exit(1)
	}
}

// openStore opens the catalog database. Failing to open it is the one fatal error.
func openStore(ctx context.Context) *store.Store {
	path := viper.GetString(key.StorePath)
	if path == "" {
		path = where.Database()
	}

	s, err := store.Open(ctx, path)
	handleErr(err)

	if viper.GetBool(key.StoreSeed) && len(seedStreams) > 0 {
		n, err := s.Seed(ctx, seedStreams)
		if err != nil {
			log.Warnf("seed catalog: %v", err)
		} else if n > 0 {
			log.Infof("seeded catalog with %d streams", n)
		}
	}

	return s
}

func handleErr(err error) {
	if err != nil {
		printErr(err)
		os.Exit(1)
	}
}

func printErr(err error) {
	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
}
