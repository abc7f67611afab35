package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/history"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play ID",
	Short: "Play a stream without opening the interface",
	Long: `Play a stream without opening the interface.
Returns when the player window is closed or on interrupt.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		s := openStore(cmd.Context())
		defer s.Close()

		c := catalog.New(s)
		if _, err = c.Load(cmd.Context()); err != nil {
			return err
		}

		record, ok := c.Lookup(id).Get()
		if !ok {
			return fmt.Errorf("no stream with id %d", id)
		}

		session := playback.New(playback.OptionsFromConfig())
		defer session.Close()

		return playRecord(cmd.Context(), session, record, cmd.OutOrStdout())
	},
}

// playRecord plays record and blocks until the player exits, fails to start or ctx is done.
func playRecord(ctx context.Context, session *playback.Session, record stream.Record, out io.Writer) error {
	if _, err := session.Select(ctx, []stream.Record{record}, 0); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s Loading: %s\n", icon.Get(icon.Progress), record.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-session.Events():
			if !session.Apply(ev) {
				continue
			}

			switch ev.Kind {
			case playback.EventStarted:
				_, _ = fmt.Fprintf(out, "%s Playing: %s\n", style.Fg(color.Green)(icon.Get(icon.Play)), style.Fg(color.Purple)(record.Name))
				if viper.GetBool(key.HistorySaveOnPlay) {
					if err := history.Save(record); err != nil {
						log.Warnf("save history: %v", err)
					}
				}
			case playback.EventFailed:
				return fmt.Errorf("play %q: %w", record.Name, ev.Err)
			case playback.EventExited:
				return nil
			}
		}
	}
}
