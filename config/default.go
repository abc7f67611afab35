package config

import (
	"fmt"
	"strings"

	"github.com/quietstream/quietstream/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Default maps every registered key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func between(low, high int) func(any) error {
	return func(v any) error {
		if n := v.(int); n < low || n > high {
			return fmt.Errorf("must be between %d and %d, got %d", low, high, n)
		}
		return nil
	}
}

func positive(v any) error {
	if n := v.(int); n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

func oneOf(options ...string) func(any) error {
	return func(v any) error {
		if !lo.Contains(options, v.(string)) {
			return fmt.Errorf("must be one of %s", strings.Join(options, ", "))
		}
		return nil
	}
}

func notEmpty(v any) error {
	if strings.TrimSpace(v.(string)) == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func init() {
	register := func(k string, v any, check func(any) error, desc string) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc, check: check}
		EnvExposed = append(EnvExposed, k)
	}

	levels := lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string {
		return l.String()
	})

	register(key.StorePath, "", nil, "Path to the SQLite catalog database.\nEmpty means streams.db inside the data directory")
	register(key.StoreSeed, true, nil, "Seed an empty catalog with the built-in entries on first start")

	register(key.ValidatorTimeout, 5, positive, "Seconds to wait for a single link probe")
	register(key.ValidatorInspectPlaylists, true, nil, "Download and parse .m3u8 playlists after a successful probe")

	register(key.ResolverPath, "yt-dlp", notEmpty, "yt-dlp executable used to resolve Video links")
	register(key.ResolverFormat, "bestaudio/best", notEmpty, "yt-dlp format selector")
	register(key.ResolverTimeout, 60, positive, "Seconds to wait for yt-dlp to resolve a link")

	register(key.Player, "mpv", oneOf("mpv", "iina"), "Media player to use, mpv or iina")
	register(key.PlayerReducedVolume, 30, between(0, 100), "Volume level of the lower volume toggle step, 0-100")
	register(key.PlayerLoopOnEnd, true, nil, "Restart the current stream when it reaches its end")

	register(key.ExportDefaultFile, "streams_backup.json", notEmpty, "File name suggested by the export prompt")
	register(key.HistorySaveOnPlay, true, nil, "Remember a stream when it starts playing")
	register(key.SearchShowQuerySuggestions, true, nil, "Suggest earlier filters while typing one")

	register(key.IconsVariant, "plain", oneOf("emoji", "kaomoji", "plain", "squares", "nerd"), "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")

	register(key.TUIItemSpacing, 1, between(0, 5), "Blank lines between list items")
	register(key.TUISearchPromptString, "> ", nil, "Prompt shown while filtering a list")
	register(key.TUIShowURLs, true, nil, "Show links under list items")

	register(key.LogsWrite, false, nil, "Write logs")
	register(key.LogsLevel, "info", oneOf(append(levels, "warn")...), "Available options are: (from less to most verbose)\n"+strings.Join(levels, ", "))
	register(key.LogsJson, false, nil, "Use json format for logs")
	register(key.CliColored, true, nil, "Enable colored CLI output")
}
