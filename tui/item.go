package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/spf13/viper"
)

const playingMarker = "▶"

type menuEntry string

const (
	menuCatalog menuEntry = "Catalog manager"
	menuPlayer  menuEntry = "Player"
	menuQuit    menuEntry = "Quit"
)

// listItem implements list.Item for menu entries and catalog records.
type listItem struct {
	internal interface{}
	playing  bool
}

func kindIcon(k stream.Kind) string {
	if k == stream.KindVideo {
		return icon.Get(icon.Video)
	}
	return icon.Get(icon.Stream)
}

func kindLabel(k stream.Kind) string {
	label := strings.TrimSpace(kindIcon(k) + " " + k.String())
	if k == stream.KindVideo {
		return style.Fg(style.VideoColor)(label)
	}
	return style.Fg(style.StreamColor)(label)
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case stream.Record:
		title = e.Name
		if t.playing {
			title = lipgloss.NewStyle().Bold(true).Foreground(style.PlayingColor).Render(playingMarker) + " " + title
		}
	case menuEntry:
		title = string(e)
	default:
		title = t.FilterValue()
	}

	return
}

func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case stream.Record:
		parts := []string{
			kindLabel(e.Kind),
		}
		if tags := e.Tags(); len(tags) > 0 {
			parts = append(parts, style.Fg(style.TagColor)(strings.Join(tags, ", ")))
		}
		if viper.GetBool(key.TUIShowURLs) {
			parts = append(parts, style.Faint(e.Link))
		}
		description = strings.Join(parts, " • ")
	case menuEntry:
		switch e {
		case menuCatalog:
			description = "Add, edit, import, export and validate links"
		case menuPlayer:
			description = "Search and play"
		}
	}

	return
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case stream.Record:
		return e.Name
	case menuEntry:
		return string(e)
	default:
		return ""
	}
}

func (t *listItem) record() (stream.Record, bool) {
	r, ok := t.internal.(stream.Record)
	return r, ok
}
