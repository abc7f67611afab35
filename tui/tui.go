package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/validator"
)

// Options wires the interface to its collaborators.
type Options struct {
	// Continue opens the player screen and replays the last played stream.
	Continue bool

	Store     *store.Store
	Validator *validator.Validator
	Playback  playback.Options
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, options *Options) error {
	bubble := newBubble(ctx, options)
	defer func() {
		if err := bubble.close(); err != nil {
			log.Warn(err)
		}
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
