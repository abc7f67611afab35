// Package mini is a prompt driven player for terminals where the full screen interface is unwanted.
package mini

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
)

var truncateAt = 80

type Options struct {
	// Continue starts with the most recently played stream.
	Continue bool

	Store    *store.Store
	Playback playback.Options
}

// ask shows one prompt and stores the answer in response.
type ask func(prompt survey.Prompt, response any) error

type mini struct {
	ctx     context.Context
	catalog *catalog.Catalog
	session *playback.Session
	ask     ask

	state         state
	statesHistory util.Stack[state]

	query string
	view  []stream.Record
	index int
}

func newMini(ctx context.Context, options *Options) *mini {
	return &mini{
		ctx:           ctx,
		catalog:       catalog.New(options.Store),
		session:       playback.New(options.Playback),
		statesHistory: util.Stack[state]{},
		ask: func(prompt survey.Prompt, response any) error {
			return survey.AskOne(prompt, response)
		},
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
		return
	}
	m.setState(searchState)
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{playState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

// Run loops over the prompts until the user quits or ctx is cancelled.
func Run(ctx context.Context, options *Options) error {
	m := newMini(ctx, options)
	defer m.session.Close()

	if w, _, err := util.TerminalSize(); err == nil {
		truncateAt = w - 10
	}

	return m.run(options.Continue)
}

func (m *mini) run(resume bool) error {
	snap, err := m.catalog.Load(m.ctx)
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		fail("The catalog is empty, add streams first")
		return nil
	}

	m.state = searchState
	if resume {
		m.state = historyState
	}

	for m.state != quitState {
		if err := m.ctx.Err(); err != nil {
			return nil
		}

		err := m.handleState()
		switch {
		case errors.Is(err, terminal.InterruptErr):
			return nil
		case err != nil:
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case historyState:
		return m.handleHistoryState()
	case searchState:
		return m.handleSearchState()
	case selectState:
		return m.handleSelectState()
	case playState:
		return m.handlePlayState()
	default:
		return fmt.Errorf("unknown state %d", m.state)
	}
}
