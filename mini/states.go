package mini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/quietstream/quietstream/history"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/query"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type state int

const (
	searchState state = iota + 1
	selectState
	playState
	historyState
	quitState
)

const (
	optionNext   = "Next"
	optionPrev   = "Previous"
	optionVolume = "Toggle volume"
	optionStop   = "Stop"
	optionSearch = "Search again"
	optionQuit   = "Quit"
)

const pageSize = 10

func title(text string) {
	fmt.Println(style.New().Bold(true).Foreground(style.AccentColor).Render(text))
}

func fail(text string) {
	fmt.Println(style.Fg(style.ErrorColor)(icon.Get(icon.Fail) + " " + text))
}

type answer struct {
	choice string
	err    error
}

// promptAsync shows a select prompt in the background so playback events
// keep flowing while the user decides.
func (m *mini) promptAsync(prompt *survey.Select) <-chan answer {
	answers := make(chan answer, 1)
	go func() {
		var a answer
		a.err = m.ask(prompt, &a.choice)
		answers <- a
	}()
	return answers
}

func (m *mini) handleSearchState() error {
	title("Search streams")

	var in string
	err := m.ask(&survey.Input{
		Message: "Filter, empty for all:",
		Default: m.query,
		Suggest: query.SuggestMany,
	}, &in)
	if err != nil {
		return err
	}

	m.query = strings.TrimSpace(in)
	m.view = m.catalog.Filter(m.query)
	if len(m.view) == 0 {
		fail("No streams match")
		return nil
	}

	if m.query != "" {
		if err := query.Remember(m.query, 1); err != nil {
			log.Warnf("remember query: %v", err)
		}
	}

	m.newState(selectState)
	return nil
}

func (m *mini) label(r stream.Record) string {
	marker := "  "
	if id, ok := m.session.Current().Get(); ok && id == r.ID {
		marker = "▶ "
	}
	return fmt.Sprintf("%s%s (%s)", marker, util.Shorten(r.Name, truncateAt), r.Kind)
}

func (m *mini) handleSelectState() error {
	options := lo.Map(m.view, func(r stream.Record, _ int) string {
		return m.label(r)
	})
	options = append(options, optionSearch, optionQuit)

	message := "All streams"
	if m.query != "" {
		message = fmt.Sprintf("Results for %q", m.query)
	}

	var choice int
	if err := m.ask(&survey.Select{Message: message, Options: options, PageSize: pageSize}, &choice); err != nil {
		return err
	}

	switch choice {
	case len(m.view):
		m.previousState()
		return nil
	case len(m.view) + 1:
		m.setState(quitState)
		return nil
	}

	return m.play(func() (stream.Record, error) {
		return m.session.Select(m.ctx, m.view, choice)
	})
}

// play runs a selection and waits until it is playing or has failed.
func (m *mini) play(selectFn func() (stream.Record, error)) error {
	record, err := selectFn()
	if err != nil {
		fail(err.Error())
		return nil
	}

	erase := util.PrintErasable(fmt.Sprintf("Loading: %s…", record.Name))
	err = m.awaitStart()
	erase()

	switch {
	case m.ctx.Err() != nil:
		return nil
	case err != nil:
		fail(fmt.Sprintf("Could not play %s: %v", record.Name, err))
		if m.state == playState {
			m.previousState()
		}
		return nil
	}

	m.newState(playState)
	return nil
}

func (m *mini) awaitStart() error {
	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case ev := <-m.session.Events():
			if !m.session.Apply(ev) {
				continue
			}

			switch ev.Kind {
			case playback.EventStarted:
				m.played(ev.Record)
				return nil
			case playback.EventFailed:
				return ev.Err
			}
		}
	}
}

func (m *mini) played(record stream.Record) {
	if !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}
	if err := history.Save(record); err != nil {
		log.Warnf("save history: %v", err)
	}
}

func (m *mini) handlePlayState() error {
	current := m.view[util.Clamp(m.session.Index(), 0, len(m.view)-1)]
	title(fmt.Sprintf("%s Playing: %s", icon.Get(icon.Play), current.Name))

	var options []string
	if len(m.view) > 1 {
		options = append(options, optionNext, optionPrev)
	}
	options = append(options, optionVolume, optionStop, optionSearch, optionQuit)

	answers := m.promptAsync(&survey.Select{Message: "Controls", Options: options})
	for {
		select {
		case <-m.ctx.Done():
			return nil
		case ev := <-m.session.Events():
			if m.session.Apply(ev) && ev.Kind == playback.EventExited {
				log.Infof("player for %q closed", current.Name)
			}
		case a := <-answers:
			if a.err != nil {
				return a.err
			}
			return m.control(a.choice)
		}
	}
}

func (m *mini) control(choice string) error {
	switch choice {
	case optionNext:
		return m.play(func() (stream.Record, error) {
			return m.session.Next(m.ctx, m.view)
		})
	case optionPrev:
		return m.play(func() (stream.Record, error) {
			return m.session.Prev(m.ctx, m.view)
		})
	case optionVolume:
		level, err := m.session.ToggleVolume()
		switch {
		case errors.Is(err, playback.ErrNotPlaying):
			fail("Nothing is playing")
		case err != nil:
			fail(err.Error())
		default:
			fmt.Printf("Volume %.0f%%\n", level)
		}
	case optionStop:
		if err := m.session.Stop(); err != nil {
			return err
		}
		m.previousState()
	case optionSearch:
		m.statesHistory.Clear()
		m.setState(searchState)
	case optionQuit:
		m.setState(quitState)
	}

	return nil
}

func (m *mini) handleHistoryState() error {
	m.setState(searchState)

	last, ok := history.Last().Get()
	if !ok {
		fail("Nothing played yet")
		return nil
	}

	m.view = m.catalog.Snapshot().Records()
	_, index, found := lo.FindIndexOf(m.view, func(r stream.Record) bool {
		return r.ID == last.ID
	})
	if !found {
		fail(fmt.Sprintf("%s is no longer in the catalog", last.Name))
		return nil
	}

	m.statesHistory.Push(searchState)
	m.setState(selectState)
	return m.play(func() (stream.Record, error) {
		return m.session.Select(m.ctx, m.view, index)
	})
}
