package mini

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/history"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/player"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.HistorySaveOnPlay, false)
}

type stubPlayer struct {
	mu     sync.Mutex
	exited chan struct{}
	closed bool
}

func (p *stubPlayer) Play(string, string) error { return nil }
func (p *stubPlayer) Seek(float64) error        { return nil }
func (p *stubPlayer) Resume() error             { return nil }
func (p *stubPlayer) Volume() (float64, error)  { return 100, nil }
func (p *stubPlayer) SetVolume(float64) error   { return nil }
func (p *stubPlayer) OnEnd(func()) error        { return nil }
func (p *stubPlayer) DetachEnd()                {}
func (p *stubPlayer) IsRunning() bool           { return true }
func (p *stubPlayer) Wait() <-chan struct{}     { return p.exited }
func (p *stubPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.exited)
	}
	return nil
}

// script answers prompts in order and interrupts once it runs out.
type script struct {
	mu      sync.Mutex
	answers []any
	asked   int
}

func (s *script) ask(_ survey.Prompt, response any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.asked++
	if len(s.answers) == 0 {
		return terminal.InterruptErr
	}

	next := s.answers[0]
	s.answers = s.answers[1:]
	switch r := response.(type) {
	case *string:
		*r = next.(string)
	case *int:
		*r = next.(int)
	}
	return nil
}

func newTestMini(t *testing.T, answers ...any) (*mini, *script, []stream.Record) {
	t.Helper()

	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "streams.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	m := newMini(ctx, &Options{
		Store: s,
		Playback: playback.Options{
			Player: func() (player.Player, error) {
				return &stubPlayer{exited: make(chan struct{})}, nil
			},
			ReducedVolume: 30,
		},
	})
	sc := &script{answers: answers}
	m.ask = sc.ask

	var records []stream.Record
	for _, r := range []stream.Record{
		{Name: "Jazz radio", Link: "https://example.com/jazz.m3u8", Categories: "music"},
		{Name: "News", Link: "https://example.com/news.m3u8", Categories: "news"},
	} {
		created, _, err := m.catalog.Add(ctx, r)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		records = append(records, created)
	}

	t.Cleanup(func() {
		_ = m.session.Close()
		_ = s.Close()
	})
	return m, sc, records
}

func currentID(m *mini) int64 {
	id, _ := m.session.Current().Get()
	return id
}

func TestMini(t *testing.T) {
	Convey("Given a catalog with two streams", t, func() {
		Convey("Choosing a result plays it", func() {
			m, _, records := newTestMini(t, "", 1, optionVolume, optionQuit)

			So(m.run(false), ShouldBeNil)
			So(m.state, ShouldEqual, quitState)
			So(m.session.State(), ShouldEqual, playback.Playing)
			So(currentID(m), ShouldEqual, records[1].ID)
		})

		Convey("Next moves to the following result", func() {
			m, _, records := newTestMini(t, "", 0, optionNext, optionQuit)

			So(m.run(false), ShouldBeNil)
			So(currentID(m), ShouldEqual, records[1].ID)
		})

		Convey("Stop goes back to the results", func() {
			// two records, then "Search again" and "Quit"
			m, _, _ := newTestMini(t, "", 0, optionStop, 3)

			So(m.run(false), ShouldBeNil)
			So(m.state, ShouldEqual, quitState)
			So(m.session.State(), ShouldEqual, playback.Stopped)
		})

		Convey("A filter without matches asks again", func() {
			m, sc, _ := newTestMini(t, "nothing like this")

			So(m.run(false), ShouldBeNil)
			So(m.state, ShouldEqual, searchState)
			So(sc.asked, ShouldEqual, 2)
		})

		Convey("A filter narrows the results", func() {
			m, _, records := newTestMini(t, "news", 0, optionQuit)

			So(m.run(false), ShouldBeNil)
			So(m.view, ShouldHaveLength, 1)
			So(currentID(m), ShouldEqual, records[1].ID)
		})

		Convey("Continuing replays the last played stream", func() {
			m, _, records := newTestMini(t, optionQuit)
			So(history.Save(records[1]), ShouldBeNil)
			Reset(func() { _ = history.Clear() })

			So(m.run(true), ShouldBeNil)
			So(currentID(m), ShouldEqual, records[1].ID)
			So(m.state, ShouldEqual, quitState)
		})

		Convey("Continuing without history falls back to search", func() {
			_ = history.Clear()
			m, _, _ := newTestMini(t)

			So(m.run(true), ShouldBeNil)
			So(m.state, ShouldEqual, searchState)
			So(m.session.State(), ShouldEqual, playback.Idle)
		})
	})
}
