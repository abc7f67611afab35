package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/player"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/validator"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.HistorySaveOnPlay, false)
}

type stubPlayer struct {
	mu     sync.Mutex
	url    string
	exited chan struct{}
	closed bool
}

func (p *stubPlayer) Play(url, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	return nil
}
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

func newStubPlayer() (player.Player, error) {
	return &stubPlayer{exited: make(chan struct{})}, nil
}

func newTestBubble(t *testing.T) *statefulBubble {
	t.Helper()

	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "streams.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	b := newBubble(ctx, &Options{
		Store:     s,
		Validator: validator.New(validator.Options{Timeout: time.Second}),
		Playback:  playback.Options{Player: newStubPlayer, ReducedVolume: 30},
	})
	b.resize(120, 40)

	t.Cleanup(func() {
		_ = b.close()
		_ = s.Close()
	})
	return b
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func send(b *statefulBubble, msgs ...tea.Msg) {
	for _, msg := range msgs {
		b.Update(msg)
	}
}

func typeText(b *statefulBubble, text string) {
	for _, r := range text {
		send(b, runes(string(r)))
	}
}

func seed(b *statefulBubble, records ...stream.Record) {
	for _, r := range records {
		if _, _, err := b.catalog.Add(b.ctx, r); err != nil {
			panic(err)
		}
	}
	send(b, b.loadCatalog()())
}

func nextPlaybackEvent(b *statefulBubble) tea.Msg {
	select {
	case ev := <-b.session.Events():
		return playbackEventMsg(ev)
	case <-time.After(2 * time.Second):
		return nil
	}
}

func TestMenu(t *testing.T) {
	Convey("Given the main menu", t, func() {
		b := newTestBubble(t)
		So(b.state, ShouldEqual, menuState)

		Convey("Enter on the first entry opens the catalog", func() {
			send(b, enter)
			So(b.state, ShouldEqual, catalogState)

			Convey("And q goes back", func() {
				send(b, runes("q"))
				So(b.state, ShouldEqual, menuState)
			})
		})

		Convey("Down then enter opens the player", func() {
			send(b, runes("j"), enter)
			So(b.state, ShouldEqual, playerState)
		})
	})
}

func TestCatalogScreen(t *testing.T) {
	Convey("Given the catalog screen", t, func() {
		b := newTestBubble(t)
		send(b, enter)

		Convey("Adding through the form stores the record", func() {
			send(b, runes("a"))
			So(b.state, ShouldEqual, formState)

			typeText(b, "Lofi")
			send(b, tab)
			typeText(b, "https://example.com/lofi.m3u8")
			send(b, tab)
			typeText(b, "music, chill")
			send(b, enter)

			So(b.state, ShouldEqual, catalogState)
			records := b.catalog.Snapshot().Records()
			So(records, ShouldHaveLength, 1)
			So(records[0].Name, ShouldEqual, "Lofi")
			So(records[0].Kind, ShouldEqual, stream.KindStream)
			So(b.catalogC.Items(), ShouldHaveLength, 1)
		})

		Convey("The form reports a missing name without touching the store", func() {
			send(b, runes("a"), enter)
			So(b.state, ShouldEqual, formState)
			So(b.form.err, ShouldEqual, stream.ErrEmptyName)
			So(b.catalog.Snapshot().Len(), ShouldEqual, 0)

			Convey("And esc abandons it", func() {
				send(b, esc)
				So(b.state, ShouldEqual, catalogState)
			})
		})

		Convey("The kind toggles from the form", func() {
			send(b, runes("a"))
			typeText(b, "Talk")
			send(b, tab)
			typeText(b, "https://example.com/watch?v=1")
			send(b, tea.KeyMsg{Type: tea.KeyCtrlT}, enter)

			So(b.catalog.Snapshot().Records()[0].Kind, ShouldEqual, stream.KindVideo)
		})

		Convey("With records present", func() {
			seed(b,
				stream.Record{Name: "Jazz FM", Link: "https://example.com/jazz", Categories: "music"},
				stream.Record{Name: "News 24", Link: "https://example.com/news", Categories: "news"},
			)
			So(b.catalogC.Items(), ShouldHaveLength, 2)

			Convey("Deleting asks first", func() {
				send(b, runes("d"))
				So(b.state, ShouldEqual, confirmState)
				So(b.confirmBody, ShouldContainSubstring, "Jazz FM")

				Convey("And n keeps the record", func() {
					send(b, runes("n"))
					So(b.state, ShouldEqual, catalogState)
					So(b.catalog.Snapshot().Len(), ShouldEqual, 2)
				})

				Convey("And y removes it", func() {
					send(b, runes("y"))
					So(b.state, ShouldEqual, catalogState)
					So(b.catalog.Snapshot().Len(), ShouldEqual, 1)
					So(b.catalogC.Items(), ShouldHaveLength, 1)
				})
			})

			Convey("Editing keeps the id", func() {
				original := b.catalog.Snapshot().Records()[0]
				send(b, runes("e"))
				So(b.state, ShouldEqual, formState)
				typeText(b, " Live")
				send(b, enter)

				updated, ok := b.catalog.Lookup(original.ID).Get()
				So(ok, ShouldBeTrue)
				So(updated.Name, ShouldEqual, "Jazz FM Live")
				So(b.catalog.Snapshot().Len(), ShouldEqual, 2)
			})

			Convey("Searching filters as you type", func() {
				send(b, runes("/"))
				So(b.searching, ShouldBeTrue)
				typeText(b, "NEWS")
				So(b.catalogC.Items(), ShouldHaveLength, 1)

				Convey("And enter keeps the filter", func() {
					send(b, enter)
					So(b.searching, ShouldBeFalse)
					So(b.catalogQuery, ShouldEqual, "NEWS")
					So(b.catalogC.Items(), ShouldHaveLength, 1)
				})

				Convey("And esc clears it", func() {
					send(b, esc)
					So(b.searching, ShouldBeFalse)
					So(b.catalogC.Items(), ShouldHaveLength, 2)
				})
			})

			Convey("Export writes the default file", func() {
				send(b, runes("x"))
				So(b.state, ShouldEqual, pathState)
				So(b.pathC.Value(), ShouldEqual, viper.GetString(key.ExportDefaultFile))

				b.pathC.SetValue("backup")
				path := "backup.json"
				msg := b.exportFile(path)()
				send(b, msg)

				So(b.state, ShouldEqual, catalogState)
				data, err := afero.ReadFile(filesystem.API(), path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "Jazz FM")
			})
		})

		Convey("Import refuses a missing file", func() {
			send(b, runes("i"))
			So(b.state, ShouldEqual, pathState)
			typeText(b, "missing.json")
			send(b, enter)
			So(b.state, ShouldEqual, pathState)
			So(b.busy, ShouldBeFalse)
		})

		Convey("Import loads a document and reloads the lists", func() {
			doc := `[{"name": "Radio", "link": "https://example.com/radio", "categories": "", "kind": "Stream"}]`
			So(afero.WriteFile(filesystem.API(), "incoming.json", []byte(doc), 0o644), ShouldBeNil)

			send(b, runes("i"))
			msg := b.importFile("incoming.json")()
			send(b, msg)

			So(b.state, ShouldEqual, catalogState)
			So(b.catalogC.Items(), ShouldHaveLength, 1)
		})
	})
}

func TestValidationConfirmation(t *testing.T) {
	Convey("Given a validation that found broken links", t, func() {
		b := newTestBubble(t)
		send(b, enter)

		var broken []stream.Record
		for i := 1; i <= 12; i++ {
			r, _, err := b.catalog.Add(b.ctx, stream.Record{
				Name: fmt.Sprintf("dead %d", i),
				Link: fmt.Sprintf("https://example.invalid/%d", i),
			})
			So(err, ShouldBeNil)
			broken = append(broken, r)
		}
		b.newState(validateState)
		b.finishValidation(validator.Result{Broken: broken})

		Convey("Then at most ten names are listed", func() {
			So(b.state, ShouldEqual, confirmState)
			So(b.confirmBody, ShouldContainSubstring, "dead 10")
			So(b.confirmBody, ShouldNotContainSubstring, "dead 11")
			So(b.confirmBody, ShouldContainSubstring, "...and 2 more")
		})

		Convey("Then confirming deletes every broken record", func() {
			send(b, runes("y"))
			So(b.state, ShouldEqual, catalogState)
			So(b.catalog.Snapshot().Len(), ShouldEqual, 0)
		})
	})

	Convey("Given a clean validation", t, func() {
		b := newTestBubble(t)
		send(b, enter)
		b.newState(validateState)
		b.finishValidation(validator.Result{Healthy: []stream.Record{{Name: "ok"}}})

		Convey("Then it returns to the catalog", func() {
			So(b.state, ShouldEqual, catalogState)
		})
	})
}

func TestPlayerScreen(t *testing.T) {
	Convey("Given the player screen with two streams", t, func() {
		b := newTestBubble(t)
		seed(b,
			stream.Record{Name: "Alpha", Link: "https://example.com/a.m3u8"},
			stream.Record{Name: "Beta", Link: "https://example.com/b.m3u8"},
		)
		send(b, runes("j"), enter)
		So(b.state, ShouldEqual, playerState)

		Convey("Enter starts loading the selected stream", func() {
			send(b, enter)
			So(b.session.State(), ShouldEqual, playback.Loading)
			So(b.playerStatus, ShouldEqual, "Loading: Alpha…")

			Convey("And the started event marks it as playing", func() {
				send(b, nextPlaybackEvent(b))
				So(b.session.State(), ShouldEqual, playback.Playing)
				So(b.playerStatus, ShouldEqual, "▶ Playing: Alpha")
				So(b.playerC.Items()[0].(*listItem).playing, ShouldBeTrue)

				Convey("And d moves to the next one", func() {
					send(b, runes("d"))
					So(b.playerStatus, ShouldEqual, "Loading: Beta…")
					So(b.playerC.Index(), ShouldEqual, 1)
				})

				Convey("And a wraps to the last one", func() {
					send(b, runes("a"))
					So(b.playerStatus, ShouldEqual, "Loading: Beta…")
				})

				Convey("And s stops it", func() {
					send(b, runes("s"))
					So(b.session.State(), ShouldEqual, playback.Stopped)
					So(b.playerStatus, ShouldBeEmpty)
				})
			})
		})

		Convey("Stop while idle is harmless", func() {
			send(b, runes("s"))
			So(b.session.State(), ShouldEqual, playback.Idle)
		})

		Convey("Navigation follows the search", func() {
			send(b, runes("/"))
			typeText(b, "beta")
			send(b, enter)
			So(b.playerView, ShouldHaveLength, 1)

			send(b, runes("d"))
			So(b.playerStatus, ShouldEqual, "Loading: Beta…")
		})
	})
}

func TestItem(t *testing.T) {
	Convey("Given a record item", t, func() {
		item := &listItem{internal: stream.Record{Name: "Alpha", Categories: "a, b, a", Kind: stream.KindVideo}}

		Convey("Then the title is the name", func() {
			So(item.Title(), ShouldEqual, "Alpha")
			So(item.FilterValue(), ShouldEqual, "Alpha")
		})

		Convey("Then the description carries kind and tags", func() {
			So(item.Description(), ShouldContainSubstring, "Video")
			So(item.Description(), ShouldContainSubstring, "a, b")
		})

		Convey("Then the playing row is marked", func() {
			item.playing = true
			So(strings.Contains(item.Title(), playingMarker), ShouldBeTrue)
		})
	})
}
