// Package playback owns the current selection and the single player handle.
//
// A Session is driven from one goroutine. Slow work (URL resolution and
// player start) runs in the background and reports back through Events;
// the owner applies each event with Apply, which drops anything that belongs
// to a superseded selection.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/player"
	"github.com/quietstream/quietstream/resolver"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var (
	// ErrEmptyView is returned when navigating or selecting in an empty view.
	ErrEmptyView = errors.New("nothing to play")
	// ErrIndexOutOfRange is returned when Select gets an index outside the view.
	ErrIndexOutOfRange = errors.New("selection out of range")
	// ErrNotPlaying is returned by operations that need an active player.
	ErrNotPlaying = errors.New("nothing is playing")
)

// FullVolume is the level ToggleVolume raises to.
const FullVolume = 100.0

const eventBuffer = 32

// State is the session lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Factory creates a fresh, unstarted player.
type Factory func() (player.Player, error)

// Options configures a Session.
type Options struct {
	Player   Factory
	Resolver resolver.Resolver
	// ReducedVolume is the lower level of the volume toggle, 0-100.
	ReducedVolume float64
	// LoopOnEnd restarts media from the beginning when it ends.
	LoopOnEnd bool
}

// OptionsFromConfig reads the player.* settings.
func OptionsFromConfig() Options {
	return Options{
		Player:        player.FromConfig,
		Resolver:      resolver.FromConfig(),
		ReducedVolume: float64(viper.GetInt(key.PlayerReducedVolume)),
		LoopOnEnd:     viper.GetBool(key.PlayerLoopOnEnd),
	}
}

// Session is the playback state machine. It is not safe for concurrent use.
type Session struct {
	opts   Options
	events chan Event

	state   State
	token   uint64
	current mo.Option[int64]
	index   int
	handle  player.Player
	cancel  context.CancelFunc
	lastErr error

	wg sync.WaitGroup
}

// New returns an idle session.
func New(opts Options) *Session {
	opts.ReducedVolume = util.Clamp(opts.ReducedVolume, 0, FullVolume)
	return &Session{
		opts:    opts,
		events:  make(chan Event, eventBuffer),
		current: mo.None[int64](),
		cancel:  func() {},
	}
}

// Events delivers background results. Pass each one to Apply.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Current returns the id of the selected record, kept even after a failed start.
func (s *Session) Current() mo.Option[int64] {
	return s.current
}

// Index returns the position of the selection in the view it was made from.
func (s *Session) Index() int {
	return s.index
}

// Err returns the most recent failure, cleared by the next successful start.
func (s *Session) Err() error {
	return s.lastErr
}

// Select tears down any playing media and starts loading view[index].
func (s *Session) Select(ctx context.Context, view []stream.Record, index int) (stream.Record, error) {
	if len(view) == 0 {
		return stream.Record{}, ErrEmptyView
	}
	if index < 0 || index >= len(view) {
		return stream.Record{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(view))
	}

	s.teardown()

	record := view[index]
	s.token++
	s.current = mo.Some(record.ID)
	s.index = index
	s.state = Loading
	s.lastErr = nil

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	token := s.token
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.load(loadCtx, token, record)
	}()

	log.Infof("loading %q (%s)", record.Name, record.Kind)
	return record, nil
}

// Next selects the record after the current one, wrapping around.
func (s *Session) Next(ctx context.Context, view []stream.Record) (stream.Record, error) {
	n := len(view)
	if n == 0 {
		return stream.Record{}, ErrEmptyView
	}
	return s.Select(ctx, view, (s.position(view)+1)%n)
}

// Prev selects the record before the current one, wrapping around.
func (s *Session) Prev(ctx context.Context, view []stream.Record) (stream.Record, error) {
	n := len(view)
	if n == 0 {
		return stream.Record{}, ErrEmptyView
	}
	return s.Select(ctx, view, (s.position(view)-1+n)%n)
}

// position locates the current record in view, falling back to the stored index.
func (s *Session) position(view []stream.Record) int {
	if id, ok := s.current.Get(); ok {
		if _, i, found := lo.FindIndexOf(view, func(r stream.Record) bool { return r.ID == id }); found {
			return i
		}
	}
	return util.Clamp(s.index, 0, len(view)-1)
}

// Stop releases the player. Stopping with nothing loaded is a no-op.
func (s *Session) Stop() error {
	if s.state == Idle || s.state == Stopped {
		return nil
	}

	s.teardown()
	s.token++
	s.state = Stopped
	log.Info("playback stopped")
	return nil
}

// ToggleVolume switches between full volume and the reduced level, returning the new level.
func (s *Session) ToggleVolume() (float64, error) {
	if s.handle == nil || s.state != Playing {
		return 0, ErrNotPlaying
	}

	v, err := s.handle.Volume()
	if err != nil {
		return 0, fmt.Errorf("read volume: %w", err)
	}

	next := lo.Ternary(v < FullVolume, FullVolume, s.opts.ReducedVolume)
	if err := s.handle.SetVolume(next); err != nil {
		return 0, fmt.Errorf("set volume: %w", err)
	}
	return next, nil
}

// Apply folds a background event into the session and reports whether it was current.
// Events from a superseded selection are dropped; a stale player is closed.
func (s *Session) Apply(ev Event) bool {
	if ev.Token != s.token {
		if ev.Kind == EventStarted && ev.Player != nil {
			log.Debugf("closing stale player for %q", ev.Record.Name)
			go func(p player.Player) { _ = p.Close() }(ev.Player)
		}
		return false
	}

	switch ev.Kind {
	case EventStarted:
		s.handle = ev.Player
		s.state = Playing
		s.lastErr = nil
		s.watch(ev.Token, ev.Record, ev.Player)
		log.Infof("playing %q", ev.Record.Name)

	case EventFailed:
		s.state = Idle
		s.lastErr = ev.Err
		s.cancel()
		log.Errorf("could not play %q: %v", ev.Record.Name, ev.Err)

	case EventEnd:
		if s.handle == nil || s.state != Playing {
			return false
		}
		if !s.opts.LoopOnEnd {
			return true
		}
		if err := s.handle.Seek(0); err != nil {
			log.Warnf("restart %q: seek: %v", ev.Record.Name, err)
			return true
		}
		if err := s.handle.Resume(); err != nil {
			log.Warnf("restart %q: resume: %v", ev.Record.Name, err)
		}
		log.Infof("restarting %q", ev.Record.Name)

	case EventExited:
		if s.handle != nil {
			s.handle.DetachEnd()
			_ = s.handle.Close()
			s.handle = nil
		}
		s.state = Idle
		log.Info("player exited")
	}

	return true
}

// Close stops playback and waits for background loads to finish.
// Players started by loads that were still queued are closed too.
func (s *Session) Close() error {
	s.teardown()
	s.token++
	s.state = Idle
	s.wg.Wait()
	s.drain()
	return nil
}

func (s *Session) drain() {
	for {
		select {
		case ev := <-s.events:
			if ev.Kind == EventStarted && ev.Player != nil {
				_ = ev.Player.Close()
			}
		default:
			return
		}
	}
}

// teardown cancels in-flight loading and releases the player, end handler first.
func (s *Session) teardown() {
	s.cancel()
	s.cancel = func() {}

	if s.handle == nil {
		return
	}
	s.handle.DetachEnd()
	if err := s.handle.Close(); err != nil {
		log.Warnf("close player: %v", err)
	}
	s.handle = nil
}

func (s *Session) watch(token uint64, record stream.Record, p player.Player) {
	if s.opts.LoopOnEnd {
		err := p.OnEnd(func() {
			s.post(Event{Kind: EventEnd, Token: token, Record: record})
		})
		if err != nil {
			log.Warnf("end of media will not be detected: %v", err)
		}
	}

	go func() {
		<-p.Wait()
		s.post(Event{Kind: EventExited, Token: token, Record: record})
	}()
}

// load resolves the playable URL and starts a player. It never touches session state.
func (s *Session) load(ctx context.Context, token uint64, record stream.Record) {
	fail := func(err error) {
		s.post(Event{Kind: EventFailed, Token: token, Record: record, Err: err})
	}

	url := record.Link
	if record.NeedsResolution() {
		if s.opts.Resolver == nil {
			fail(resolver.ErrNotInstalled)
			return
		}
		resolved, err := s.opts.Resolver.Resolve(ctx, record.Link)
		if err != nil {
			fail(err)
			return
		}
		url = resolved
	}

	if ctx.Err() != nil {
		fail(ctx.Err())
		return
	}

	if s.opts.Player == nil {
		fail(errors.New("no player configured"))
		return
	}
	p, err := s.opts.Player()
	if err != nil {
		fail(err)
		return
	}

	if err := p.Play(url, record.Name); err != nil {
		_ = p.Close()
		fail(err)
		return
	}

	// Closed or superseded while the player was starting.
	if ctx.Err() != nil {
		_ = p.Close()
		return
	}

	s.post(Event{Kind: EventStarted, Token: token, Record: record, Player: p, URL: url})
}

// post never blocks: background goroutines must not wait on the owner.
func (s *Session) post(ev Event) {
	select {
	case s.events <- ev:
	default:
		log.Warnf("playback event %s dropped, queue full", ev.Kind)
		if ev.Player != nil {
			_ = ev.Player.Close()
		}
	}
}
