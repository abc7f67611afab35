// Package player drives external media players.
// mpv is controlled over its JSON-IPC socket; IINA is launched without IPC.
package player

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/quietstream/quietstream/key"
	"github.com/spf13/viper"
)

var (
	// ErrUnsupported is returned by backends that cannot perform an operation.
	ErrUnsupported = errors.New("not supported by this player")
	// ErrNotRunning is returned when the player process is gone.
	ErrNotRunning = errors.New("player is not running")
)

// Player is a single running media player instance.
type Player interface {
	// Play starts the player on url with the given window title.
	Play(url string, title string) error

	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error

	// Resume clears the paused state.
	Resume() error

	// Volume returns the current volume on a 0-100 scale.
	Volume() (float64, error)

	// SetVolume sets the volume on a 0-100 scale.
	SetVolume(v float64) error

	// OnEnd registers fn to run whenever playback reaches the end of the media.
	// fn runs on a background goroutine. Registering again replaces fn.
	OnEnd(fn func()) error

	// DetachEnd removes the end-of-media handler. It is safe to call repeatedly.
	DetachEnd()

	// IsRunning reports whether the player process is alive.
	IsRunning() bool

	// Wait returns a channel that is closed when the player process exits.
	Wait() <-chan struct{}

	// Close terminates the player and releases its resources.
	Close() error
}

// Backend names accepted by New.
const (
	MPVName  = "mpv"
	IINAName = "iina"
)

// New returns an idle player for the named backend.
func New(name string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MPVName, "":
		return NewMPV(), nil
	case IINAName:
		return NewIINA(), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %s, %s", name, MPVName, IINAName)
	}
}

// FromConfig returns a player for the player.default setting.
func FromConfig() (Player, error) {
	return New(viper.GetString(key.Player))
}

// Executable returns the program a backend needs on PATH.
func Executable(name string) string {
	if strings.EqualFold(name, IINAName) {
		return "iina"
	}
	return "mpv"
}

// Available reports whether the executable for the named backend is installed.
func Available(name string) bool {
	_, err := exec.LookPath(Executable(name))
	return err == nil
}
