package player

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/quietstream/quietstream/constant"
)

// IINA launches the macOS IINA player. It offers no control channel, so
// everything beyond starting and closing reports ErrUnsupported.
type IINA struct {
	cmd    *exec.Cmd
	exited chan struct{}
}

// NewIINA returns an IINA player that has not started yet.
func NewIINA() *IINA {
	exited := make(chan struct{})
	close(exited)
	return &IINA{exited: exited}
}

func (p *IINA) Play(rawURL string, title string) error {
	if runtime.GOOS != constant.Darwin {
		return errors.New("IINA is only supported on macOS")
	}

	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	_ = p.Close()

	p.cmd = exec.Command("open", "-W", "-n", "-a", "IINA", "--args",
		fmt.Sprintf("--mpv-force-media-title=%s", sanitizeTitle(title)),
		target,
	)
	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("LaunchServices failed to invoke IINA: %w", err)
	}

	exited := make(chan struct{})
	p.exited = exited
	cmd := p.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	return nil
}

func (p *IINA) Wait() <-chan struct{} {
	return p.exited
}

func (p *IINA) Seek(float64) error       { return ErrUnsupported }
func (p *IINA) Resume() error            { return ErrUnsupported }
func (p *IINA) Volume() (float64, error) { return 0, ErrUnsupported }
func (p *IINA) SetVolume(float64) error  { return ErrUnsupported }
func (p *IINA) OnEnd(func()) error       { return ErrUnsupported }
func (p *IINA) DetachEnd()               {}

func (p *IINA) IsRunning() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

func (p *IINA) Close() error {
	if p.cmd == nil || !p.IsRunning() {
		return nil
	}
	return killProcess(p.cmd)
}
