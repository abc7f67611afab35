package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/where"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 150 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// allowedSchemes are the URL schemes handed to mpv. Anything else is refused.
var allowedSchemes = []string{"http", "https", "rtmp", "rtmps", "rtsp", "rtsps", "mms", "mmsh", "srt", "udp", "rtp", "hls"}

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	// Binary is the mpv executable.
	Binary string

	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	mu         sync.Mutex

	endMu    sync.Mutex
	listener *EventListener
}

// NewMPV returns an mpv player that has not started yet.
func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)
	return &MPV{
		Binary: "mpv",
		exited: exited,
	}
}

func (m *MPV) args(target, title string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--keep-open=yes",
		"--idle=yes",
		target,
	}
}

// Play starts a new mpv process. Playing again on a running instance loads the new target into it.
func (m *MPV) Play(rawURL string, title string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	title = sanitizeTitle(title)

	if m.IsRunning() {
		if _, err := m.sendCommand([]any{"loadfile", target, "replace"}); err != nil {
			return fmt.Errorf("load %s: %w", target, err)
		}
		_, _ = m.sendCommand([]any{"set_property", "force-media-title", title})
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))

	m.cmd = exec.Command(m.Binary, m.args(target, title)...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}
	log.Infof("started mpv (pid %d) for %q", m.cmd.Process.Pid, title)

	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]any{"seek", seconds, "absolute"})
	return err
}

// Resume unpauses playback. With keep-open, mpv pauses itself on the last frame.
func (m *MPV) Resume() error {
	return m.set("pause", false)
}

// Volume returns mpv's volume property.
func (m *MPV) Volume() (float64, error) {
	return m.getFloatProperty("volume")
}

// SetVolume sets mpv's volume property.
func (m *MPV) SetVolume(v float64) error {
	return m.set("volume", v)
}

// OnEnd observes eof-reached and calls fn each time it turns true.
func (m *MPV) OnEnd(fn func()) error {
	if !m.IsRunning() {
		return ErrNotRunning
	}

	m.endMu.Lock()
	defer m.endMu.Unlock()

	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}

	listener := NewEventListener(m.socketPath, []string{"eof-reached"}, func(property string, data any) {
		if property == "eof-reached" && data == true {
			fn()
		}
	})
	if err := listener.Start(); err != nil {
		return fmt.Errorf("observe end of media: %w", err)
	}
	m.listener = listener
	return nil
}

// DetachEnd stops delivering end-of-media notifications.
func (m *MPV) DetachEnd() {
	m.endMu.Lock()
	defer m.endMu.Unlock()

	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}
}

// IsRunning reports whether the mpv process is alive and its socket answers.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]any{"get_property", "pid"})
	return err == nil
}

// Close asks mpv to quit, kills it after a grace period and removes the socket.
func (m *MPV) Close() error {
	m.DetachEnd()

	if m.socketPath == "" {
		return nil
	}

	select {
	case <-m.exited:
	default:
		_, _ = m.sendCommand([]any{"quit"})
		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(m.cmd)
		}
	}

	_ = os.Remove(m.socketPath)
	m.socketPath = ""
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand([]any{"set_property", property, value})
	return err
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]any{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget rejects targets that mpv could read as options or unknown protocols.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		scheme := strings.ToLower(u.Scheme)
		for _, allowed := range allowedSchemes {
			if scheme == allowed {
				return l, nil
			}
		}
		return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
