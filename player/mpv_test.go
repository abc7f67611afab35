package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers JSON-IPC requests the way mpv does and can push events
// to connections that asked to observe properties.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	props    map[string]any
	commands [][]any
	watchers []net.Conn
}

func newFakeMPV(t *testing.T) (*fakeMPV, string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "qs")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeMPV{listener: l, props: map[string]any{"volume": 100.0, "pid": 1.0}}
	t.Cleanup(func() { _ = l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f, path
}

func (f *fakeMPV) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		resp := ipcResponse{Error: "success", RequestID: cmd.RequestID}
		switch cmd.Command[0] {
		case "get_property":
			name := cmd.Command[1].(string)
			if v, ok := f.props[name]; ok {
				resp.Data = v
			} else {
				resp.Error = "property unavailable"
			}
		case "set_property":
			f.props[cmd.Command[1].(string)] = cmd.Command[2]
		case "observe_property":
			f.watchers = append(f.watchers, conn)
		}
		f.mu.Unlock()

		// Unrelated event first, as mpv may interleave them.
		_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
		payload, _ := json.Marshal(resp)
		_, _ = conn.Write(append(payload, '\n'))
	}
}

func (f *fakeMPV) push(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.watchers {
		_, _ = w.Write([]byte(line + "\n"))
	}
}

func (f *fakeMPV) sent(verb string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]any
	for _, c := range f.commands {
		if c[0] == verb {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMPV) prop(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[name]
}

func attached(path string) *MPV {
	m := NewMPV()
	m.socketPath = path
	m.exited = make(chan struct{})
	return m
}

func TestMPVControl(t *testing.T) {
	Convey("Given an mpv instance behind a socket", t, func() {
		fake, path := newFakeMPV(t)
		m := attached(path)

		Convey("It reports running", func() {
			So(m.IsRunning(), ShouldBeTrue)
		})

		Convey("Volume can be read and changed", func() {
			v, err := m.Volume()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 100)

			So(m.SetVolume(30), ShouldBeNil)
			v, err = m.Volume()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 30)
		})

		Convey("Seek and Resume send the expected commands", func() {
			So(m.Seek(0), ShouldBeNil)
			So(m.Resume(), ShouldBeNil)

			seeks := fake.sent("seek")
			So(seeks, ShouldHaveLength, 1)
			So(seeks[0][2], ShouldEqual, "absolute")
			So(fake.prop("pause"), ShouldEqual, false)
		})

		Convey("mpv errors are returned without retrying", func() {
			_, err := m.getFloatProperty("duration")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
			So(fake.sent("get_property"), ShouldHaveLength, 1)
		})

		Convey("End of media is delivered until detached", func() {
			ends := make(chan struct{}, 4)
			So(m.OnEnd(func() { ends <- struct{}{} }), ShouldBeNil)

			fake.push(`{"event":"property-change","id":1,"name":"eof-reached","data":false}`)
			fake.push(`{"event":"property-change","id":1,"name":"eof-reached","data":true}`)

			select {
			case <-ends:
			case <-time.After(2 * time.Second):
				So("end of media was not delivered", ShouldBeEmpty)
			}

			m.DetachEnd()
			m.DetachEnd()
			fake.push(`{"event":"property-change","id":1,"name":"eof-reached","data":true}`)
			time.Sleep(100 * time.Millisecond)
			So(ends, ShouldHaveLength, 0)
		})

		Convey("Once the process is gone it is no longer running", func() {
			close(m.exited)
			So(m.IsRunning(), ShouldBeFalse)
			So(m.OnEnd(func() {}), ShouldEqual, ErrNotRunning)
			So(m.Close(), ShouldBeNil)
			So(m.Socket(), ShouldBeEmpty)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		for _, ok := range []string{"https://a/b.m3u8", "rtmp://live/x", " http://a ", "/music/file.mp3"} {
			_, err := sanitizeMediaTarget(ok)
			So(err, ShouldBeNil)
		}
		for _, bad := range []string{"", "--script=evil.lua", "file:///etc/passwd", "http://a\nb"} {
			_, err := sanitizeMediaTarget(bad)
			So(err, ShouldNotBeNil)
		}
	})

	Convey("sanitizeTitle", t, func() {
		So(sanitizeTitle(" Lofi\n24/7\t"), ShouldEqual, "Lofi 24/7")
	})
}

func TestNew(t *testing.T) {
	Convey("New", t, func() {
		p, err := New("mpv")
		So(err, ShouldBeNil)
		So(p, ShouldHaveSameTypeAs, &MPV{})
		So(p.IsRunning(), ShouldBeFalse)

		p, err = New("IINA")
		So(err, ShouldBeNil)
		So(p, ShouldHaveSameTypeAs, &IINA{})
		So(p.IsRunning(), ShouldBeFalse)
		So(p.SetVolume(10), ShouldEqual, ErrUnsupported)

		_, err = New("vlc")
		So(err, ShouldNotBeNil)

		So(Executable("iina"), ShouldEqual, "iina")
		So(Executable("mpv"), ShouldEqual, "mpv")
	})
}
