package validator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quietstream/quietstream/stream"
	. "github.com/smartystreets/goconvey/convey"
)

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1280000
low/index.m3u8
`

func records(links ...string) []stream.Record {
	out := make([]stream.Record, len(links))
	for i, l := range links {
		out[i] = stream.Record{ID: int64(i + 1), Name: fmt.Sprintf("r%d", i+1), Link: l}
	}
	return out
}

func newServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})
	mux.HandleFunc("/live/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, masterPlaylist)
	})
	mux.HandleFunc("/live/garbage.m3u8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html>not a playlist</html>")
	})
	return httptest.NewServer(mux)
}

func deadAddress() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return "http://" + addr + "/gone"
}

func TestProbe(t *testing.T) {
	Convey("Given a validator and a test server", t, func() {
		srv := newServer()
		defer srv.Close()
		v := New(Options{Timeout: 200 * time.Millisecond, InspectPlaylists: true})
		ctx := context.Background()

		Convey("2xx and 3xx are healthy", func() {
			So(v.Probe(ctx, srv.URL+"/ok").Healthy, ShouldBeTrue)
			So(v.Probe(ctx, srv.URL+"/redirect").Healthy, ShouldBeTrue)
		})

		Convey("4xx is a status failure", func() {
			out := v.Probe(ctx, srv.URL+"/missing")
			So(out.Healthy, ShouldBeFalse)
			So(out.Failure, ShouldEqual, FailureStatus)
			So(out.Status, ShouldEqual, http.StatusNotFound)
			So(out.Summary(), ShouldEqual, "unavailable")
		})

		Convey("A slow server is a timeout", func() {
			out := v.Probe(ctx, srv.URL+"/slow")
			So(out.Failure, ShouldEqual, FailureTimeout)
		})

		Convey("A closed port is a connection failure", func() {
			out := v.Probe(ctx, deadAddress())
			So(out.Failure, ShouldEqual, FailureConnection)
		})

		Convey("A malformed link is an other failure", func() {
			out := v.Probe(ctx, "://nope")
			So(out.Failure, ShouldEqual, FailureOther)
		})

		Convey("Playlists must decode", func() {
			So(v.Probe(ctx, srv.URL+"/live/master.m3u8").Healthy, ShouldBeTrue)

			out := v.Probe(ctx, srv.URL+"/live/garbage.m3u8")
			So(out.Failure, ShouldEqual, FailurePlaylist)
		})

		Convey("Playlist inspection can be turned off", func() {
			lax := New(Options{Timeout: 200 * time.Millisecond})
			So(lax.Probe(ctx, srv.URL+"/live/garbage.m3u8").Healthy, ShouldBeTrue)
		})

		Convey("A cancelled context does not abort the probe", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			So(v.Probe(cancelled, srv.URL+"/ok").Healthy, ShouldBeTrue)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a validator", t, func() {
		srv := newServer()
		defer srv.Close()
		v := New(Options{Timeout: 200 * time.Millisecond})
		ctx := context.Background()

		Convey("Empty input issues no probes", func() {
			calls := 0
			res := v.Validate(ctx, nil, func(Progress) { calls++ })
			So(calls, ShouldEqual, 0)
			So(res.Healthy, ShouldBeEmpty)
			So(res.Broken, ShouldBeEmpty)
			So(res.Cancelled, ShouldBeFalse)
		})

		Convey("Every unreachable link ends up broken", func() {
			dead := deadAddress()
			input := records(dead, dead+"2", dead+"3")
			res := v.Validate(ctx, input, nil)
			So(res.Healthy, ShouldBeEmpty)
			So(res.Broken, ShouldHaveLength, 3)
			So(res.BrokenIDs(), ShouldResemble, []int64{1, 2, 3})
		})

		Convey("Results partition the input and progress is ordered", func() {
			input := records(srv.URL+"/ok", srv.URL+"/missing", srv.URL+"/redirect")
			var seen []int
			res := v.Validate(ctx, input, func(p Progress) {
				seen = append(seen, p.Index)
				So(p.Total, ShouldEqual, 3)
			})
			So(seen, ShouldResemble, []int{1, 2, 3})
			So(res.Healthy, ShouldHaveLength, 2)
			So(res.Broken, ShouldHaveLength, 1)
			So(res.Broken[0].ID, ShouldEqual, 2)
		})

		Convey("Cancelling stops before the next record", func() {
			input := records(srv.URL+"/ok", srv.URL+"/ok", srv.URL+"/ok")
			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			res := v.Validate(cctx, input, func(p Progress) {
				if p.Index == 1 {
					cancel()
				}
			})
			So(res.Cancelled, ShouldBeTrue)
			So(res.Healthy, ShouldHaveLength, 1)
			So(res.Broken, ShouldBeEmpty)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a background run", t, func() {
		var hits atomic.Int32
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) > 1 {
				<-release
			}
		}))
		defer srv.Close()

		v := New(Options{Timeout: 2 * time.Second})
		run := v.Start(context.Background(), records(srv.URL, srv.URL, srv.URL))

		Convey("Cancel keeps unprobed records out of the result", func() {
			first := <-run.Progress()
			So(first.Index, ShouldEqual, 1)

			run.Cancel()
			close(release)
			res := run.Wait()

			So(res.Cancelled, ShouldBeTrue)
			So(len(res.Healthy), ShouldBeLessThan, 3)
			So(res.Broken, ShouldBeEmpty)

			for range run.Progress() {
			}
			run.Cancel()
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("classify", t, func() {
		So(classify(context.DeadlineExceeded).Failure, ShouldEqual, FailureTimeout)
		So(classify(&net.OpError{Op: "dial", Err: errors.New("refused")}).Failure, ShouldEqual, FailureConnection)
		So(classify(errors.New("weird")).Failure, ShouldEqual, FailureOther)
	})
}
