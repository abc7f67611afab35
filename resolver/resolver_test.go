package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeYtDlp writes an executable shell script standing in for yt-dlp.
func fakeYtDlp(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write fake yt-dlp: %v", err)
	}
	return path
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given a yt-dlp that prints urls", t, func() {
		r := New(fakeYtDlp(t, `echo ""; echo "https://cdn/audio.webm"; echo "https://cdn/other"`), "", 0)

		url, err := r.Resolve(ctx, "https://video/page")
		So(err, ShouldBeNil)
		So(url, ShouldEqual, "https://cdn/audio.webm")
	})

	Convey("Given a yt-dlp echoing its arguments", t, func() {
		r := New(fakeYtDlp(t, `echo "$@"`), "", 0)

		out, err := r.Resolve(ctx, "https://video/page")
		So(err, ShouldBeNil)
		So(out, ShouldEqual, "-f bestaudio/best --no-playlist --no-warnings -g https://video/page")
	})

	Convey("Given a yt-dlp that prints nothing", t, func() {
		r := New(fakeYtDlp(t, `exit 0`), "", 0)
		_, err := r.Resolve(ctx, "https://video/page")
		So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
	})

	Convey("Given failing yt-dlp runs", t, func() {
		Convey("Unsupported pages are reported as such", func() {
			r := New(fakeYtDlp(t, `echo "ERROR: Unsupported URL: https://x" >&2; exit 1`), "", 0)
			_, err := r.Resolve(ctx, "https://x")
			So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Unsupported URL")
		})

		Convey("Network problems are reported as such", func() {
			r := New(fakeYtDlp(t, `echo "ERROR: Unable to download webpage: <urlopen error [Errno -3] Temporary failure in name resolution>" >&2; exit 1`), "", 0)
			_, err := r.Resolve(ctx, "https://x")
			So(errors.Is(err, ErrNetwork), ShouldBeTrue)
		})

		Convey("Anything else is a generic failure", func() {
			r := New(fakeYtDlp(t, `echo "boom" >&2; exit 2`), "", 0)
			_, err := r.Resolve(ctx, "https://x")
			So(errors.Is(err, ErrFailed), ShouldBeTrue)
		})

		Convey("Slow runs time out", func() {
			r := New(fakeYtDlp(t, `exec sleep 5`), "", 100*time.Millisecond)
			_, err := r.Resolve(ctx, "https://x")
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
		})
	})

	Convey("Given no executable", t, func() {
		r := New(filepath.Join(t.TempDir(), "missing-yt-dlp"), "", 0)
		So(r.Available(), ShouldBeFalse)

		_, err := r.Resolve(ctx, "https://x")
		So(errors.Is(err, ErrNotInstalled), ShouldBeTrue)
	})
}

func TestNew(t *testing.T) {
	Convey("New fills defaults", t, func() {
		r := New("", "", 0)
		So(r.Path, ShouldEqual, DefaultPath)
		So(r.Format, ShouldEqual, DefaultFormat)
		So(r.Timeout, ShouldEqual, DefaultTimeout)
	})
}
