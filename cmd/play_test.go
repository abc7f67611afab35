package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/player"
	"github.com/quietstream/quietstream/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayRecord(t *testing.T) {
	Convey("Given a session whose player cannot start", t, func() {
		session := playback.New(playback.Options{
			Player: func() (player.Player, error) { return nil, errors.New("no display") },
		})
		Reset(func() { _ = session.Close() })

		record := stream.Record{ID: 1, Name: "Jazz radio", Link: "http://jazz/live", Kind: stream.KindStream}

		Convey("It returns the failure instead of exiting", func() {
			var out bytes.Buffer
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			err := playRecord(ctx, session, record, &out)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no display")
			So(err.Error(), ShouldContainSubstring, "Jazz radio")
			So(out.String(), ShouldContainSubstring, "Loading: Jazz radio")
			So(out.String(), ShouldNotContainSubstring, "Playing")
			So(session.State(), ShouldEqual, playback.Idle)
		})
	})
}
