package history

import (
	"testing"
	"time"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		now = func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}
		Reset(func() { now = time.Now })

		first := stream.Record{ID: 1, Name: "Lofi radio", Link: "https://example.com/lofi", Kind: stream.KindStream}
		second := stream.Record{ID: 2, Name: "Concert", Link: "https://example.com/concert", Kind: stream.KindVideo}

		Convey("Last reports nothing", func() {
			So(Last().IsAbsent(), ShouldBeTrue)
		})

		Convey("When two records are played", func() {
			So(Save(first), ShouldBeNil)
			So(Save(second), ShouldBeNil)

			Convey("Then both are stored by id", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 2)
				So(saved["1"].Name, ShouldEqual, "Lofi radio")
				So(saved["2"].Kind, ShouldEqual, "video")
			})

			Convey("Then the newest one is last", func() {
				last, ok := Last().Get()
				So(ok, ShouldBeTrue)
				So(last.ID, ShouldEqual, 2)
			})

			Convey("Replaying bumps the count and the order", func() {
				So(Save(first), ShouldBeNil)

				recent, err := Recent(0)
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 2)
				So(recent[0].ID, ShouldEqual, 1)
				So(recent[0].Plays, ShouldEqual, 2)

				limited, err := Recent(1)
				So(err, ShouldBeNil)
				So(limited, ShouldHaveLength, 1)
			})

			Convey("Removing an entry forgets it", func() {
				So(Remove(2), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 1)
				So(saved, ShouldContainKey, "1")
			})
		})
	})
}
