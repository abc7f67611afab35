package stream

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseKind(t *testing.T) {
	Convey("ParseKind", t, func() {
		Convey("Should accept both kinds in any case", func() {
			for in, want := range map[string]Kind{
				"Stream":   KindStream,
				"stream":   KindStream,
				"VIDEO":    KindVideo,
				" video ":  KindVideo,
				"🎬 Video":  KindVideo,
				"📡 Stream": KindStream,
			} {
				got, err := ParseKind(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Should reject anything else", func() {
			_, err := ParseKind("Podcast")
			So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)

			_, err = ParseKind("")
			So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)
		})

		Convey("DecodeKind should fall back to stream", func() {
			So(DecodeKind("Podcast"), ShouldEqual, KindStream)
			So(DecodeKind("Video"), ShouldEqual, KindVideo)
		})
	})
}

func TestKindText(t *testing.T) {
	Convey("Kind text round trip", t, func() {
		for _, k := range Kinds() {
			text, err := k.MarshalText()
			So(err, ShouldBeNil)

			var back Kind
			So(back.UnmarshalText(text), ShouldBeNil)
			So(back, ShouldEqual, k)
		}

		So(KindStream.Toggle(), ShouldEqual, KindVideo)
		So(KindVideo.Toggle(), ShouldEqual, KindStream)
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a record", t, func() {
		r := Record{Name: " Lofi ", Link: " http://a/x.m3u8 ", Categories: "music", Kind: KindStream}

		Convey("A complete record is valid", func() {
			So(r.Validate(), ShouldBeNil)
		})

		Convey("A blank name is rejected", func() {
			r.Name = "   "
			So(r.Validate(), ShouldEqual, ErrEmptyName)
		})

		Convey("A blank link is rejected", func() {
			r.Link = ""
			So(r.Validate(), ShouldEqual, ErrEmptyLink)
		})

		Convey("An out of range kind is rejected", func() {
			r.Kind = Kind(7)
			So(r.Validate(), ShouldEqual, ErrUnknownKind)
		})

		Convey("Normalize trims every field", func() {
			n := r.Normalize()
			So(n.Name, ShouldEqual, "Lofi")
			So(n.Link, ShouldEqual, "http://a/x.m3u8")
		})
	})
}

func TestTagsAndMatches(t *testing.T) {
	Convey("Given a record with categories", t, func() {
		r := Record{Name: "Jazz Radio", Categories: "music, jazz,,music , chill", Kind: KindVideo}

		Convey("Tags are trimmed and unique", func() {
			So(r.Tags(), ShouldResemble, []string{"music", "jazz", "chill"})
		})

		Convey("Matches looks at name, categories and kind", func() {
			So(r.Matches("jazz"), ShouldBeTrue)
			So(r.Matches("  CHILL "), ShouldBeTrue)
			So(r.Matches("video"), ShouldBeTrue)
			So(r.Matches("stream"), ShouldBeFalse)
			So(r.Matches(""), ShouldBeTrue)
		})

		Convey("Video records need resolution", func() {
			So(r.NeedsResolution(), ShouldBeTrue)
		})
	})
}
