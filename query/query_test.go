package query

import (
	"testing"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given some remembered filters", t, func() {
		So(Remember("jazz", 1), ShouldBeNil)
		So(Remember("jazz radio", 10), ShouldBeNil)
		So(Remember("   ", 5), ShouldBeNil)

		Convey("Then suggestions are sorted by rank", func() {
			s := SuggestMany("jaz")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "jazz radio")
			So(s, ShouldNotContain, "")
		})

		Convey("Then a new weight invalidates cached suggestions", func() {
			_ = SuggestMany("jaz")
			So(Remember("jazz", 100), ShouldBeNil)
			So(Suggest("jaz").MustGet(), ShouldEqual, "jazz")
		})

		Convey("Then nothing is suggested when disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			Reset(func() { viper.Set(key.SearchShowQuerySuggestions, true) })

			So(SuggestMany("jaz"), ShouldBeEmpty)
			So(Suggest("jaz").IsAbsent(), ShouldBeTrue)
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  JAZZ  "), ShouldEqual, "jazz")
		})
	})
}
