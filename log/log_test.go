package log

import (
	"testing"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeFalse)

		Convey("Structured entries should still be usable", func() {
			So(func() { WithField("id", 1).Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "nonsense")
		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeTrue)

		Convey("And entries reach the file", func() {
			So(func() { Infof("probe %d", 1) }, ShouldNotPanic)
		})

		Reset(func() {
			viper.Set(key.LogsWrite, false)
			logger = discard
		})
	})
}
