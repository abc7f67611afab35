package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Data() honours the override", func() {
			custom := filepath.Join(os.TempDir(), "qs-data-test")
			t.Setenv(EnvDataPath, custom)

			So(Data(), ShouldEqual, custom)
			So(Database(), ShouldEqual, filepath.Join(custom, "streams.db"))
			So(History(), ShouldEqual, filepath.Join(custom, "history.json"))
			So(lo.Must(filesystem.API().IsDir(custom)), ShouldBeTrue)
		})
	})
}
