package filesystem

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("WriteAtomic should create missing directories and the file", func() {
			So(WriteAtomic("/backup/streams.json", []byte("[]"), 0o644), ShouldBeNil)
			So(string(lo.Must(API().ReadFile("/backup/streams.json"))), ShouldEqual, "[]")
		})

		Convey("WriteAtomic should replace existing content without leftovers", func() {
			So(WriteAtomic("/backup/streams.json", []byte("old"), 0o644), ShouldBeNil)
			So(WriteAtomic("/backup/streams.json", []byte("new"), 0o644), ShouldBeNil)

			So(string(lo.Must(API().ReadFile("/backup/streams.json"))), ShouldEqual, "new")
			entries := lo.Must(API().ReadDir("/backup"))
			So(entries, ShouldHaveLength, 1)
		})

		Reset(func() {
			_ = API().RemoveAll("/backup")
		})
	})

}
