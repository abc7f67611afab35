package open

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLink(t *testing.T) {
	Convey("Given links that are not web pages", t, func() {
		for _, link := range []string{"", "rtmp://example.com/live", "file:///etc/passwd", "https://", "::"} {
			Convey("Then "+link+" is refused", func() {
				err := Link(link)
				So(errors.Is(err, ErrNotWebLink), ShouldBeTrue)
			})
		}
	})
}
