package network

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quietstream/quietstream/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a server echoing the user agent", t, func() {
		var seen string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		client := NewClient(5 * time.Second)

		Convey("The default user agent is applied", func() {
			resp, err := client.Get(srv.URL)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(seen, ShouldEqual, constant.UserAgent)
		})

		Convey("An explicit user agent is preserved", func() {
			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			req.Header.Set("User-Agent", "custom")
			resp, err := client.Do(req)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(seen, ShouldEqual, "custom")
		})
	})
}
