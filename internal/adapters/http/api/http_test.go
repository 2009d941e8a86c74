package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/okian/rankdesk/internal/adapters/http/api"
	. "github.com/smartystreets/goconvey/convey"
)

type stubStats struct {
	stats map[string]interface{}
}

func (s *stubStats) GetStats() map[string]interface{} { return s.stats }

func newTestServer() (*httptest.Server, *stubStats) {
	provider := &stubStats{stats: map[string]interface{}{
		"last_import": map[string]interface{}{
			"source":  "sheet",
			"written": 17,
		},
	}}
	mux := http.NewServeMux()
	api.NewServer(provider).Register(context.Background(), mux)
	return httptest.NewServer(mux), provider
}

func TestRoutes(t *testing.T) {
	Convey("Given a running status server", t, func() {
		srv, provider := newTestServer()
		defer srv.Close()

		Convey("When /healthz is fetched", func() {
			resp, err := http.Get(srv.URL + "/healthz")

			Convey("Then it reports ok as JSON", func() {
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "application/json")

				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
			})
		})

		Convey("When /stats is fetched", func() {
			resp, err := http.Get(srv.URL + "/stats")

			Convey("Then the provider snapshot is rendered", func() {
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				last, ok := body["last_import"].(map[string]interface{})
				So(ok, ShouldBeTrue)
				So(last["source"], ShouldEqual, "sheet")
				So(last["written"], ShouldEqual, 17)
			})
		})

		Convey("When /stats is posted to", func() {
			resp, err := http.Post(srv.URL+"/stats", "application/json", nil)

			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When /metrics is fetched", func() {
			resp, err := http.Get(srv.URL + "/metrics")

			Convey("Then the Prometheus registry is exposed", func() {
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When an empty snapshot is served", func() {
			provider.stats = map[string]interface{}{}
			resp, err := http.Get(srv.URL + "/stats")

			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body, ShouldBeEmpty)
		})
	})
}
