package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		Convey("Then / should serve the landing page", func() {
			w := get(mux, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `id="newsletter"`)
		})

		Convey("And /battle should serve the arena page", func() {
			w := get(mux, "/battle")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "Site.arena()")
			So(w.Body.String(), ShouldContainSubstring, `data-slot="1"`)
			So(w.Body.String(), ShouldContainSubstring, `data-slot="2"`)
		})

		Convey("And assets should be served", func() {
			So(get(mux, "/site.js").Code, ShouldEqual, http.StatusOK)
			So(get(mux, "/style.css").Code, ShouldEqual, http.StatusOK)
		})

		Convey("And unknown paths should be 404", func() {
			So(get(mux, "/villains.html").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPage(t *testing.T) {
	Convey("Given embedded pages", t, func() {
		Convey("When the page exists", func() {
			data, err := Page("index.html")
			So(err, ShouldBeNil)
			So(len(data), ShouldBeGreaterThan, 0)
		})

		Convey("When the page is missing", func() {
			_, err := Page("missing.html")
			So(errors.Is(err, ErrPageMissing), ShouldBeTrue)

			h := NewPageHandler("missing.html")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
