// Package site serves the embedded fan site pages.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrPageMissing = errors.New("site page missing")
)

// Register attaches the landing page, the arena page and their assets to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("/", files)
	mux.Handle("/battle", NewPageHandler("battle.html"))
}

// PageHandler serves one embedded page under a clean path.
type PageHandler struct {
	name string
}

// NewPageHandler creates a handler for the embedded page name.
func NewPageHandler(name string) *PageHandler {
	return &PageHandler{name: name}
}

// ServeHTTP writes the page, or 404 when it is not embedded.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := Page(h.name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
