package site

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed static/**
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded site.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// Page returns the raw bytes of an embedded page.
func Page(name string) ([]byte, error) {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPageMissing, name)
	}
	return data, nil
}
