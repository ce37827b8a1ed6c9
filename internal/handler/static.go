package handler

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static/*
var staticFiles embed.FS

// mountStatic serves the browser client. Only the known assets are routed
// so unknown paths fall through to chi's 404.
func mountStatic(r chi.Router) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))

	r.Get("/", files.ServeHTTP)
	for _, name := range []string{"/index.html", "/scripts.js", "/styles.css"} {
		r.Get(name, files.ServeHTTP)
	}
}
