// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates
var files embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"price": func(p *float64) string {
		if p == nil {
			return "Price on request"
		}
		return fmt.Sprintf("N$ %.2f", *p)
	},
	"static": func(rel string) string {
		return "/static/" + rel
	},
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// Templates parses every page and partial. Pages are addressed by their
// path below templates/, e.g. "home.html" or "admin/login.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files,
		"templates/*.html",
		"templates/admin/*.html",
	)
}
