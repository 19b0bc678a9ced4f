package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - Tenskee</title>
<style>
body { font-family: sans-serif; max-width: 42rem; margin: 2rem auto; padding: 0 1rem; }
nav a { margin-right: 1rem; }
footer { margin-top: 2rem; color: #777; font-size: 0.8rem; }
</style>
</head>
<body>
<nav><a href="/digest">Digest</a><a href="/assignments">Assignments</a></nav>
{{.Body}}
<footer>tenskee {{.Version}}</footer>
</body>
</html>
`))

// pageData is the template payload for every page.
type pageData struct {
	Title   string
	Body    template.HTML
	Version string
}

// Renderer converts markdown page bodies to the final HTML page.
type Renderer struct {
	md      goldmark.Markdown
	version string
}

// NewRenderer creates a Renderer.
func NewRenderer(version string) *Renderer {
	return &Renderer{
		md:      goldmark.New(),
		version: version,
	}
}

// RenderPage converts markdown to HTML and writes the full page.
func (r *Renderer) RenderPage(w http.ResponseWriter, title, markdown string) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &body); err != nil {
		slog.Error("markdown render failed", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Title:   title,
		Body:    template.HTML(body.String()),
		Version: r.version,
	})
	if err != nil {
		slog.Error("template render failed", "error", err)
	}
}
