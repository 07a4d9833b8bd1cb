package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates
var templatesFS embed.FS

// Data is the context handed to a template
type Data map[string]any

// Renderer writes a named view as the HTTP response
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data Data) error
}

// Templates renders the embedded html/template views. Every page is parsed
// together with layout.html.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"pages": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// New parses every page under templates/
func New() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}
	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == "templates/layout.html" || !strings.HasSuffix(path, ".html") {
			return nil
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		t.pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return t, nil
}

// Render executes into a buffer first so a failing template never leaves a
// half-written page
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data Data) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
