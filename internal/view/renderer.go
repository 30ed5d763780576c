package view

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/delaneyj/toolbelt/bytebufferpool"
)

//go:embed templates
var templateFS embed.FS

// Layout carries what the shared header and footer need.
type Layout struct {
	Title string
	Page  string
	Year  int
}

func NewLayout(title, page string) Layout {
	return Layout{
		Title: title,
		Page:  page,
		Year:  time.Now().Year(),
	}
}

type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded layouts, pages and components into one set.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS,
		"templates/layouts/*.html",
		"templates/pages/*.html",
		"templates/components/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	for _, t := range tmpl.Templates() {
		if t.Name() != "" {
			log.Printf("Loaded template: %s", t.Name())
		}
	}

	return &Renderer{templates: tmpl}, nil
}

// Render executes the named template into a pooled buffer and only writes the
// response once execution has succeeded.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.templates.ExecuteTemplate(buf, name, data); err != nil {
		log.Printf("Template %s execution error: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Template %s write error: %v", name, err)
	}
}

// Has reports whether a template with the given name was loaded.
func (r *Renderer) Has(name string) bool {
	return r.templates.Lookup(name) != nil
}
