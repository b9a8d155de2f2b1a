package api

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the gateway's HTML views.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded view templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// viewData is the payload handed to every template.
type viewData struct {
	Title string
}

func (rn *Renderer) render(w http.ResponseWriter, name string, data viewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rn.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Println("Render: Failed to execute template:", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
