package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
	"github.com/joshdurbin/url-shortener-dashboard/internal/view"
)

const (
	pageLogin     = "login.html"
	pageSignup    = "signup.html"
	pageDashboard = "dashboard.html"
	pageCreate    = "create.html"
	pageMetrics   = "metrics.html"
	pageSettings  = "settings.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the model handed to every page template
type pageData struct {
	Title    string
	Active   string
	Dark     bool
	Identity string
	Error    string
	Notice   string

	// Form echoes
	Email string
	URL   string

	ShortURL string
	Links    view.ListState
	Metrics  view.MetricsState
}

// SignedIn reports whether the identity cookie was present
func (p *pageData) SignedIn() bool {
	return p.Identity != ""
}

// Pages holds one parsed template set per page, each sharing the layout
type Pages struct {
	templates map[string]*template.Template
}

// NewPages parses the embedded templates
func NewPages() (*Pages, error) {
	funcs := template.FuncMap{
		"formatTime":  view.FormatTime,
		"placeholder": func() string { return domain.Placeholder },
	}

	pages := &Pages{templates: make(map[string]*template.Template)}
	for _, name := range []string{pageLogin, pageSignup, pageDashboard, pageCreate, pageMetrics, pageSettings} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages.templates[name] = tmpl
	}

	return pages, nil
}

// Render executes the named page into w with the given status. The page is
// rendered into a buffer first so a template failure never leaves a half-written body.
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := p.templates[name]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
