package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

const registeredLayout = "2006-01-02 15:04:05"

// Flash is a one-shot message shown above the page content.
type Flash struct {
	Kind    string
	Message string
}

// ListData feeds the patients fragment.
type ListData struct {
	Patients []dto.PatientResponse
	Search   string
	Error    string
}

type PageData struct {
	Route  string
	Status entity.ConnectionStatus
	Flash  *Flash
	Form   dto.RegisterPatientRequest
	Errors map[string]string
	List   ListData
}

// Renderer holds one template set per page, each sharing the layout and
// the patients fragment.
type Renderer struct {
	pages map[string]*template.Template
	list  *template.Template
}

var templateFuncs = template.FuncMap{
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
	"registered": func(t time.Time) string {
		if t.IsZero() {
			return "N/A"
		}
		return t.Local().Format(registeredLayout)
	},
}

func NewRenderer() (*Renderer, error) {
	list, err := template.New("patients").Funcs(templateFuncs).ParseFS(templateFS, "templates/patients.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse patients template: %w", err)
	}

	pages := make(map[string]*template.Template, len(routes))
	for _, route := range routes {
		page, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/patients.html",
			"templates/"+route+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", route, err)
		}
		pages[route] = page
	}

	return &Renderer{pages: pages, list: list}, nil
}

func (r *Renderer) RenderPage(w io.Writer, data PageData) error {
	page, ok := r.pages[data.Route]
	if !ok {
		return fmt.Errorf("unknown route %q", data.Route)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

func (r *Renderer) RenderList(data ListData) (string, error) {
	var buf bytes.Buffer
	if err := r.list.ExecuteTemplate(&buf, "patients", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
