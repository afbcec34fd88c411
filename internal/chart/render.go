package chart

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"regexp"
)

// DefaultLibraryURL is where the page loads Highcharts from.
const DefaultLibraryURL = "https://code.highcharts.com/highcharts.js"

// ErrRenderTargetMissing means the page has no element to draw into.
var ErrRenderTargetMissing = errors.New("render target missing")

//go:embed templates/page.html
var defaultPageTemplate string

var containerIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_:.-]*$`)

// Page is the data handed to the page template.
type Page struct {
	Title       string
	ContainerID string
	LibraryURL  string
	LoadID      string
	Options     *Options
	Error       string
}

// Renderer writes chart pages.
type Renderer struct {
	tmpl        *template.Template
	containerID string
	libraryURL  string
}

// NewRenderer parses the page template (the embedded default when
// templatePath is empty) and checks that it renders the container element.
func NewRenderer(containerID, libraryURL, templatePath string) (*Renderer, error) {
	if !containerIDPattern.MatchString(containerID) {
		return nil, fmt.Errorf("%w: invalid container id %q", ErrRenderTargetMissing, containerID)
	}
	if libraryURL == "" {
		libraryURL = DefaultLibraryURL
	}

	var (
		tmpl *template.Template
		err  error
	)
	if templatePath == "" {
		tmpl, err = template.New("page").Parse(defaultPageTemplate)
	} else {
		tmpl, err = template.ParseFiles(templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	r := &Renderer{tmpl: tmpl, containerID: containerID, libraryURL: libraryURL}
	// Dry run so a template without the container fails at startup.
	if err := r.execute(io.Discard, &Page{Title: DefaultTitle}); err != nil {
		return nil, err
	}
	return r, nil
}

// ContainerID returns the element id charts are drawn into.
func (r *Renderer) ContainerID() string { return r.containerID }

// Render writes a page that draws cfg into the container.
func (r *Renderer) Render(w io.Writer, cfg *Config, loadID string) error {
	if cfg.ContainerID != r.containerID {
		return fmt.Errorf("%w: chart targets #%s but page provides #%s",
			ErrRenderTargetMissing, cfg.ContainerID, r.containerID)
	}
	return r.execute(w, &Page{
		Title:   cfg.Title,
		LoadID:  loadID,
		Options: cfg.Options(),
	})
}

// RenderError writes a page that shows msg inside the container instead
// of a chart.
func (r *Renderer) RenderError(w io.Writer, title, msg, loadID string) error {
	return r.execute(w, &Page{Title: title, LoadID: loadID, Error: msg})
}

func (r *Renderer) execute(w io.Writer, p *Page) error {
	p.ContainerID = r.containerID
	p.LibraryURL = r.libraryURL

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`id="`+r.containerID+`"`)) {
		return fmt.Errorf("%w: page template has no element with id %q",
			ErrRenderTargetMissing, r.containerID)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
