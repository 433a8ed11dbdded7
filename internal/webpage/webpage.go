// Package webpage renders the small pages the loopback redirect
// listener serves after an OAuth round: a "you can close this window"
// page and an error page.
package webpage

import (
	"embed"
	"html/template"
	"io"
)

//go:embed html/*.html
var content embed.FS

// Pages holds the parsed redirect-landing templates.
type Pages struct {
	complete *template.Template
	error    *template.Template
}

// Load parses all templates.
func Load() (*Pages, error) {
	p := &Pages{}
	var err error

	if p.complete, err = template.ParseFS(content, "html/complete.html", "html/layout.html"); err != nil {
		return nil, err
	}
	if p.error, err = template.ParseFS(content, "html/error.html", "html/layout.html"); err != nil {
		return nil, err
	}
	return p, nil
}

// CompleteData holds data for the completion page.
type CompleteData struct {
	Message string
}

// RenderComplete renders the login-complete page.
func (p *Pages) RenderComplete(w io.Writer, data CompleteData) error {
	return p.complete.ExecuteTemplate(w, "layout", data)
}

// ErrorData holds data for the error page.
type ErrorData struct {
	Title   string
	Message string
}

// RenderError renders the error page.
func (p *Pages) RenderError(w io.Writer, data ErrorData) error {
	return p.error.ExecuteTemplate(w, "layout", data)
}
