package reports

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/kevtech-systems/maziwa/web"
)

// PDFClient exposes the subset of the report client used by the renderer.
type PDFClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Renderer turns a built report into a PDF via html/template + PDF
// conversion.
type Renderer struct {
	tpl    *template.Template
	client PDFClient
}

// NewRenderer parses the report PDF template and wires the PDF client.
func NewRenderer(client PDFClient) (*Renderer, error) {
	if client == nil {
		return nil, fmt.Errorf("reports renderer: pdf client required")
	}
	funcMap := template.FuncMap{
		"formatDateTime": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
	}
	tpl, err := template.New("report_standard.html").Funcs(funcMap).ParseFS(web.Templates, "templates/reports/report_standard.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl, client: client}, nil
}

// RenderHTML executes the template only, used by tests and previews.
func (r *Renderer) RenderHTML(rep *Report) (string, error) {
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, rep); err != nil {
		return "", fmt.Errorf("reports renderer: %w", err)
	}
	return buf.String(), nil
}

// RenderPDF executes the template and converts the HTML to PDF bytes.
func (r *Renderer) RenderPDF(ctx context.Context, rep *Report) ([]byte, error) {
	html, err := r.RenderHTML(rep)
	if err != nil {
		return nil, err
	}
	pdf, err := r.client.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("reports renderer: convert: %w", err)
	}
	return pdf, nil
}
