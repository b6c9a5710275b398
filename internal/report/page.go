package report

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/couchcryptid/climate-report/internal/domain"
)

//go:embed page.html.tmpl
var pageTemplate string

// Page renders the report narrative and charts as a standalone HTML document.
type Page struct {
	content Content
	opts    Options
	tmpl    *template.Template
}

type pageData struct {
	Title       string
	Author      string
	Blocks      []Block
	Sources     []string
	GeneratedAt string
	Charts      Charts
}

// NewPage parses the page template for content.
func NewPage(content Content, opts Options) (*Page, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if opts.TopN <= 0 {
		opts.TopN = domain.DefaultTopN
	}
	return &Page{content: content, opts: opts, tmpl: tmpl}, nil
}

// Render writes the page for ds to w.
func (p *Page) Render(w io.Writer, ds *domain.Dataset) error {
	if ds == nil {
		return errors.New("render page: no dataset")
	}
	data := pageData{
		Title:       p.content.Title,
		Author:      p.content.Author,
		Blocks:      p.content.Blocks,
		Sources:     p.content.Sources,
		GeneratedAt: ds.GeneratedAt.Format(time.RFC1123),
		Charts:      BuildCharts(ds, p.opts),
	}
	if err := p.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
