// Package htmlview renders a documentation model as a static, print-ready
// HTML page. The browser export engine prints it with Chrome.
package htmlview

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/porticus-lab/go-apidoc-pdf/layout"
	"github.com/porticus-lab/go-apidoc-pdf/model"
)

//go:embed view.html.tmpl
var source string

var page = template.Must(template.New("view").Parse(source))

// markdown renders request descriptions. Raw HTML in descriptions is
// dropped by the default renderer.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Options controls the rendering.
type Options struct {
	// Heading defaults to [layout.DefaultHeading].
	Heading string
}

type view struct {
	Title   string
	Heading string
	Primary template.CSS
	Items   []item
}

type item struct {
	Index       int
	Name        string
	Folder      string
	Method      string
	MethodColor template.CSS
	URL         string
	Description template.HTML
	Headers     []model.KeyValue
	Query       []model.KeyValue
	Body        string
	Response    *response
}

type response struct {
	Code   int
	Status string
	Color  template.CSS
	Body   string
}

// Render writes doc as an HTML page to w.
func Render(w io.Writer, doc *model.Document, opts Options) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("htmlview: %w", err)
	}
	v := view{
		Title:   doc.Name,
		Heading: opts.Heading,
		Primary: template.CSS(layout.Primary.Hex()),
	}
	if v.Heading == "" {
		v.Heading = layout.DefaultHeading
	}
	for i, r := range doc.Items {
		it, err := newItem(i, r)
		if err != nil {
			return err
		}
		v.Items = append(v.Items, it)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return fmt.Errorf("htmlview: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func newItem(i int, r model.Request) (item, error) {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = "GET"
	}
	name := r.Name
	if name == "" {
		name = "Unnamed Request"
	}
	it := item{
		Index:       i + 1,
		Name:        name,
		Folder:      r.Folder(),
		Method:      method,
		MethodColor: template.CSS(layout.MethodColor(method).Hex()),
		URL:         r.URL,
		Headers:     r.Headers,
		Query:       r.Query,
		Body:        r.RawBody(),
	}
	if r.Description != "" {
		var md bytes.Buffer
		if err := markdown.Convert([]byte(r.Description), &md); err != nil {
			return item{}, fmt.Errorf("htmlview: description of %q: %w", name, err)
		}
		it.Description = template.HTML(md.String())
	}
	if resp, ok := r.FirstResponse(); ok {
		it.Response = &response{
			Code:   resp.Code,
			Status: resp.Status,
			Color:  template.CSS(layout.StatusColor(resp.Code).Hex()),
			Body:   model.UnescapeNewlines(resp.Body),
		}
	}
	return it, nil
}
