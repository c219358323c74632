package layout

import (
	"fmt"
	"time"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

// DefaultHeading is drawn in the banner on the first page.
const DefaultHeading = ">> API Documentation <<"

// DefaultDateLayout formats the footer date.
const DefaultDateLayout = "1/2/2006"

// Options controls a render. The zero value is usable.
type Options struct {
	// Geometry defaults to [A4].
	Geometry Geometry

	// Measurer defaults to [Monospace].
	Measurer Measurer

	// Now is stamped into every footer. Defaults to time.Now.
	Now time.Time

	// Heading defaults to [DefaultHeading].
	Heading string

	// DateLayout defaults to [DefaultDateLayout].
	DateLayout string
}

func (o Options) resolved() Options {
	o.Geometry = o.Geometry.resolved()
	if o.Measurer == nil {
		o.Measurer = Monospace{}
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Heading == "" {
		o.Heading = DefaultHeading
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	return o
}

// Layout is the result of a render: the page count and the commands for
// every page, in paint order.
type Layout struct {
	Title    string
	Geometry Geometry
	Pages    int
	Commands []DrawCommand
}

// PageCommands returns the commands for page p (1-based).
func (l *Layout) PageCommands(p int) []DrawCommand {
	var out []DrawCommand
	for _, c := range l.Commands {
		if c.Page == p {
			out = append(out, c)
		}
	}
	return out
}

// Assemble lays out doc. It fails before drawing anything when doc has no
// items.
func Assemble(doc *model.Document, opts Options) (*Layout, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	opts = opts.resolved()

	r := newRenderer(opts.Geometry, opts.Measurer, firstPageY)
	r.banner(opts.Heading)

	last := len(doc.Items) - 1
	for i, item := range doc.Items {
		r.item(i, item)
		if i < last {
			r.separator()
		}
	}

	l := &Layout{
		Title:    doc.Name,
		Geometry: opts.Geometry,
		Pages:    r.cur.Page(),
		Commands: r.out.cmds,
	}
	stampFooters(l, opts)
	return l, nil
}

func (r *renderer) item(index int, req model.Request) {
	r.titleBar(index, req.Name)
	r.methodURL(req.Method, req.URL)
	if len(req.Headers) > 0 {
		r.headersTable(req.Headers)
	}
	if raw := req.RawBody(); raw != "" {
		r.requestBody(raw)
	}
	if resp, ok := req.FirstResponse(); ok {
		r.response(resp)
	}
}
