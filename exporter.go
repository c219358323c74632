package apidocpdf

import (
	"bytes"
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/porticus-lab/go-apidoc-pdf/encode"
	"github.com/porticus-lab/go-apidoc-pdf/layout"
	"github.com/porticus-lab/go-apidoc-pdf/model"
)

const tracerName = "github.com/porticus-lab/go-apidoc-pdf"

// Engine renders a document to PDF. [Exporter] and [BrowserExporter] both
// implement it.
type Engine interface {
	Export(ctx context.Context, doc *model.Document) (*Result, error)
}

// Exporter renders documents with the native layout engine.
//
// An Exporter holds no per-render state and is safe for concurrent use.
type Exporter struct {
	cfg    config
	tracer trace.Tracer
}

// NewExporter returns an Exporter configured by opts.
func NewExporter(opts ...Option) *Exporter {
	return &Exporter{
		cfg:    newConfig(opts),
		tracer: otel.Tracer(tracerName),
	}
}

// Export lays out doc and encodes it as PDF. It returns an error wrapping
// [ErrNoItems] before drawing anything when doc is empty, and one wrapping
// [ErrRender] when layout or encoding fails.
func (e *Exporter) Export(ctx context.Context, doc *model.Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("apidocpdf: %w", err)
	}

	ctx, span := e.tracer.Start(ctx, "apidocpdf.Export", trace.WithAttributes(
		attribute.String("apidoc.document", doc.Name),
		attribute.Int("apidoc.items", len(doc.Items)),
	))
	defer span.End()

	res, err := e.render(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		e.cfg.logger.ErrorContext(ctx, "export failed",
			"document", doc.Name,
			"items", len(doc.Items),
			"error", err,
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("apidoc.pages", res.pages),
		attribute.Int("apidoc.bytes", res.Len()),
	)
	return res, nil
}

func (e *Exporter) render(ctx context.Context, doc *model.Document) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrRender, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("apidocpdf: %w", err)
	}
	now := e.cfg.now()

	_, span := e.tracer.Start(ctx, "layout.Assemble")
	l, err := layout.Assemble(doc, layout.Options{
		Measurer:   e.cfg.measurer(),
		Now:        now,
		Heading:    e.cfg.heading,
		DateLayout: e.cfg.dateLayout,
	})
	span.End()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("apidocpdf: %w", err)
	}

	_, span = e.tracer.Start(ctx, "encode.Encode", trace.WithAttributes(
		attribute.Int("apidoc.commands", len(l.Commands)),
	))
	var buf bytes.Buffer
	enc := encode.Encoder{Compress: e.cfg.compress, CreationDate: now, Creator: e.cfg.creator}
	err = enc.Encode(&buf, l)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &Result{data: buf.Bytes(), pages: l.Pages}, nil
}

// Export renders doc with a one-off [Exporter].
func Export(ctx context.Context, doc *model.Document, opts ...Option) (*Result, error) {
	return NewExporter(opts...).Export(ctx, doc)
}
