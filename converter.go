package apidocpdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/porticus-lab/go-apidoc-pdf/internal/htmlview"
	"github.com/porticus-lab/go-apidoc-pdf/internal/pdf"
	"github.com/porticus-lab/go-apidoc-pdf/layout"
	"github.com/porticus-lab/go-apidoc-pdf/model"
)

// BrowserExporter prints an HTML rendering of a document with headless
// Chrome. Pagination is left to the browser; page size, margins and the
// footer band follow the native engine.
//
// A BrowserExporter reuses one browser process and is safe for concurrent
// use. Call [BrowserExporter.Close] to release it.
type BrowserExporter struct {
	cfg           config
	geom          layout.Geometry
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewBrowserExporter starts a headless browser configured by opts.
func NewBrowserExporter(opts ...Option) (*BrowserExporter, error) {
	cfg := newConfig(opts)

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := downloadBrowser()
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start eagerly so a missing browser fails here, not on first export.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("apidocpdf: starting browser: %w", err)
	}

	return &BrowserExporter{
		cfg:           cfg,
		geom:          layout.A4(),
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close stops the browser. It is idempotent.
func (b *BrowserExporter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.browserCancel()
	b.allocCancel()
	return nil
}

// Export prints doc. Validation is the same as [Exporter.Export].
func (b *BrowserExporter) Export(ctx context.Context, doc *model.Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("apidocpdf: %w", err)
	}
	if err := b.checkClosed(); err != nil {
		return nil, err
	}

	var view bytes.Buffer
	if err := htmlview.Render(&view, doc, htmlview.Options{Heading: b.cfg.heading}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	f, err := os.CreateTemp("", "apidocpdf-*.html")
	if err != nil {
		return nil, fmt.Errorf("apidocpdf: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := view.WriteTo(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("apidocpdf: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("apidocpdf: closing temp file: %w", err)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("apidocpdf: resolving path: %w", err)
	}

	data, err := b.print(ctx, "file://"+abs)
	if err != nil {
		b.cfg.logger.ErrorContext(ctx, "browser export failed", "document", doc.Name, "error", err)
		return nil, err
	}

	parsed, err := pdf.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: reading printed PDF: %w", ErrRender, err)
	}
	pages, err := parsed.NumPages()
	if err != nil {
		return nil, fmt.Errorf("%w: reading printed PDF: %w", ErrRender, err)
	}
	return &Result{data: data, pages: pages}, nil
}

func (b *BrowserExporter) print(ctx context.Context, target string) ([]byte, error) {
	if b.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	defer tabCancel()

	// Cancel the tab when the caller's context ends.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	footer := footerTemplate(b.geom, b.cfg.now().Format(b.cfg.dateLayout))
	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = printParams(b.geom, footer).Do(ctx)
			return err
		}),
	); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("apidocpdf: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: printing: %w", ErrRender, err)
	}
	return buf, nil
}

func (b *BrowserExporter) checkClosed() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}
