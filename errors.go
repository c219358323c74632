package apidocpdf

import (
	"errors"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

// Sentinel errors returned by the library.
var (
	// ErrNoItems is returned when a document has nothing to render.
	// Nothing is drawn in that case.
	ErrNoItems = model.ErrNoItems

	// ErrRender wraps every failure that happens after validation,
	// including panics raised while laying out or encoding a document.
	ErrRender = errors.New("apidocpdf: rendering failed")

	// ErrClosed is returned when using a closed [BrowserExporter].
	ErrClosed = errors.New("apidocpdf: exporter is closed")
)
