package encode

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/porticus-lab/go-apidoc-pdf/layout"
)

// Metrics measures strings with the glyph width tables of the PDF core
// fonts. It implements [layout.Measurer].
//
// A Metrics is not safe for concurrent use. Create one per render.
type Metrics struct {
	pdf  *gofpdf.Fpdf
	font layout.Font
}

// NewMetrics returns a Metrics for millimetre coordinates.
func NewMetrics() *Metrics {
	return &Metrics{pdf: gofpdf.New("P", "mm", "A4", "")}
}

// StringWidth returns the width of s in millimetres when set in f.
func (m *Metrics) StringWidth(s string, f layout.Font) float64 {
	if s == "" {
		return 0
	}
	if f != m.font {
		m.pdf.SetFont(string(f.Family), string(f.Style), f.Size)
		m.font = f
	}
	return m.pdf.GetStringWidth(toCP1252(s))
}
