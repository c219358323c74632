// Package encode turns a [layout.Layout] into PDF bytes with gofpdf.
package encode

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/porticus-lab/go-apidoc-pdf/layout"
)

const lineWidth = 0.2

// Encoder writes layouts as PDF documents. The zero value writes
// uncompressed streams stamped with the Unix epoch, which keeps output
// byte-for-byte reproducible.
type Encoder struct {
	Compress     bool
	CreationDate time.Time
	Creator      string
}

// Encode writes l to w. Commands are replayed page by page in the order
// they were recorded.
func (e Encoder) Encode(w io.Writer, l *layout.Layout) error {
	if l == nil || l.Pages < 1 {
		return errors.New("encode: layout has no pages")
	}
	pages := make([][]layout.DrawCommand, l.Pages)
	for _, c := range l.Commands {
		if c.Page < 1 || c.Page > l.Pages {
			return fmt.Errorf("encode: %s command on page %d of %d", c.Kind, c.Page, l.Pages)
		}
		pages[c.Page-1] = append(pages[c.Page-1], c)
	}

	g := l.Geometry
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetMargins(g.Margin, g.TopMargin, g.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(e.Compress)
	pdf.SetCatalogSort(true)
	created := e.CreationDate
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(created)
	if l.Title != "" {
		pdf.SetTitle(l.Title, true)
	}
	if e.Creator != "" {
		pdf.SetCreator(e.Creator, true)
	}
	pdf.SetLineWidth(lineWidth)

	for _, cmds := range pages {
		pdf.AddPage()
		for _, c := range cmds {
			draw(pdf, c)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func draw(pdf *gofpdf.Fpdf, c layout.DrawCommand) {
	r, g, b := int(c.Color.R), int(c.Color.G), int(c.Color.B)
	switch c.Kind {
	case layout.FilledRect:
		pdf.SetFillColor(r, g, b)
		pdf.Rect(c.X, c.Y, c.W, c.H, "F")
	case layout.Text:
		if c.Text == "" {
			return
		}
		pdf.SetFont(string(c.Font.Family), string(c.Font.Style), c.Font.Size)
		pdf.SetTextColor(r, g, b)
		pdf.Text(c.X, c.Y, toCP1252(c.Text))
	case layout.Line:
		pdf.SetDrawColor(r, g, b)
		pdf.Line(c.X, c.Y, c.X2, c.Y2)
	}
}
