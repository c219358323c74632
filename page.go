package apidocpdf

import (
	"html"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/page"

	"github.com/porticus-lab/go-apidoc-pdf/layout"
)

const mmPerInch = 25.4

// printParams maps the native page geometry onto Chrome's print settings so
// both engines agree on paper size, content area and footer band.
func printParams(g layout.Geometry, footer string) *page.PrintToPDFParams {
	in := func(mm float64) float64 { return mm / mmPerInch }
	return page.PrintToPDF().
		WithPaperWidth(in(g.PageWidth)).
		WithPaperHeight(in(g.PageHeight)).
		WithMarginTop(in(g.TopMargin)).
		WithMarginBottom(in(g.PageHeight - g.MaxContentHeight)).
		WithMarginLeft(in(g.Margin)).
		WithMarginRight(in(g.Margin)).
		WithPrintBackground(true).
		WithDisplayHeaderFooter(true).
		WithHeaderTemplate("<span></span>").
		WithFooterTemplate(footer)
}

// footerTemplate is Chrome's footer markup for the "Generated on" band.
// Chrome fills the pageNumber and totalPages spans itself.
func footerTemplate(g layout.Geometry, date string) string {
	text := layout.FooterText(html.EscapeString(date), 0, 0)
	text = strings.Replace(text, "Page 0 of 0",
		`Page <span class="pageNumber"></span> of <span class="totalPages"></span>`, 1)

	var sb strings.Builder
	sb.WriteString(`<div style="-webkit-print-color-adjust: exact; width: 100%; margin: 0; `)
	sb.WriteString(`background: ` + layout.Primary.Hex() + `; color: #fff; `)
	sb.WriteString(`font-family: Helvetica, Arial, sans-serif; font-size: 10pt; `)
	sb.WriteString(`padding: 3mm ` + mm(g.Margin) + `;">`)
	sb.WriteString(text)
	sb.WriteString(`</div>`)
	return sb.String()
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "mm"
}
