package layout

import "fmt"

// stampFooters appends a footer band to every page of l. It runs after
// assembly because the footer text needs the final page count.
func stampFooters(l *Layout, opts Options) {
	g := l.Geometry
	date := opts.Now.Format(opts.DateLayout)
	for p := 1; p <= l.Pages; p++ {
		l.Commands = append(l.Commands,
			DrawCommand{Kind: FilledRect, Block: BlockFooter, Page: p, X: 0, Y: g.FooterY, W: g.PageWidth, H: g.FooterHeight, Color: Primary},
			DrawCommand{Kind: Text, Block: BlockFooter, Page: p, X: g.Margin, Y: g.FooterBaseline, Font: footerFont, Color: White,
				Text: FooterText(date, p, l.Pages)},
		)
	}
}

// FooterText is the footer line for page i of n.
func FooterText(date string, i, n int) string {
	return fmt.Sprintf("Generated on %s | Page %d of %d", date, i, n)
}
