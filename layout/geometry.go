package layout

// Geometry describes the page in millimetres.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	// TopMargin is the cursor position at the top of every page after the first.
	TopMargin float64
	// MaxContentHeight is the lowest y any block may reach.
	MaxContentHeight float64

	FooterY        float64
	FooterHeight   float64
	FooterBaseline float64
}

// A4 returns the portrait A4 geometry used by default.
func A4() Geometry {
	return Geometry{
		PageWidth:        210,
		PageHeight:       297,
		Margin:           15,
		TopMargin:        20,
		MaxContentHeight: 270,
		FooterY:          282,
		FooterHeight:     15,
		FooterBaseline:   292,
	}
}

// ContentWidth is the page width less both side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// Capacity is the usable height of a page that starts at TopMargin.
func (g Geometry) Capacity() float64 {
	return g.MaxContentHeight - g.TopMargin
}

func (g Geometry) resolved() Geometry {
	if g == (Geometry{}) {
		return A4()
	}
	return g
}
