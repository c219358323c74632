package layout

// Cursor tracks the vertical position on the current page and owns every
// page break. There is exactly one Cursor per render.
type Cursor struct {
	geom Geometry
	page int
	y    float64
}

// NewCursor returns a cursor on page 1 at startY.
func NewCursor(g Geometry, startY float64) *Cursor {
	return &Cursor{geom: g.resolved(), page: 1, y: startY}
}

// Y returns the current vertical position.
func (c *Cursor) Y() float64 { return c.y }

// Page returns the 1-based index of the current page.
func (c *Cursor) Page() int { return c.page }

// Fits reports whether a block of height h starting at the cursor stays
// above the content limit.
func (c *Cursor) Fits(h float64) bool {
	return c.y+h <= c.geom.MaxContentHeight
}

// Reserve makes room for a block of height h. When the block would cross
// the content limit the page is committed and the cursor moves to the top
// of a new page, and Reserve returns true. A page that holds nothing yet is
// never broken, so a block taller than a whole page is drawn from the top.
func (c *Cursor) Reserve(h float64) bool {
	if c.Fits(h) || c.y <= c.geom.TopMargin {
		return false
	}
	c.page++
	c.y = c.geom.TopMargin
	return true
}

// Advance moves the cursor down by d.
func (c *Cursor) Advance(d float64) {
	c.y += d
}
