package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

const (
	bannerHeight   = 35
	bannerBaseline = 25
	firstPageY     = 50

	titleReserve = 35
	titleAdvance = 25

	methodReserve    = 25
	badgeWidth       = 32
	badgeHeight      = 10
	urlIndent        = 38
	urlLineHeight    = 4
	urlMinHeight     = 15
	methodBlockAfter = 10
	urlWrapInset     = 40

	captionReserve = 30
	captionAdvance = 12

	keyX             = 5
	valueX           = 55
	keyWidth         = 45
	rowLineHeight    = 4
	rowPadding       = 5
	tableBase        = 15
	tableHeadY       = 5
	tableHeadAdvance = 12
	tableAfter       = 10

	bodyLineHeight   = 5
	bodyIndent       = 8
	requestBodyWrap  = 20
	responseBodyWrap = 15
	panelPadBottom   = 15
	requestBodyGap   = 25
	responseBodyGap  = 33

	responseReserve  = 40
	responseAdvance  = 25
	statusReserve    = 30
	statusAdvance    = 20
	statusBadgeWidth = 35
	statusTextX      = 40

	separatorReserve = 20
	separatorAdvance = 20
)

// renderer draws blocks at the cursor. It is created per render and never
// shared.
type renderer struct {
	geom Geometry
	m    Measurer
	cur  *Cursor
	out  canvas
}

func newRenderer(g Geometry, m Measurer, startY float64) *renderer {
	return &renderer{geom: g, m: m, cur: NewCursor(g, startY)}
}

func (r *renderer) rect(b Block, x, y, w, h float64, c Color) {
	r.out.add(DrawCommand{Kind: FilledRect, Block: b, Page: r.cur.Page(), X: x, Y: y, W: w, H: h, Color: c})
}

func (r *renderer) text(b Block, x, y float64, f Font, c Color, s string) {
	r.out.add(DrawCommand{Kind: Text, Block: b, Page: r.cur.Page(), X: x, Y: y, Font: f, Color: c, Text: s})
}

func (r *renderer) line(b Block, x1, y1, x2, y2 float64, c Color) {
	r.out.add(DrawCommand{Kind: Line, Block: b, Page: r.cur.Page(), X: x1, Y: y1, X2: x2, Y2: y2, Color: c})
}

// panel is a background fill whose height is only known once the content
// on its page has been drawn.
type panel struct {
	at    int
	page  int
	block Block
	x, w  float64
	top   float64
	color Color
}

func (r *renderer) openPanel(b Block, x, top, w float64, c Color) *panel {
	return &panel{at: r.out.reserve(), page: r.cur.Page(), block: b, x: x, w: w, top: top, color: c}
}

func (r *renderer) closePanel(p *panel, bottom float64) {
	if p == nil {
		return
	}
	bottom = math.Min(bottom, r.geom.MaxContentHeight)
	r.out.set(p.at, DrawCommand{
		Kind:  FilledRect,
		Block: p.block,
		Page:  p.page,
		X:     p.x,
		Y:     p.top,
		W:     p.w,
		H:     math.Max(0, bottom-p.top),
		Color: p.color,
	})
}

func (r *renderer) banner(heading string) {
	r.rect(BlockBanner, 0, 0, r.geom.PageWidth, bannerHeight, Primary)
	heading = Truncate(r.m, heading, r.geom.ContentWidth(), headingFont)
	r.text(BlockBanner, r.geom.Margin, bannerBaseline, headingFont, White, heading)
}

func (r *renderer) titleBar(index int, name string) {
	if strings.TrimSpace(name) == "" {
		name = "Unnamed Request"
	}
	m, cw := r.geom.Margin, r.geom.ContentWidth()

	r.cur.Reserve(titleReserve)
	y := r.cur.Y()
	r.rect(BlockTitle, m-5, y-8, cw+10, 16, Background)
	label := Truncate(r.m, fmt.Sprintf("[%d] Request: %s", index+1, name), cw, titleFont)
	r.text(BlockTitle, m, y, titleFont, Dark, label)
	r.cur.Advance(titleAdvance)
}

func (r *renderer) methodURL(method, url string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = "GET"
	}
	m, cw := r.geom.Margin, r.geom.ContentWidth()
	lines := Wrap(r.m, "URL: "+url, cw-urlWrapInset, textFont)
	h := math.Max(urlMinHeight, float64(len(lines))*urlLineHeight) + methodBlockAfter

	r.cur.Reserve(math.Max(methodReserve, h))
	y := r.cur.Y()
	r.rect(BlockMethod, m, y-5, badgeWidth, badgeHeight, MethodColor(method))
	r.text(BlockMethod, m+3, y, badgeFont, White, Truncate(r.m, method, badgeWidth-4, badgeFont))

	if r.cur.Fits(h) {
		for i, l := range lines {
			r.text(BlockMethod, m+urlIndent, y+float64(i)*urlLineHeight, textFont, Dark, l)
		}
		r.cur.Advance(h)
		return
	}

	// A URL longer than a page continues line by line.
	for i, l := range lines {
		if i > 0 {
			r.cur.Advance(urlLineHeight)
			r.cur.Reserve(urlLineHeight)
		}
		r.text(BlockMethod, m+urlIndent, r.cur.Y(), textFont, Dark, l)
	}
	r.cur.Advance(urlLineHeight + methodBlockAfter)
}

type tableRow struct {
	key, value []string
}

func (t tableRow) lines() int {
	return max(len(t.key), len(t.value))
}

func (t tableRow) height() float64 {
	return float64(t.lines())*rowLineHeight + rowPadding
}

func (r *renderer) headersTable(headers []model.KeyValue) {
	m, cw := r.geom.Margin, r.geom.ContentWidth()

	rows := make([]tableRow, len(headers))
	tableH := float64(tableBase)
	for i, h := range headers {
		rows[i] = tableRow{
			key:   Wrap(r.m, h.Key, keyWidth, cellFont),
			value: Wrap(r.m, h.Value, cw-valueX, cellFont),
		}
		tableH += rows[i].height()
	}

	// Keep the caption with the table whenever the table fits on one page.
	need := float64(captionReserve)
	if captionAdvance+tableH <= r.geom.Capacity() {
		need = math.Max(need, captionAdvance+tableH)
	}
	r.cur.Reserve(need)
	r.text(BlockHeaders, m, r.cur.Y(), captionFont, Primary, "Headers:")
	r.cur.Advance(captionAdvance)

	if tableH <= r.geom.Capacity() {
		r.cur.Reserve(tableH)
	} else {
		r.cur.Reserve(tableHeadAdvance + rows[0].height())
	}

	// The column row is drawn once; later page segments only get a fill.
	y := r.cur.Y()
	p := r.openPanel(BlockHeaders, m, y-5, cw, TableFill)
	r.text(BlockHeaders, m+keyX, y+tableHeadY, columnFont, Primary, "Header Name")
	r.text(BlockHeaders, m+valueX, y+tableHeadY, columnFont, Primary, "Value")
	r.cur.Advance(tableHeadAdvance)

	// breakTo closes the current segment and continues the table on the
	// page the cursor has just moved to.
	breakTo := func(lastBottom float64) {
		r.closePanel(p, lastBottom)
		p = r.openPanel(BlockHeaders, m, r.cur.Y()-5, cw, TableFill)
	}

	for _, row := range rows {
		if row.height() <= r.geom.Capacity() {
			prev := r.cur.Y()
			if r.cur.Reserve(row.height()) {
				breakTo(prev - 2)
			}
			y := r.cur.Y()
			for i, l := range row.key {
				r.text(BlockHeaders, m+keyX, y+float64(i)*rowLineHeight, cellFont, Primary, l)
			}
			for i, l := range row.value {
				r.text(BlockHeaders, m+valueX, y+float64(i)*rowLineHeight, cellFont, Dark, l)
			}
			r.cur.Advance(row.height())
			continue
		}

		// The row alone is taller than a page.
		for i := 0; i < row.lines(); i++ {
			if i > 0 {
				r.cur.Advance(rowLineHeight)
			}
			prev := r.cur.Y()
			if r.cur.Reserve(rowLineHeight) {
				breakTo(prev - 2)
			}
			y := r.cur.Y()
			if i < len(row.key) {
				r.text(BlockHeaders, m+keyX, y, cellFont, Primary, row.key[i])
			}
			if i < len(row.value) {
				r.text(BlockHeaders, m+valueX, y, cellFont, Dark, row.value[i])
			}
		}
		r.cur.Advance(rowLineHeight + rowPadding)
	}
	r.closePanel(p, r.cur.Y()-2)
	r.cur.Advance(tableAfter)
}

func (r *renderer) requestBody(raw string) {
	m, cw := r.geom.Margin, r.geom.ContentWidth()

	r.cur.Reserve(captionReserve)
	r.text(BlockRequestBody, m, r.cur.Y(), captionFont, Primary, "Request Body:")
	r.cur.Advance(captionAdvance)

	lines := Wrap(r.m, raw, cw-requestBodyWrap, codeFont)
	r.panelLines(BlockRequestBody, lines, LightGray, nil)
	r.cur.Advance(bodyLineHeight + requestBodyGap)
}

func (r *renderer) response(resp model.Response) {
	m, cw := r.geom.Margin, r.geom.ContentWidth()

	r.cur.Reserve(responseReserve)
	y := r.cur.Y()
	r.rect(BlockResponse, m-5, y-8, cw+10, 16, Success)
	r.text(BlockResponse, m, y, titleFont, White, "Response Details")
	r.cur.Advance(responseAdvance)

	r.cur.Reserve(statusReserve)
	y = r.cur.Y()
	r.rect(BlockResponse, m, y-5, statusBadgeWidth, badgeHeight, StatusColor(resp.Code))
	r.text(BlockResponse, m+3, y, badgeFont, White, strconv.Itoa(resp.Code))
	status := Truncate(r.m, "Status: "+resp.Status, cw-statusTextX, textFont)
	r.text(BlockResponse, m+statusTextX, y, textFont, Dark, status)
	r.cur.Advance(statusAdvance)

	body := model.UnescapeNewlines(resp.Body)
	if body == "" {
		return
	}
	caption := func() {
		r.text(BlockResponseBody, m, r.cur.Y(), captionFont, Success, "Response Body:")
		r.cur.Advance(captionAdvance)
	}
	caption()
	lines := Wrap(r.m, body, cw-responseBodyWrap, codeFont)
	r.panelLines(BlockResponseBody, lines, LightGreen, caption)
	r.cur.Advance(bodyLineHeight + responseBodyGap)
}

// panelLines draws lines one at a time on a filled panel. Each line is
// reserved on its own so the panel can span pages; every page segment gets
// a fill sized to the lines drawn on that page. firstBreak, if set, runs on
// the new page when the very first line does not fit.
func (r *renderer) panelLines(b Block, lines []string, fill Color, firstBreak func()) {
	m, cw := r.geom.Margin, r.geom.ContentWidth()

	var p *panel
	for i, l := range lines {
		if i > 0 {
			r.cur.Advance(bodyLineHeight)
		}
		prev := r.cur.Y()
		if r.cur.Reserve(bodyLineHeight) {
			if p != nil {
				r.closePanel(p, prev-2)
				p = nil
			}
			if i == 0 && firstBreak != nil {
				firstBreak()
			}
		}
		if p == nil {
			p = r.openPanel(b, m, r.cur.Y()-5, cw, fill)
		}
		r.text(b, m+bodyIndent, r.cur.Y(), codeFont, Dark, l)
	}
	r.closePanel(p, r.cur.Y()+panelPadBottom)
}

func (r *renderer) separator() {
	m := r.geom.Margin
	r.cur.Reserve(separatorReserve)
	y := r.cur.Y()
	r.line(BlockSeparator, m, y, r.geom.PageWidth-m, y, Light)
	r.cur.Advance(separatorAdvance)
}
