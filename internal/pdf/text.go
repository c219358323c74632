package pdf

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// PageText returns the text of page i (0-based), one visual line per line.
func (f *File) PageText(i int) (string, error) {
	pages, err := f.Pages()
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(pages) {
		return "", fmt.Errorf("pdf: page %d out of range [0,%d)", i, len(pages))
	}
	return f.text(pages[i]), nil
}

// Text returns the text of every page.
func (f *File) Text() ([]string, error) {
	pages, err := f.Pages()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = f.text(p)
	}
	return out, nil
}

func (f *File) text(p Page) string {
	content := f.contents(p)
	if len(content) == 0 {
		return ""
	}
	in := interpreter{fonts: f.fonts(p), size: 12}
	in.run(content)
	return joinSpans(in.spans)
}

type span struct {
	x, y, size float64
	text       string
}

// interpreter tracks just enough text state to place shown strings.
type interpreter struct {
	fonts map[string]*fontDecoder

	font          string
	size, leading float64
	inText        bool

	// text line origin and current position
	lx, ly float64
	x, y   float64

	spans []span
}

func (in *interpreter) run(content []byte) {
	l := newLexer(content, 0)
	var args []*Object
	for {
		l.skipSpace()
		if l.eof() {
			return
		}
		c := l.buf[l.pos]
		if c == '(' || c == '<' || c == '/' || c == '[' || c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			o, err := l.object()
			if err != nil {
				return
			}
			args = append(args, o)
			continue
		}
		op := l.operator()
		if op == "" {
			l.pos++
			continue
		}
		in.apply(op, args)
		args = args[:0]
	}
}

func (l *lexer) operator() string {
	start := l.pos
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		if isSpace(c) || (isDelim(c) && c != '{' && c != '}') {
			break
		}
		l.pos++
	}
	return string(l.buf[start:l.pos])
}

func (in *interpreter) moveTo(x, y float64) {
	in.lx, in.ly = x, y
	in.x, in.y = x, y
}

func (in *interpreter) nextLine() {
	in.moveTo(in.lx, in.ly-in.leading)
}

func (in *interpreter) apply(op string, args []*Object) {
	arg := func(i int) float64 {
		if i < len(args) {
			return number(args[i])
		}
		return 0
	}
	switch op {
	case "BT":
		in.inText = true
		in.moveTo(0, 0)
	case "ET":
		in.inText = false
	case "Tf":
		if len(args) >= 2 && args[0].Kind == Name {
			in.font = args[0].Name
			in.size = arg(1)
		}
	case "TL":
		in.leading = arg(0)
	case "Td":
		in.moveTo(in.lx+arg(0), in.ly+arg(1))
	case "TD":
		in.leading = -arg(1)
		in.moveTo(in.lx+arg(0), in.ly+arg(1))
	case "Tm":
		in.moveTo(arg(4), arg(5))
	case "T*":
		in.nextLine()
	case "Tj":
		if len(args) > 0 {
			in.show(args[0])
		}
	case "'":
		in.nextLine()
		if len(args) > 0 {
			in.show(args[0])
		}
	case `"`:
		in.nextLine()
		if len(args) > 2 {
			in.show(args[2])
		}
	case "TJ":
		if len(args) > 0 {
			in.showArray(args[0])
		}
	}
}

func (in *interpreter) decode(s []byte) string {
	if d, ok := in.fonts[in.font]; ok {
		return d.decode(s)
	}
	return (&fontDecoder{simple: true, table: namedEncoding("")}).decode(s)
}

func (in *interpreter) emit(text string) {
	if !in.inText || text == "" {
		return
	}
	in.spans = append(in.spans, span{x: in.x, y: in.y, size: in.size, text: text})
}

func (in *interpreter) show(o *Object) {
	if o.Kind == String {
		in.emit(in.decode(o.Str))
	}
}

// showArray handles TJ. Large negative adjustments are word gaps.
func (in *interpreter) showArray(o *Object) {
	if o.Kind != Array {
		return
	}
	var sb strings.Builder
	for _, e := range o.Array {
		switch e.Kind {
		case String:
			sb.WriteString(in.decode(e.Str))
		case Int, Real:
			if number(e) < -100 {
				sb.WriteByte(' ')
			}
		}
	}
	in.emit(sb.String())
}

// joinSpans groups spans into lines by baseline, top to bottom, and orders
// each line left to right.
func joinSpans(spans []span) string {
	if len(spans) == 0 {
		return ""
	}
	avg := 0.0
	for _, s := range spans {
		avg += s.size
	}
	tol := math.Max(avg/float64(len(spans))*0.5, 2)

	type line struct {
		y     float64
		spans []span
	}
	var lines []*line
	for _, s := range spans {
		var dst *line
		for _, ln := range lines {
			if math.Abs(ln.y-s.y) < tol {
				dst = ln
				break
			}
		}
		if dst == nil {
			dst = &line{y: s.y}
			lines = append(lines, dst)
		}
		dst.spans = append(dst.spans, s)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var sb strings.Builder
	for i, ln := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sort.SliceStable(ln.spans, func(a, b int) bool { return ln.spans[a].x < ln.spans[b].x })
		for j, s := range ln.spans {
			if j > 0 {
				prev := ln.spans[j-1]
				gap := s.x - (prev.x + float64(len([]rune(prev.text)))*prev.size*0.5)
				if gap > (s.size+prev.size)/2*0.3 {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(clean(s.text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// clean collapses white space runs and drops control characters.
func clean(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		case unicode.IsControl(r):
		default:
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
