package pdf

import (
	"bytes"
	"errors"
	"strconv"
)

const maxDepth = 100

var errTooDeep = errors.New("pdf: object nesting too deep")

// lexer is a recursive-descent object parser over an in-memory buffer.
type lexer struct {
	buf   []byte
	pos   int
	depth int
}

func newLexer(buf []byte, pos int) *lexer {
	return &lexer{buf: buf, pos: pos}
}

func (l *lexer) eof() bool { return l.pos >= len(l.buf) }

// skipSpace skips white space and comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		switch {
		case c == '%':
			for l.pos < len(l.buf) && l.buf[l.pos] != '\n' && l.buf[l.pos] != '\r' {
				l.pos++
			}
		case isSpace(c):
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) accept(kw string) bool {
	if bytes.HasPrefix(l.buf[l.pos:], []byte(kw)) {
		l.pos += len(kw)
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

// token reads a regular (non-delimiter, non-space) token.
func (l *lexer) token() string {
	start := l.pos
	for l.pos < len(l.buf) && !isSpace(l.buf[l.pos]) && !isDelim(l.buf[l.pos]) {
		l.pos++
	}
	return string(l.buf[start:l.pos])
}

// object parses the next object.
func (l *lexer) object() (*Object, error) {
	if l.depth > maxDepth {
		return nil, errTooDeep
	}
	l.depth++
	defer func() { l.depth-- }()

	l.skipSpace()
	if l.eof() {
		return null, nil
	}
	c := l.buf[l.pos]
	switch {
	case c == '(':
		return l.literal(), nil
	case c == '<' && l.pos+1 < len(l.buf) && l.buf[l.pos+1] == '<':
		return l.dict()
	case c == '<':
		return l.hex(), nil
	case c == '/':
		return &Object{Kind: Name, Name: l.name()}, nil
	case c == '[':
		return l.array()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return l.numberOrRef(), nil
	case l.accept("null"):
		return null, nil
	case l.accept("true"):
		return &Object{Kind: Bool, Bool: true}, nil
	case l.accept("false"):
		return &Object{Kind: Bool}, nil
	}
	// Unknown keyword.
	l.pos++
	return null, nil
}

func (l *lexer) literal() *Object {
	l.pos++
	var out bytes.Buffer
	depth := 1
	for l.pos < len(l.buf) {
		c := l.buf[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Object{Kind: String, Str: out.Bytes()}
			}
		case '\\':
			if l.pos >= len(l.buf) {
				continue
			}
			esc := l.buf[l.pos]
			l.pos++
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'f':
				out.WriteByte('\f')
			case '\r':
				if l.pos < len(l.buf) && l.buf[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if esc < '0' || esc > '7' {
					out.WriteByte(esc)
					continue
				}
				v := int(esc - '0')
				for i := 0; i < 2 && l.pos < len(l.buf); i++ {
					d := l.buf[l.pos]
					if d < '0' || d > '7' {
						break
					}
					v = v*8 + int(d-'0')
					l.pos++
				}
				out.WriteByte(byte(v))
			}
			continue
		}
		out.WriteByte(c)
	}
	return &Object{Kind: String, Str: out.Bytes()}
}

func (l *lexer) hex() *Object {
	l.pos++
	var digits []byte
	for l.pos < len(l.buf) && l.buf[l.pos] != '>' {
		if c := l.buf[l.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++
	return &Object{Kind: String, Str: decodeHex(digits)}
}

// decodeHex decodes pairs of hex digits; an odd trailing digit is padded
// with zero.
func decodeHex(digits []byte) []byte {
	out := make([]byte, 0, (len(digits)+1)/2)
	for i := 0; i < len(digits); i += 2 {
		hi := unhex(digits[i])
		var lo byte
		if i+1 < len(digits) {
			lo = unhex(digits[i+1])
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

func unhex(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

func (l *lexer) name() string {
	l.pos++
	raw := l.token()
	if !bytes.ContainsRune([]byte(raw), '#') {
		return raw
	}
	var out []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			out = append(out, unhex(raw[i+1])<<4|unhex(raw[i+2]))
			i += 2
			continue
		}
		out = append(out, raw[i])
	}
	return string(out)
}

func (l *lexer) array() (*Object, error) {
	l.pos++
	arr := &Object{Kind: Array}
	for {
		l.skipSpace()
		if l.eof() {
			return arr, nil
		}
		if l.buf[l.pos] == ']' {
			l.pos++
			return arr, nil
		}
		o, err := l.object()
		if err != nil {
			return nil, err
		}
		arr.Array = append(arr.Array, o)
	}
}

// dict parses a dictionary and the stream that may follow it.
func (l *lexer) dict() (*Object, error) {
	l.pos += 2
	d := Dict{}
	for {
		l.skipSpace()
		if l.eof() {
			break
		}
		if l.accept(">>") {
			break
		}
		if l.buf[l.pos] != '/' {
			l.pos++
			continue
		}
		key := l.name()
		v, err := l.object()
		if err != nil {
			return nil, err
		}
		d[key] = v
	}

	save := l.pos
	l.skipSpace()
	if !l.accept("stream") {
		l.pos = save
		return &Object{Kind: Dictionary, Dict: d}, nil
	}
	if l.pos < len(l.buf) && l.buf[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.buf) && l.buf[l.pos] == '\n' {
		l.pos++
	}

	start := l.pos
	end := -1
	if n, ok := d.Int("Length"); ok && d["Length"].Kind != Reference && start+int(n) <= len(l.buf) {
		end = start + int(n)
	}
	if end < 0 {
		i := bytes.Index(l.buf[start:], []byte("endstream"))
		if i < 0 {
			i = len(l.buf) - start
		}
		end = start + i
	}
	l.pos = end
	l.skipSpace()
	l.accept("endstream")
	return &Object{Kind: Stream, Dict: d, Data: l.buf[start:end]}, nil
}

// numberOrRef parses a number, or an indirect reference "N G R".
func (l *lexer) numberOrRef() *Object {
	tok := l.token()
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return null
		}
		return &Object{Kind: Real, Real: f}
	}

	after := l.pos
	l.skipSpace()
	if gen, err := strconv.Atoi(l.token()); err == nil {
		l.skipSpace()
		if l.pos < len(l.buf) && l.buf[l.pos] == 'R' &&
			(l.pos+1 == len(l.buf) || isSpace(l.buf[l.pos+1]) || isDelim(l.buf[l.pos+1])) {
			l.pos++
			return &Object{Kind: Reference, Ref: Ref{Num: int(n), Gen: gen}}
		}
	}
	l.pos = after
	return &Object{Kind: Int, Int: n}
}
