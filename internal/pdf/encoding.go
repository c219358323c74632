package pdf

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// fontDecoder maps the bytes of a shown string to text.
//
// Simple fonts use a one-byte code table built from their /Encoding.
// Composite fonts rely on the /ToUnicode CMap with two-byte codes.
type fontDecoder struct {
	simple bool
	table  *charmap.Charmap
	cmap   map[uint32]string
}

func newFontDecoder(f *File, font Dict) *fontDecoder {
	d := &fontDecoder{simple: true, table: charmap.Windows1252, cmap: map[uint32]string{}}
	if font == nil {
		return d
	}
	if sub, _ := font.Name("Subtype"); sub == "Type0" {
		d.simple = false
	}

	enc := f.Resolve(font["Encoding"])
	if enc.Kind == Dictionary {
		if base, ok := enc.Dict.Name("BaseEncoding"); ok {
			d.table = namedEncoding(base)
		}
	} else if enc.Kind == Name {
		d.table = namedEncoding(enc.Name)
	}

	if tu := f.Resolve(font["ToUnicode"]); tu.Kind == Stream {
		if data, err := decode(tu.Dict, tu.Data); err == nil {
			d.parseCMap(data)
		}
	}
	return d
}

func namedEncoding(name string) *charmap.Charmap {
	if name == "MacRomanEncoding" {
		return charmap.Macintosh
	}
	return charmap.Windows1252
}

func (d *fontDecoder) decode(s []byte) string {
	var sb strings.Builder
	if d.simple {
		for _, b := range s {
			if v, ok := d.cmap[uint32(b)]; ok {
				sb.WriteString(v)
				continue
			}
			sb.WriteRune(d.table.DecodeByte(b))
		}
		return sb.String()
	}
	for i := 0; i < len(s); {
		if i+1 < len(s) {
			if v, ok := d.cmap[uint32(s[i])<<8|uint32(s[i+1])]; ok {
				sb.WriteString(v)
				i += 2
				continue
			}
		}
		if v, ok := d.cmap[uint32(s[i])]; ok {
			sb.WriteString(v)
		}
		i++
	}
	return sb.String()
}

// parseCMap reads the bfchar and bfrange sections of a ToUnicode CMap.
func (d *fontDecoder) parseCMap(data []byte) {
	l := newLexer(data, 0)
	var operands []*Object
	for {
		l.skipSpace()
		if l.eof() {
			return
		}
		switch c := l.buf[l.pos]; {
		case c == '<' || c == '[' || c == '(' || c == '/' || (c >= '0' && c <= '9'):
			o, err := l.object()
			if err != nil {
				return
			}
			operands = append(operands, o)
			continue
		}
		switch l.token() {
		case "endbfchar":
			for i := 0; i+1 < len(operands); i += 2 {
				d.cmap[code(operands[i].Str)] = utf16be(operands[i+1].Str)
			}
		case "endbfrange":
			for i := 0; i+2 < len(operands); i += 3 {
				d.bfrange(operands[i], operands[i+1], operands[i+2])
			}
		case "":
			l.pos++
		}
		operands = operands[:0]
	}
}

func (d *fontDecoder) bfrange(lo, hi, dst *Object) {
	from, to := code(lo.Str), code(hi.Str)
	if to < from || to-from > 0xffff {
		return
	}
	if dst.Kind == Array {
		for i, o := range dst.Array {
			if from+uint32(i) > to {
				break
			}
			d.cmap[from+uint32(i)] = utf16be(o.Str)
		}
		return
	}
	start := []rune(utf16be(dst.Str))
	if len(start) == 0 {
		return
	}
	for c := from; c <= to; c++ {
		d.cmap[c] = string(start[0] + rune(c-from))
	}
}

func code(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func utf16be(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}

// textString decodes a PDF text string: UTF-16 with a byte order mark, or
// a single-byte encoding otherwise.
func textString(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xfe, 0xff}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(b); err == nil {
			return string(out)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
