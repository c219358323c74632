package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNotPDF is returned when the input does not start with a PDF header.
var ErrNotPDF = errors.New("pdf: not a PDF file")

type xrefEntry struct {
	offset int64
	inUse  bool

	// Objects packed in an object stream.
	packed    bool
	container int
	index     int
}

// File is a parsed PDF document. It is not safe for concurrent use.
type File struct {
	buf     []byte
	xref    map[int]xrefEntry
	trailer Dict
	cache   map[int]*Object
}

// Open reads and parses the PDF at path.
func Open(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return Load(buf)
}

// Load parses a PDF held in memory.
func Load(buf []byte) (*File, error) {
	if !bytes.HasPrefix(buf, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	f := &File{
		buf:   buf,
		xref:  map[int]xrefEntry{},
		cache: map[int]*Object{},
	}
	off, err := f.startXRef()
	if err != nil {
		return nil, err
	}
	if err := f.readXRef(off, 0); err != nil {
		return nil, fmt.Errorf("pdf: reading xref: %w", err)
	}
	return f, nil
}

// Version returns the header version, e.g. "1.3".
func (f *File) Version() string {
	line := f.buf[len("%PDF-"):]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(string(line))
}

func (f *File) startXRef() (int64, error) {
	from := max(0, len(f.buf)-1024)
	i := bytes.LastIndex(f.buf[from:], []byte("startxref"))
	if i < 0 {
		return 0, errors.New("pdf: startxref not found")
	}
	l := newLexer(f.buf, from+i+len("startxref"))
	l.skipSpace()
	off, err := strconv.ParseInt(l.token(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("pdf: bad startxref: %w", err)
	}
	return off, nil
}

const maxXRefSections = 64

func (f *File) readXRef(off int64, depth int) error {
	if depth > maxXRefSections {
		return errors.New("too many xref sections")
	}
	if off < 0 || off >= int64(len(f.buf)) {
		return fmt.Errorf("offset %d out of range", off)
	}
	l := newLexer(f.buf, int(off))
	l.skipSpace()

	var trailer Dict
	var err error
	if l.accept("xref") {
		trailer, err = f.xrefTable(l)
	} else {
		trailer, err = f.xrefStream(l)
	}
	if err != nil {
		return err
	}
	if f.trailer == nil {
		f.trailer = trailer
	}
	if prev, ok := trailer.Int("Prev"); ok && prev > 0 {
		return f.readXRef(prev, depth+1)
	}
	return nil
}

// xrefTable reads a classic table and the trailer dictionary after it.
// Entries already known from a newer section win.
func (f *File) xrefTable(l *lexer) (Dict, error) {
	for {
		l.skipSpace()
		if l.eof() || l.accept("trailer") {
			break
		}
		first, err1 := strconv.Atoi(l.token())
		l.skipSpace()
		count, err2 := strconv.Atoi(l.token())
		if err1 != nil || err2 != nil {
			break
		}
		for i := 0; i < count; i++ {
			l.skipSpace()
			off, _ := strconv.ParseInt(l.token(), 10, 64)
			l.skipSpace()
			l.token() // generation
			l.skipSpace()
			kind := l.token()
			if _, seen := f.xref[first+i]; !seen {
				f.xref[first+i] = xrefEntry{offset: off, inUse: kind == "n"}
			}
		}
	}
	t, err := l.object()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	if t.Kind != Dictionary {
		return nil, errors.New("trailer is not a dictionary")
	}
	return t.Dict, nil
}

// xrefStream reads a cross-reference stream (PDF 1.5).
func (f *File) xrefStream(l *lexer) (Dict, error) {
	obj, err := f.indirectAt(l)
	if err != nil {
		return nil, err
	}
	if obj.Kind != Stream {
		return nil, errors.New("xref is neither a table nor a stream")
	}
	data, err := decode(obj.Dict, obj.Data)
	if err != nil {
		return nil, fmt.Errorf("xref stream: %w", err)
	}

	w, _ := obj.Dict.Array("W")
	if len(w) < 3 {
		return nil, errors.New("xref stream without /W")
	}
	w1, w2, w3 := int(w[0].Int), int(w[1].Int), int(w[2].Int)
	width := w1 + w2 + w3
	if width == 0 {
		return nil, errors.New("xref stream with empty entries")
	}

	size, _ := obj.Dict.Int("Size")
	sections := [][2]int{{0, int(size)}}
	if idx, ok := obj.Dict.Array("Index"); ok {
		sections = sections[:0]
		for i := 0; i+1 < len(idx); i += 2 {
			sections = append(sections, [2]int{int(idx[i].Int), int(idx[i+1].Int)})
		}
	}

	pos := 0
	for _, s := range sections {
		for i := 0; i < s[1] && pos+width <= len(data); i++ {
			typ := 1
			if w1 > 0 {
				typ = beUint(data[pos:pos+w1])
			}
			a := beUint(data[pos+w1 : pos+w1+w2])
			b := beUint(data[pos+w1+w2 : pos+width])
			pos += width

			num := s[0] + i
			if _, seen := f.xref[num]; seen {
				continue
			}
			switch typ {
			case 0:
				f.xref[num] = xrefEntry{}
			case 1:
				f.xref[num] = xrefEntry{offset: int64(a), inUse: true}
			case 2:
				f.xref[num] = xrefEntry{inUse: true, packed: true, container: a, index: b}
			}
		}
	}
	return obj.Dict, nil
}

func beUint(b []byte) int {
	v := 0
	for _, c := range b {
		v = v<<8 | int(c)
	}
	return v
}

// indirectAt parses "N G obj <object>" at the lexer position.
func (f *File) indirectAt(l *lexer) (*Object, error) {
	l.skipSpace()
	l.token()
	l.skipSpace()
	l.token()
	l.skipSpace()
	if !l.accept("obj") {
		return nil, fmt.Errorf("no object at offset %d", l.pos)
	}
	return l.object()
}

// Resolve follows o if it is a reference. Dangling references resolve to
// the null object.
func (f *File) Resolve(o *Object) *Object {
	if o == nil {
		return null
	}
	if o.Kind != Reference {
		return o
	}
	if cached, ok := f.cache[o.Ref.Num]; ok {
		return cached
	}
	e, ok := f.xref[o.Ref.Num]
	if !ok || !e.inUse {
		return null
	}
	// Guard against reference cycles while resolving.
	f.cache[o.Ref.Num] = null

	var obj *Object
	var err error
	if e.packed {
		obj, err = f.unpack(e)
	} else if e.offset >= 0 && e.offset < int64(len(f.buf)) {
		obj, err = f.indirectAt(newLexer(f.buf, int(e.offset)))
	}
	if err != nil || obj == nil {
		obj = null
	}
	f.cache[o.Ref.Num] = obj
	return obj
}

func (f *File) unpack(e xrefEntry) (*Object, error) {
	container := f.Resolve(&Object{Kind: Reference, Ref: Ref{Num: e.container}})
	if container.Kind != Stream {
		return nil, errors.New("object stream container is not a stream")
	}
	data, err := decode(container.Dict, container.Data)
	if err != nil {
		return nil, err
	}
	n, _ := container.Dict.Int("N")
	first, _ := container.Dict.Int("First")
	if e.index >= int(n) {
		return nil, errors.New("object index out of range")
	}

	l := newLexer(data, 0)
	var off int
	for i := 0; i <= e.index; i++ {
		l.skipSpace()
		l.token()
		l.skipSpace()
		off, _ = strconv.Atoi(l.token())
	}
	pos := int(first) + off
	if pos >= len(data) {
		return nil, errors.New("object offset out of range")
	}
	return newLexer(data, pos).object()
}

func (f *File) dict(o *Object) Dict {
	o = f.Resolve(o)
	if o.Kind == Dictionary || o.Kind == Stream {
		return o.Dict
	}
	return nil
}

// Info returns the document information dictionary with text values
// decoded, e.g. "Title" and "Producer".
func (f *File) Info() map[string]string {
	info := map[string]string{}
	for k, v := range f.dict(f.trailer["Info"]) {
		if v = f.Resolve(v); v.Kind == String {
			info[k] = textString(v.Str)
		}
	}
	return info
}

// Page is one leaf of the page tree with its inherited attributes applied.
type Page struct {
	dict      Dict
	resources Dict

	Width, Height float64 // points
	Rotate        int
}

// Pages returns the pages in document order.
func (f *File) Pages() ([]Page, error) {
	root := f.dict(f.trailer["Root"])
	if root == nil {
		return nil, errors.New("pdf: missing document catalog")
	}
	tree := f.dict(root["Pages"])
	if tree == nil {
		return nil, errors.New("pdf: missing page tree")
	}
	var pages []Page
	f.walk(tree, inherited{}, &pages, 0)
	return pages, nil
}

// NumPages returns the number of pages.
func (f *File) NumPages() (int, error) {
	pages, err := f.Pages()
	return len(pages), err
}

type inherited struct {
	resources Dict
	mediaBox  []*Object
	rotate    *Object
}

func (f *File) walk(node Dict, inh inherited, out *[]Page, depth int) {
	if depth > maxDepth {
		return
	}
	if r := f.dict(node["Resources"]); r != nil {
		inh.resources = r
	}
	if mb := f.Resolve(node["MediaBox"]); mb.Kind == Array && len(mb.Array) >= 4 {
		inh.mediaBox = mb.Array
	}
	if rot, ok := node["Rotate"]; ok {
		inh.rotate = f.Resolve(rot)
	}

	if typ, _ := node.Name("Type"); typ == "Page" || node["Kids"] == nil {
		p := Page{dict: node, resources: inh.resources}
		if mb := inh.mediaBox; mb != nil {
			p.Width = number(f.Resolve(mb[2])) - number(f.Resolve(mb[0]))
			p.Height = number(f.Resolve(mb[3])) - number(f.Resolve(mb[1]))
		}
		if inh.rotate != nil {
			p.Rotate = int(number(inh.rotate))
		}
		*out = append(*out, p)
		return
	}

	kids := f.Resolve(node["Kids"])
	for _, k := range kids.Array {
		if d := f.dict(k); d != nil {
			f.walk(d, inh, out, depth+1)
		}
	}
}

// contents returns the concatenated, decoded content streams of p.
func (f *File) contents(p Page) []byte {
	c := f.Resolve(p.dict["Contents"])
	parts := []*Object{c}
	if c.Kind == Array {
		parts = c.Array
	}
	var out []byte
	for _, part := range parts {
		s := f.Resolve(part)
		if s.Kind != Stream {
			continue
		}
		data, err := decode(s.Dict, s.Data)
		if err != nil {
			continue
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out
}

// fonts returns a decoder for every font resource of p.
func (f *File) fonts(p Page) map[string]*fontDecoder {
	out := map[string]*fontDecoder{}
	for name, ref := range f.dict(p.resources["Font"]) {
		out[name] = newFontDecoder(f, f.dict(ref))
	}
	return out
}
