// Package pdf is a small read-only PDF parser. It understands enough of the
// file structure (cross-reference tables and streams, object streams, the
// page tree, and text-showing operators) to report page geometry and pull
// the visible text out of the documents this module produces, and of most
// documents printed by Chrome.
package pdf

// Kind identifies the type of a PDF object.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Real
	String
	Name
	Array
	Dictionary
	Stream
	Reference
)

// Object is any PDF value. Only the fields for its Kind are set.
type Object struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Real  float64
	Str   []byte
	Name  string
	Array []*Object
	Dict  Dict
	Data  []byte // raw, still-encoded stream bytes
	Ref   Ref
}

var null = &Object{Kind: Null}

// Ref is an indirect object reference.
type Ref struct {
	Num, Gen int
}

// Dict maps names to objects.
type Dict map[string]*Object

// Int returns the integer value stored under key.
func (d Dict) Int(key string) (int64, bool) {
	o, ok := d[key]
	if !ok {
		return 0, false
	}
	switch o.Kind {
	case Int:
		return o.Int, true
	case Real:
		return int64(o.Real), true
	}
	return 0, false
}

// Name returns the name (or string) stored under key.
func (d Dict) Name(key string) (string, bool) {
	o, ok := d[key]
	if !ok {
		return "", false
	}
	switch o.Kind {
	case Name:
		return o.Name, true
	case String:
		return string(o.Str), true
	}
	return "", false
}

// Array returns the array stored under key. A lone object is returned as a
// one-element array.
func (d Dict) Array(key string) ([]*Object, bool) {
	o, ok := d[key]
	if !ok {
		return nil, false
	}
	if o.Kind == Array {
		return o.Array, true
	}
	return []*Object{o}, true
}

func number(o *Object) float64 {
	if o == nil {
		return 0
	}
	switch o.Kind {
	case Real:
		return o.Real
	case Int:
		return float64(o.Int)
	}
	return 0
}
