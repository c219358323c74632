package layout

// Kind discriminates a [DrawCommand].
type Kind uint8

const (
	FilledRect Kind = iota + 1
	Text
	Line
)

func (k Kind) String() string {
	switch k {
	case FilledRect:
		return "rect"
	case Text:
		return "text"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// Block names the renderer that produced a command.
type Block uint8

const (
	BlockBanner Block = iota + 1
	BlockTitle
	BlockMethod
	BlockHeaders
	BlockRequestBody
	BlockResponse
	BlockResponseBody
	BlockSeparator
	BlockFooter
)

// DrawCommand is one absolute drawing instruction. Coordinates are in
// millimetres from the top-left corner of page Page (1-based).
//
// FilledRect uses X, Y, W, H. Text draws Text with its baseline at (X, Y)
// in Font. Line runs from (X, Y) to (X2, Y2).
type DrawCommand struct {
	Kind  Kind
	Block Block
	Page  int

	X, Y   float64
	W, H   float64
	X2, Y2 float64

	Color Color
	Font  Font
	Text  string
}

// Bottom returns the lowest y the command touches.
func (d DrawCommand) Bottom() float64 {
	switch d.Kind {
	case FilledRect:
		return d.Y + d.H
	case Line:
		return max(d.Y, d.Y2)
	default:
		return d.Y
	}
}

// canvas records commands in paint order.
type canvas struct {
	cmds []DrawCommand
}

func (c *canvas) add(cmd DrawCommand) {
	c.cmds = append(c.cmds, cmd)
}

// reserve appends an empty slot and returns its index. The slot is painted
// before everything recorded after it once set fills it in.
func (c *canvas) reserve() int {
	c.cmds = append(c.cmds, DrawCommand{})
	return len(c.cmds) - 1
}

func (c *canvas) set(i int, cmd DrawCommand) {
	c.cmds[i] = cmd
}
