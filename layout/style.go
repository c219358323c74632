package layout

import (
	"fmt"
	"strings"
)

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Palette.
var (
	Primary    = Color{41, 128, 185}
	Success    = Color{39, 174, 96}
	Warning    = Color{243, 156, 18}
	Danger     = Color{231, 76, 60}
	Dark       = Color{52, 73, 94}
	Light      = Color{149, 165, 166}
	Background = Color{236, 240, 241}
	LightGreen = Color{240, 255, 240}
	LightGray  = Color{248, 249, 250}
	TableFill  = Color{252, 252, 252}
	White      = Color{255, 255, 255}
)

// MethodColor returns the badge color for an HTTP method. It is defined for
// every input; methods other than GET, POST and PUT are drawn as Danger.
func MethodColor(method string) Color {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "GET":
		return Success
	case "POST":
		return Primary
	case "PUT":
		return Warning
	default:
		return Danger
	}
}

// StatusColor returns the badge color for a response status code. Codes
// outside the HTTP range are drawn as Danger.
func StatusColor(code int) Color {
	switch {
	case code < 100:
		return Danger
	case code < 300:
		return Success
	case code < 400:
		return Warning
	default:
		return Danger
	}
}

// Family is a PDF core font family.
type Family string

const (
	Helvetica Family = "Helvetica"
	Courier   Family = "Courier"
)

// Style is a font style in the notation PDF writers use ("", "B").
type Style string

const (
	Regular Style = ""
	Bold    Style = "B"
)

// Font selects a family, style and size in points.
type Font struct {
	Family Family
	Style  Style
	Size   float64
}

var (
	headingFont = Font{Helvetica, Bold, 24}
	titleFont   = Font{Helvetica, Bold, 16}
	badgeFont   = Font{Helvetica, Bold, 10}
	textFont    = Font{Helvetica, Regular, 10}
	captionFont = Font{Helvetica, Bold, 12}
	columnFont  = Font{Helvetica, Bold, 10}
	cellFont    = Font{Helvetica, Regular, 9}
	codeFont    = Font{Courier, Regular, 10}
	footerFont  = Font{Helvetica, Regular, 10}
)

// Hex returns c in CSS notation, e.g. "#2980b9".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
