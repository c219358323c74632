package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports the rendered width of a string in millimetres.
//
// Widths must be additive: the width of a string equals the sum of the
// widths of its runes. The PDF core fonts have no kerning, so this holds for
// every implementation in this module.
type Measurer interface {
	StringWidth(s string, f Font) float64
}

const ptToMM = 25.4 / 72

// Monospace measures every glyph as a fixed fraction of the font size. The
// zero value uses 0.6 em, which is exact for Courier.
type Monospace struct {
	Em float64
}

// StringWidth implements [Measurer].
func (m Monospace) StringWidth(s string, f Font) float64 {
	em := m.Em
	if em <= 0 {
		em = 0.6
	}
	return float64(utf8.RuneCountInString(s)) * em * f.Size * ptToMM
}

const tabWidth = 4

// Wrap breaks text into lines no wider than width when drawn in f.
//
// Line endings are normalized, every hard break starts a new line, and an
// empty paragraph yields an empty line, so Wrap("") returns a single empty
// line. Paragraphs break after the last space that fits; a word wider than
// the whole width is split between glyphs. The only line that can exceed
// width is a single glyph that is itself wider than width.
func Wrap(m Measurer, text string, width float64, f Font) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, para, width, f)...)
	}
	return lines
}

func wrapParagraph(m Measurer, para string, width float64, f Font) []string {
	if para == "" || m.StringWidth(para, f) <= width {
		return []string{para}
	}

	runes := []rune(para)
	var lines []string
	start := 0
	for start < len(runes) {
		end := start
		lastSpace := -1
		w := 0.0
		for end < len(runes) {
			w += m.StringWidth(string(runes[end]), f)
			if w > width {
				break
			}
			if runes[end] == ' ' {
				lastSpace = end
			}
			end++
		}

		switch {
		case end == len(runes):
			lines = append(lines, string(runes[start:]))
			start = end
		case end == start:
			// The glyph alone is wider than the line.
			lines = append(lines, string(runes[start]))
			start++
		case runes[end] == ' ':
			lines = append(lines, string(runes[start:end]))
			start = end + 1
		case lastSpace > start:
			lines = append(lines, string(runes[start:lastSpace]))
			start = lastSpace + 1
		default:
			lines = append(lines, string(runes[start:end]))
			start = end
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// Truncate shortens s with a trailing ellipsis until it fits width.
func Truncate(m Measurer, s string, width float64, f Font) string {
	if m.StringWidth(s, f) <= width {
		return s
	}
	const ellipsis = "..."
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + ellipsis
		if m.StringWidth(t, f) <= width {
			return t
		}
	}
	return ellipsis
}
