package encode

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// toCP1252 transcodes s for the PDF core fonts, which are drawn with
// WinAnsiEncoding. Runes outside Windows-1252 become '?'.
func toCP1252(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return string(out)
}
