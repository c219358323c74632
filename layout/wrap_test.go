package layout

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	m := Monospace{}
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 100, []string{""}},
		{"fits", "hello", 100, []string{"hello"}},
		{"crlf", "a\r\nb\rc", 100, []string{"a", "b", "c"}},
		{"blank paragraph", "a\n\nb", 100, []string{"a", "", "b"}},
		{"trailing newline", "a\n", 100, []string{"a", ""}},
		{"break at space", "hello world foo", 25, []string{"hello world", "foo"}},
		{"long word", "abcdefghij", 10, []string{"abcd", "efgh", "ij"}},
		{"glyph wider than line", "ab", 1, []string{"a", "b"}},
		{"tab expands", "\tx", 100, []string{"    x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(m, tt.text, tt.width, codeFont)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	m := Monospace{}
	rng := rand.New(rand.NewSource(7))
	const alphabet = "abc def ghij klmnop\nqr st uvwxyz {}\":,"

	for i := 0; i < 200; i++ {
		var sb strings.Builder
		n := rng.Intn(600)
		for j := 0; j < n; j++ {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		width := 5 + rng.Float64()*170
		for _, line := range Wrap(m, sb.String(), width, codeFont) {
			if utf8.RuneCountInString(line) <= 1 {
				continue
			}
			if w := m.StringWidth(line, codeFont); w > width {
				t.Fatalf("line %q is %.2fmm wide, limit %.2fmm", line, w, width)
			}
		}
	}
}

func TestWrapDeterministic(t *testing.T) {
	m := Monospace{}
	text := strings.Repeat("the quick brown fox ", 40)
	a := Wrap(m, text, 120, textFont)
	b := Wrap(m, text, 120, textFont)
	if !reflect.DeepEqual(a, b) {
		t.Error("Wrap returned different lines for the same input")
	}
}

func TestTruncate(t *testing.T) {
	m := Monospace{}
	if got := Truncate(m, "short", 100, codeFont); got != "short" {
		t.Errorf("Truncate() = %q, want unchanged", got)
	}
	got := Truncate(m, strings.Repeat("x", 200), 50, codeFont)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate() = %q, want ellipsis suffix", got)
	}
	if w := m.StringWidth(got, codeFont); w > 50 {
		t.Errorf("truncated width %.2f exceeds 50", w)
	}
}

func TestMonospaceWidth(t *testing.T) {
	// 0.6em at 10pt is 6pt per glyph.
	got := Monospace{}.StringWidth("abc", codeFont)
	want := 18 * 25.4 / 72
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("StringWidth = %v, want %v", got, want)
	}
}
