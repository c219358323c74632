package encode

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/porticus-lab/go-apidoc-pdf/internal/pdf"
	"github.com/porticus-lab/go-apidoc-pdf/layout"
	"github.com/porticus-lab/go-apidoc-pdf/model"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func render(t *testing.T, doc *model.Document, e Encoder) ([]byte, *layout.Layout) {
	t.Helper()
	l, err := layout.Assemble(doc, layout.Options{Measurer: NewMetrics(), Now: fixedNow})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	var buf bytes.Buffer
	if err := e.Encode(&buf, l); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes(), l
}

func pingDoc() *model.Document {
	return &model.Document{
		Name:  "Ping API",
		Items: []model.Request{{Name: "Ping", Method: "GET", URL: "https://x/ping"}},
	}
}

func longDoc() *model.Document {
	doc := &model.Document{Name: "Long"}
	body := strings.Repeat("line of body text\\n", 120)
	for i := 0; i < 4; i++ {
		doc.Items = append(doc.Items, model.Request{
			Name:   "Create",
			Method: "POST",
			URL:    "https://api.example.com/v1/items",
			Body:   &model.Body{Mode: "raw", Raw: body},
		})
	}
	return doc
}

func TestEncodeSinglePage(t *testing.T) {
	data, _ := render(t, pingDoc(), Encoder{})

	f, err := pdf.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pages, err := f.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if math.Abs(pages[0].Width-595.28) > 0.1 || math.Abs(pages[0].Height-841.89) > 0.1 {
		t.Errorf("page size = %.2fx%.2f, want A4", pages[0].Width, pages[0].Height)
	}

	text, err := f.PageText(0)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	for _, want := range []string{
		layout.DefaultHeading,
		"[1] Request: Ping",
		"https://x/ping",
		"Generated on 3/5/2024 | Page 1 of 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("page text missing %q:\n%s", want, text)
		}
	}
	if got := f.Info()["Title"]; got != "Ping API" {
		t.Errorf("Title = %q", got)
	}
}

func TestEncodeFootersOnEveryPage(t *testing.T) {
	data, l := render(t, longDoc(), Encoder{Compress: true})
	if l.Pages < 2 {
		t.Fatalf("expected several pages, got %d", l.Pages)
	}

	f, err := pdf.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	texts, err := f.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if len(texts) != l.Pages {
		t.Fatalf("PDF has %d pages, layout has %d", len(texts), l.Pages)
	}
	for i, text := range texts {
		want := layout.FooterText("3/5/2024", i+1, l.Pages)
		if !strings.Contains(text, want) {
			t.Errorf("page %d missing footer %q", i+1, want)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	for _, compress := range []bool{false, true} {
		a, _ := render(t, longDoc(), Encoder{Compress: compress})
		b, _ := render(t, longDoc(), Encoder{Compress: compress})
		if !bytes.Equal(a, b) {
			t.Errorf("compress=%v: output differs between runs", compress)
		}
	}
}

func TestEncodeWinAnsiText(t *testing.T) {
	doc := pingDoc()
	doc.Items[0].Name = "Café €"
	data, _ := render(t, doc, Encoder{})

	f, err := pdf.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	text, _ := f.PageText(0)
	if !strings.Contains(text, "[1] Request: Café €") {
		t.Errorf("page text = %q", text)
	}
}

func TestEncodeRejectsBadLayouts(t *testing.T) {
	var buf bytes.Buffer
	if err := (Encoder{}).Encode(&buf, nil); err == nil {
		t.Error("expected an error for a nil layout")
	}
	l := &layout.Layout{
		Geometry: layout.A4(),
		Pages:    1,
		Commands: []layout.DrawCommand{{Kind: layout.Text, Page: 2, Text: "x"}},
	}
	if err := (Encoder{}).Encode(&buf, l); err == nil {
		t.Error("expected an error for a command past the last page")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for a rejected layout", buf.Len())
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	regular := layout.Font{Family: layout.Helvetica, Style: layout.Regular, Size: 10}
	bold := layout.Font{Family: layout.Helvetica, Style: layout.Bold, Size: 10}
	code := layout.Font{Family: layout.Courier, Style: layout.Regular, Size: 10}

	if w := m.StringWidth("", regular); w != 0 {
		t.Errorf("empty width = %v", w)
	}
	if m.StringWidth("iiii", regular) >= m.StringWidth("WWWW", regular) {
		t.Error("proportional font measured as monospace")
	}
	if m.StringWidth("Request", bold) <= m.StringWidth("Request", regular) {
		t.Error("bold is not wider than regular")
	}
	// Courier matches the monospace fallback exactly.
	got := m.StringWidth("abcdefghij", code)
	want := layout.Monospace{}.StringWidth("abcdefghij", code)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Courier width = %v, want %v", got, want)
	}
	// Unencodable runes are measured as the replacement glyph.
	if m.StringWidth("日", regular) != m.StringWidth("?", regular) {
		t.Error("unencodable rune not measured as '?'")
	}
	a := m.StringWidth("ab", regular)
	if sum := m.StringWidth("a", regular) + m.StringWidth("b", regular); math.Abs(a-sum) > 1e-9 {
		t.Errorf("width not additive: %v vs %v", a, sum)
	}
}

func TestToCP1252(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"€", "\x80"},
		{"é", "\xe9"},
		{"日本", "??"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toCP1252(tt.in); got != tt.want {
			t.Errorf("toCP1252(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
