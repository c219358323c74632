package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func assemble(t *testing.T, doc *model.Document) *Layout {
	t.Helper()
	l, err := Assemble(doc, Options{Now: fixedNow})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return l
}

func texts(l *Layout, b Block) []DrawCommand {
	var out []DrawCommand
	for _, c := range l.Commands {
		if c.Kind == Text && c.Block == b {
			out = append(out, c)
		}
	}
	return out
}

func countText(l *Layout, s string) int {
	n := 0
	for _, c := range l.Commands {
		if c.Kind == Text && c.Text == s {
			n++
		}
	}
	return n
}

func bigBodyDoc(items, bodyLen int) *model.Document {
	body := strings.Repeat(`{"lorem": "ipsum dolor sit amet", "n": 12345}\n`, bodyLen/47+1)[:bodyLen]
	doc := &model.Document{Name: "big"}
	for i := 0; i < items; i++ {
		doc.Items = append(doc.Items, model.Request{
			Name:   fmt.Sprintf("Request %d", i),
			Method: "POST",
			URL:    "https://api.example.com/v1/things",
			Headers: []model.KeyValue{
				{Key: "Content-Type", Value: "application/json"},
				{Key: "Authorization", Value: "Bearer " + strings.Repeat("t", 90)},
			},
			Body:      &model.Body{Mode: "raw", Raw: body},
			Responses: []model.Response{{Code: 201, Status: "Created", Body: body[:bodyLen/4]}},
		})
	}
	return doc
}

func TestAssembleRejectsEmptyDocument(t *testing.T) {
	for _, doc := range []*model.Document{nil, {}, {Name: "x", Items: []model.Request{}}} {
		l, err := Assemble(doc, Options{})
		if !errors.Is(err, model.ErrNoItems) {
			t.Errorf("got %v, want ErrNoItems", err)
		}
		if l != nil {
			t.Error("expected no layout")
		}
	}
}

func TestAssembleSingleMinimalItem(t *testing.T) {
	l := assemble(t, &model.Document{Items: []model.Request{{Name: "Ping", Method: "GET", URL: "https://x/ping"}}})

	if l.Pages != 1 {
		t.Fatalf("Pages = %d, want 1", l.Pages)
	}
	for _, want := range []string{"[1] Request: Ping", "GET", "URL: https://x/ping", DefaultHeading, "Generated on 3/5/2024 | Page 1 of 1"} {
		if countText(l, want) != 1 {
			t.Errorf("expected exactly one %q", want)
		}
	}
	for _, c := range l.Commands {
		switch c.Block {
		case BlockSeparator, BlockHeaders, BlockRequestBody, BlockResponse, BlockResponseBody:
			t.Errorf("unexpected %v command from block %d", c.Kind, c.Block)
		}
	}
}

func TestAssembleSeparatorsBetweenItemsOnly(t *testing.T) {
	doc := &model.Document{}
	for i := 0; i < 3; i++ {
		doc.Items = append(doc.Items, model.Request{Name: "r", Method: "GET", URL: "/"})
	}
	l := assemble(t, doc)
	n := 0
	for _, c := range l.Commands {
		if c.Block == BlockSeparator {
			n++
		}
	}
	if n != 2 {
		t.Errorf("got %d separators, want 2", n)
	}
}

func TestAssembleLargeDocument(t *testing.T) {
	const items, bodyLen = 50, 2000
	doc := bigBodyDoc(items, bodyLen)
	l := assemble(t, doc)

	if l.Pages <= 1 {
		t.Fatalf("Pages = %d, want more than 1", l.Pages)
	}

	want := Wrap(Monospace{}, doc.Items[0].RawBody(), A4().ContentWidth()-requestBodyWrap, codeFont)
	var got []string
	for _, c := range texts(l, BlockRequestBody) {
		if c.Font == codeFont {
			got = append(got, c.Text)
		}
	}
	if len(got) != items*len(want) {
		t.Fatalf("got %d body lines, want %d", len(got), items*len(want))
	}
	for i := 0; i < items; i++ {
		if !reflect.DeepEqual(got[i*len(want):(i+1)*len(want)], want) {
			t.Fatalf("body lines of item %d differ from the wrapped body", i)
		}
	}
}

func TestAssembleNothingCrossesContentLimit(t *testing.T) {
	docs := map[string]*model.Document{
		"bodies":  bigBodyDoc(30, 2500),
		"headers": manyHeadersDoc(120),
		"url":     {Items: []model.Request{{Name: "u", Method: "GET", URL: strings.Repeat("a", 5000)}}},
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			l := assemble(t, doc)
			limit := l.Geometry.MaxContentHeight
			for i, c := range l.Commands {
				if c.Block == BlockFooter {
					continue
				}
				if c.Page < 1 || c.Page > l.Pages {
					t.Fatalf("command %d on page %d of %d", i, c.Page, l.Pages)
				}
				if c.Bottom() > limit {
					t.Fatalf("command %d (%v %q) reaches y=%.2f on page %d", i, c.Kind, c.Text, c.Bottom(), c.Page)
				}
			}
		})
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	doc := bigBodyDoc(12, 1500)
	a := assemble(t, doc)
	b := assemble(t, doc)
	if !reflect.DeepEqual(a, b) {
		t.Error("two renders of the same document differ")
	}
}

func TestAssemblePageCountMonotonic(t *testing.T) {
	prev := 0
	for n := 1; n <= 30; n++ {
		l := assemble(t, bigBodyDoc(n, 600))
		if l.Pages < prev {
			t.Fatalf("%d items gave %d pages, fewer than %d for %d items", n, l.Pages, prev, n-1)
		}
		prev = l.Pages
	}
}

func TestAssembleFooters(t *testing.T) {
	l := assemble(t, bigBodyDoc(10, 2000))
	for p := 1; p <= l.Pages; p++ {
		want := FooterText("3/5/2024", p, l.Pages)
		found := 0
		for _, c := range l.PageCommands(p) {
			if c.Kind == Text && c.Block == BlockFooter {
				found++
				if c.Text != want {
					t.Errorf("page %d footer = %q, want %q", p, c.Text, want)
				}
			}
		}
		if found != 1 {
			t.Errorf("page %d has %d footers, want 1", p, found)
		}
	}
}

func manyHeadersDoc(n int) *model.Document {
	req := model.Request{Name: "headers", Method: "GET", URL: "/h"}
	for i := 0; i < n; i++ {
		req.Headers = append(req.Headers, model.KeyValue{Key: fmt.Sprintf("X-Header-%d", i), Value: "value"})
	}
	return &model.Document{Items: []model.Request{req}}
}

func TestHeadersTableDrawsColumnHeaderOnce(t *testing.T) {
	l := assemble(t, manyHeadersDoc(80))
	if l.Pages < 2 {
		t.Fatalf("Pages = %d, want the table to span pages", l.Pages)
	}
	if n := countText(l, "Headers:"); n != 1 {
		t.Errorf("caption drawn %d times, want 1", n)
	}
	if n := countText(l, "Header Name"); n != 1 {
		t.Errorf("column header drawn %d times, want 1", n)
	}
	if n := countText(l, "Value"); n != 1 {
		t.Errorf("value column header drawn %d times, want 1", n)
	}

	rowsOn := map[int]int{}
	firstRowY := map[int]float64{}
	for _, c := range texts(l, BlockHeaders) {
		if !strings.HasPrefix(c.Text, "X-Header-") {
			continue
		}
		if _, ok := firstRowY[c.Page]; !ok {
			firstRowY[c.Page] = c.Y
		}
		rowsOn[c.Page]++
	}
	fillsOn := map[int]int{}
	for _, c := range l.Commands {
		if c.Kind == FilledRect && c.Block == BlockHeaders {
			fillsOn[c.Page]++
		}
	}

	total := 0
	for p, n := range rowsOn {
		total += n
		if fillsOn[p] != 1 {
			t.Errorf("page %d has %d rows and %d table fills, want 1", p, n, fillsOn[p])
		}
		// Continuation pages start with a row, not a column header.
		if p > 1 && firstRowY[p] != A4().TopMargin {
			t.Errorf("page %d: first row at y=%.1f, want %.1f", p, firstRowY[p], A4().TopMargin)
		}
	}
	if total != 80 {
		t.Errorf("drew %d rows, want 80", total)
	}
}

func TestPanelFillCoversLinesOnEachPage(t *testing.T) {
	l := assemble(t, bigBodyDoc(8, 2500))

	for _, b := range []Block{BlockRequestBody, BlockResponseBody, BlockHeaders} {
		// Fills and lines are grouped per contiguous run of the same block.
		var fill *DrawCommand
		for i := range l.Commands {
			c := l.Commands[i]
			if c.Block != b {
				continue
			}
			if c.Kind == FilledRect {
				fill = &l.Commands[i]
				continue
			}
			if c.Kind != Text || c.Font.Size == captionFont.Size {
				continue
			}
			if fill == nil || fill.Page != c.Page {
				t.Fatalf("block %d: text %q on page %d has no fill on its page", b, c.Text, c.Page)
			}
			if c.Y <= fill.Y || c.Y > fill.Y+fill.H {
				t.Fatalf("block %d: text at y=%.1f outside fill %.1f..%.1f", b, c.Y, fill.Y, fill.Y+fill.H)
			}
		}
	}
}
