package htmlview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

func render(t *testing.T, doc *model.Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, Options{}))
	return buf.String()
}

func TestRender(t *testing.T) {
	doc := &model.Document{
		Name: "Pets",
		Items: []model.Request{
			{
				Name:        "List <pets>",
				Method:      "get",
				URL:         "https://api.example.com/pets?limit=10",
				FolderPath:  []string{"Pets", "Read"},
				Description: "Returns **all** pets.\n\n<script>alert(1)</script>",
				Headers:     []model.KeyValue{{Key: "Accept", Value: "application/json"}},
				Query:       []model.KeyValue{{Key: "limit", Value: "10"}},
				Responses:   []model.Response{{Code: 404, Status: "Not Found", Body: `{"error":\n"missing"}`}},
			},
			{Method: "DELETE", URL: "https://api.example.com/pets/1", Body: &model.Body{Mode: "raw", Raw: `{"a":1}`}},
		},
	}
	out := render(t, doc)

	assert.Contains(t, out, "<title>Pets</title>")
	assert.Contains(t, out, "[1] Request: List &lt;pets&gt;")
	assert.Contains(t, out, "[2] Request: Unnamed Request")
	assert.Contains(t, out, "Pets / Read")
	assert.Contains(t, out, "<strong>all</strong>")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, ">GET<")
	assert.Contains(t, out, "background: #27ae60")
	assert.Contains(t, out, "background: #e74c3c")
	assert.Contains(t, out, "Query Parameters:")
	assert.Contains(t, out, "Status: Not Found")
	assert.Contains(t, out, "{&#34;error&#34;:\n&#34;missing&#34;}")
	assert.Equal(t, 1, strings.Count(out, "Headers:"))
	assert.Equal(t, 1, strings.Count(out, "Request Body:"))
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, &model.Document{Name: "empty"}, Options{})
	assert.True(t, errors.Is(err, model.ErrNoItems))
	assert.Zero(t, buf.Len())
}

func TestRenderHeading(t *testing.T) {
	var buf bytes.Buffer
	doc := &model.Document{Items: []model.Request{{Name: "a"}}}
	require.NoError(t, Render(&buf, doc, Options{Heading: "Internal API"}))
	assert.Contains(t, buf.String(), `<header class="banner">Internal API</header>`)
}
