package postman

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-apidoc-pdf/internal/httpclient"
)

func parse(t *testing.T, s string) *Collection {
	t.Helper()
	c, err := Parse([]byte(s))
	require.NoError(t, err)
	return c
}

func TestFromCollectionMinimal(t *testing.T) {
	c := parse(t, `{"item":[{"name":"Ping","request":{"method":"GET","url":{"raw":"https://x/ping"}}}]}`)
	doc := FromCollection(c)

	assert.Equal(t, DefaultCollectionName, doc.Name)
	require.Len(t, doc.Items, 1)
	r := doc.Items[0]
	assert.Equal(t, "Ping", r.Name)
	assert.Equal(t, "GET", r.Method)
	assert.Equal(t, "https://x/ping", r.URL)
	assert.Empty(t, r.Headers)
	assert.Nil(t, r.Body)
	assert.Equal(t, []string{DefaultFolder}, r.FolderPath)
	assert.Equal(t, DefaultDescription, r.Description)
	assert.NotEmpty(t, r.ID)
}

func TestFromCollectionDefaults(t *testing.T) {
	c := parse(t, `{"info":{"name":"  "},"item":[{"request":{}}]}`)
	doc := FromCollection(c)

	assert.Equal(t, DefaultCollectionName, doc.Name)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, DefaultRequestName, doc.Items[0].Name)
	assert.Equal(t, DefaultMethod, doc.Items[0].Method)
	assert.Equal(t, DefaultURL, doc.Items[0].URL)

	assert.Empty(t, FromCollection(nil).Items)
}

func TestFromCollectionFull(t *testing.T) {
	c := parse(t, `{
	  "info": {"name": "Pets", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
	  "item": [
	    {"name": "Admin", "item": [
	      {"name": "Users", "item": [
	        {"id": "req-1", "name": "Delete user", "request": {
	          "method": "delete",
	          "url": {"protocol": "https", "host": ["api", "example", "com"], "path": ["users", {"value": ":id"}],
	                  "variable": [{"key": "id", "value": 7}]},
	          "header": [
	            {"key": "Authorization", "value": "Bearer x"},
	            {"key": "X-Debug", "value": true, "disabled": true}
	          ],
	          "description": {"content": "Removes a **user**.", "type": "text/markdown"}
	        },
	        "response": [{"name": "gone", "code": 204, "status": "No Content", "body": ""}]}
	      ]}
	    ]},
	    {"name": "Create pet", "request": {
	      "method": "POST",
	      "url": "https://api.example.com/pets?dry=1",
	      "body": {"mode": "raw", "raw": "{\\n  \"name\": \"rex\"\\n}"}
	    }},
	    {"name": "Search", "request": {
	      "url": {"raw": "https://api.example.com/search?q=a", "query": [
	        {"key": "q", "value": "a"},
	        {"key": "limit", "value": null},
	        {"key": "off", "value": "1", "disabled": true}
	      ]},
	      "body": {"mode": "urlencoded", "urlencoded": [{"key": "n", "value": 1.5}]}
	    }}
	  ]
	}`)
	doc := FromCollection(c)
	assert.Equal(t, "Pets", doc.Name)
	require.Len(t, doc.Items, 3)

	del := doc.Items[0]
	assert.Equal(t, "req-1", del.ID)
	assert.Equal(t, "DELETE", del.Method)
	assert.Equal(t, "https://api.example.com/users/:id", del.URL)
	assert.Equal(t, []string{"Admin", "Users"}, del.FolderPath)
	assert.Equal(t, "Removes a **user**.", del.Description)
	assert.Equal(t, map[string]string{"id": "7"}, del.PathVariables)
	require.Len(t, del.Headers, 1)
	assert.Equal(t, "Authorization", del.Headers[0].Key)
	require.Len(t, del.Responses, 1)
	assert.Equal(t, 204, del.Responses[0].Code)

	create := doc.Items[1]
	assert.Equal(t, []string{DefaultFolder}, create.FolderPath)
	require.NotNil(t, create.Body)
	assert.Equal(t, "{\n  \"name\": \"rex\"\n}", create.RawBody())

	search := doc.Items[2]
	assert.Equal(t, "GET", search.Method)
	require.Len(t, search.Query, 2)
	assert.Equal(t, "", search.Query[1].Value)
	assert.Equal(t, "1.5", search.Body.URLEncoded[0].Value)
}

func TestParseEnvelopeAndErrors(t *testing.T) {
	c := parse(t, `{"collection":{"info":{"name":"Remote"},"item":[]}}`)
	assert.Equal(t, "Remote", c.Info.Name)

	_, err := Parse([]byte(`{"item": [`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = Parse([]byte(`{"item": [{"request": {"url": 42}}]}`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestURLString(t *testing.T) {
	tests := []struct {
		url  URL
		want string
	}{
		{URL{Raw: "https://x/ping"}, "https://x/ping"},
		{URL{Host: []string{"{{base}}"}, Path: []string{"v1", "items"}}, "{{base}}/v1/items"},
		{URL{Protocol: "http", Host: []string{"localhost"}, Query: []Param{{Key: "a", Value: "1"}, {Key: "b", Disabled: true}}}, "http://localhost?a=1"},
		{URL{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.url.String())
	}
}

func newTestFetcher(url string) *Fetcher {
	return NewFetcher("secret",
		WithBaseURL(url),
		WithHTTPConfig(httpclient.Config{RetryMax: 2, WaitMin: time.Millisecond, WaitMax: 2 * time.Millisecond}),
	)
}

func TestFetch(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/123-abc", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"collection":{"info":{"name":"Remote"},"item":[{"name":"Ping","request":{"url":"https://x/ping"}}]}}`))
	}))
	defer server.Close()

	c, err := newTestFetcher(server.URL).Fetch(context.Background(), "123-abc")
	require.NoError(t, err)
	doc := FromCollection(c)
	assert.Equal(t, "Remote", doc.Name)
	require.Len(t, doc.Items, 1)
}

func TestFetchErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		_, err := NewFetcher("").Fetch(context.Background(), "x")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("missing uid", func(t *testing.T) {
		_, err := NewFetcher("k").Fetch(context.Background(), " ")
		assert.ErrorIs(t, err, ErrMissingUID)
	})

	t.Run("upstream status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"notFound"}`, http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestFetcher(server.URL).Fetch(context.Background(), "nope")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "Postman API 404")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer server.Close()

		_, err := newTestFetcher(server.URL).Fetch(context.Background(), "x")
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})
}
