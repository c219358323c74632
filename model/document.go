// Package model defines the normalized documentation model shared by the
// importers, the layout engine, and the HTTP surface.
//
// A [Document] is built once per export and treated as read-only afterwards.
package model

import (
	"errors"
	"strings"
)

// ErrNoItems is returned by [Document.Validate] when there is nothing to render.
var ErrNoItems = errors.New("model: document has no items")

// Document is a named, ordered list of documented requests.
type Document struct {
	Name  string    `json:"name" yaml:"name"`
	Items []Request `json:"items" yaml:"items"`
}

// Validate reports whether d can be rendered.
func (d *Document) Validate() error {
	if d == nil || len(d.Items) == 0 {
		return ErrNoItems
	}
	return nil
}

// Request describes a single API call.
type Request struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Method        string            `json:"method" yaml:"method"`
	URL           string            `json:"url" yaml:"url"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty"`
	FolderPath    []string          `json:"folderPath,omitempty" yaml:"folderPath,omitempty"`
	Headers       []KeyValue        `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query         []KeyValue        `json:"query,omitempty" yaml:"query,omitempty"`
	PathVariables map[string]string `json:"pathVariables,omitempty" yaml:"pathVariables,omitempty"`
	Body          *Body             `json:"body,omitempty" yaml:"body,omitempty"`
	Responses     []Response        `json:"response,omitempty" yaml:"response,omitempty"`
}

// FirstResponse returns the first recorded response, if any.
func (r Request) FirstResponse() (Response, bool) {
	if len(r.Responses) == 0 {
		return Response{}, false
	}
	return r.Responses[0], true
}

// RawBody returns the raw request body with escaped line breaks expanded.
// It returns "" when the request has no raw body.
func (r Request) RawBody() string {
	if r.Body == nil {
		return ""
	}
	return UnescapeNewlines(r.Body.Raw)
}

// Folder returns the slash-joined folder path.
func (r Request) Folder() string {
	return strings.Join(r.FolderPath, " / ")
}

// Body is a request payload. Only Raw is rendered.
type Body struct {
	Mode       string     `json:"mode,omitempty" yaml:"mode,omitempty"`
	Raw        string     `json:"raw,omitempty" yaml:"raw,omitempty"`
	URLEncoded []KeyValue `json:"urlencoded,omitempty" yaml:"urlencoded,omitempty"`
	FormData   []KeyValue `json:"formdata,omitempty" yaml:"formdata,omitempty"`
}

// Response is a recorded example response.
type Response struct {
	Code   int    `json:"code" yaml:"code"`
	Status string `json:"status" yaml:"status"`
	Body   string `json:"body,omitempty" yaml:"body,omitempty"`
}

// UnescapeNewlines replaces the two-character sequence `\n` with a real
// line break. Collections exported by some tools store bodies that way.
func UnescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
