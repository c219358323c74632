// Package postman reads Postman v2.x collections and converts them into the
// documentation model.
package postman

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

// ErrInvalidJSON is returned when a payload is not a collection document.
var ErrInvalidJSON = errors.New("postman: invalid collection JSON")

// Collection is the root of a collection export.
type Collection struct {
	Info Info   `json:"info"`
	Item []Node `json:"item"`
}

// Info carries collection metadata.
type Info struct {
	ID          string `json:"_postman_id,omitempty"`
	Name        string `json:"name"`
	Schema      string `json:"schema,omitempty"`
	Description Text   `json:"description,omitempty"`
}

// Node is either a folder (Item is set) or a request (Request is set).
type Node struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description Text       `json:"description,omitempty"`
	Item        []Node     `json:"item,omitempty"`
	Request     *Request   `json:"request,omitempty"`
	Response    []Response `json:"response,omitempty"`
}

// IsFolder reports whether n groups other nodes.
func (n Node) IsFolder() bool {
	return n.Request == nil && n.Item != nil
}

// Request is a saved request.
type Request struct {
	Method      string  `json:"method"`
	URL         URL     `json:"url"`
	Header      []Param `json:"header,omitempty"`
	Body        *Body   `json:"body,omitempty"`
	Description Text    `json:"description,omitempty"`
}

// Body is a request body in one of the Postman modes.
type Body struct {
	Mode       string  `json:"mode"`
	Raw        string  `json:"raw,omitempty"`
	URLEncoded []Param `json:"urlencoded,omitempty"`
	FormData   []Param `json:"formdata,omitempty"`
}

// Response is an example response saved with a request.
type Response struct {
	Name   string `json:"name,omitempty"`
	Code   int    `json:"code"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

// Param is a header, query parameter, path variable or form field.
type Param struct {
	Key         string
	Value       string
	Description string
	Disabled    bool
}

// UnmarshalJSON accepts any JSON scalar as the value.
func (p *Param) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key         string          `json:"key"`
		Value       json.RawMessage `json:"value"`
		Description Text            `json:"description"`
		Disabled    bool            `json:"disabled"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := model.ScalarString(raw.Value)
	if err != nil {
		return fmt.Errorf("value of %q: %w", raw.Key, err)
	}
	*p = Param{Key: raw.Key, Value: v, Description: string(raw.Description), Disabled: raw.Disabled}
	return nil
}

// Text is a description, written either as a plain string or as
// {"content": "...", "type": "text/markdown"}.
type Text string

// UnmarshalJSON implements [json.Unmarshaler].
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var d struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*t = Text(d.Content)
		return nil
	}
	s, err := model.ScalarString(data)
	*t = Text(s)
	return err
}

// URL is a request URL, written either as a string or as an object.
type URL struct {
	Raw      string
	Protocol string
	Host     []string
	Path     []string
	Query    []Param
	Variable []Param
}

// UnmarshalJSON implements [json.Unmarshaler].
func (u *URL) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = URL{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = URL{Raw: s}
		return nil
	}

	var raw struct {
		Raw      string            `json:"raw"`
		Protocol string            `json:"protocol"`
		Host     json.RawMessage   `json:"host"`
		Path     []json.RawMessage `json:"path"`
		Query    []Param           `json:"query"`
		Variable []Param           `json:"variable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = URL{Raw: raw.Raw, Protocol: raw.Protocol, Query: raw.Query, Variable: raw.Variable}

	// host is a string or a list of labels.
	if len(raw.Host) > 0 {
		if raw.Host[0] == '"' {
			var h string
			if err := json.Unmarshal(raw.Host, &h); err != nil {
				return err
			}
			u.Host = []string{h}
		} else if err := json.Unmarshal(raw.Host, &u.Host); err != nil {
			return err
		}
	}
	// path segments are strings or {"value": ...} objects.
	for _, seg := range raw.Path {
		var s string
		if err := json.Unmarshal(seg, &s); err == nil {
			u.Path = append(u.Path, s)
			continue
		}
		var obj struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(seg, &obj); err != nil {
			return err
		}
		u.Path = append(u.Path, obj.Value)
	}
	return nil
}

// String returns the raw URL, or one rebuilt from its parts.
func (u URL) String() string {
	if u.Raw != "" || len(u.Host) == 0 {
		return u.Raw
	}
	var sb strings.Builder
	if u.Protocol != "" {
		sb.WriteString(u.Protocol + "://")
	}
	sb.WriteString(strings.Join(u.Host, "."))
	if len(u.Path) > 0 {
		sb.WriteString("/" + strings.Join(u.Path, "/"))
	}
	var q []string
	for _, p := range u.Query {
		if !p.Disabled {
			q = append(q, p.Key+"="+p.Value)
		}
	}
	if len(q) > 0 {
		sb.WriteString("?" + strings.Join(q, "&"))
	}
	return sb.String()
}

// Parse decodes a collection. It also accepts the {"collection": {...}}
// envelope returned by the Postman API.
func Parse(data []byte) (*Collection, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if inner, ok := probe["collection"]; ok {
		if _, hasItems := probe["item"]; !hasItems {
			data = inner
		}
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return &c, nil
}

// Read decodes a collection from r.
func Read(r io.Reader) (*Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("postman: %w", err)
	}
	return Parse(data)
}
