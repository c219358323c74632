package postman

import (
	"strings"

	"github.com/google/uuid"

	"github.com/porticus-lab/go-apidoc-pdf/model"
)

// Placeholders for fields a collection leaves out.
const (
	DefaultCollectionName = "Postman Collection"
	DefaultRequestName    = "Untitled"
	DefaultFolderName     = "Folder"
	DefaultMethod         = "GET"
	DefaultURL            = "No URL"
	DefaultDescription    = "No description available"
	DefaultFolder         = "General"
)

var newID = uuid.NewString

// FromCollection flattens c into a document. Requests keep collection
// order (depth first) and record the folders they were found in; requests
// at the top level are filed under [DefaultFolder]. Disabled parameters are
// dropped.
func FromCollection(c *Collection) *model.Document {
	doc := &model.Document{Name: DefaultCollectionName, Items: []model.Request{}}
	if c == nil {
		return doc
	}
	if name := strings.TrimSpace(c.Info.Name); name != "" {
		doc.Name = name
	}
	walk(c.Item, nil, &doc.Items)
	return doc
}

func walk(nodes []Node, trail []string, out *[]model.Request) {
	for _, n := range nodes {
		if n.IsFolder() {
			name := n.Name
			if name == "" {
				name = DefaultFolderName
			}
			walk(n.Item, append(trail[:len(trail):len(trail)], name), out)
			continue
		}
		if n.Request == nil {
			continue
		}
		*out = append(*out, convert(n, trail))
	}
}

func convert(n Node, trail []string) model.Request {
	r := n.Request
	req := model.Request{
		ID:          n.ID,
		Name:        n.Name,
		Method:      strings.ToUpper(strings.TrimSpace(r.Method)),
		URL:         r.URL.String(),
		Description: string(n.Description),
		FolderPath:  trail,
		Headers:     params(r.Header),
		Query:       params(r.URL.Query),
	}
	if req.ID == "" {
		req.ID = newID()
	}
	if req.Name == "" {
		req.Name = DefaultRequestName
	}
	if req.Method == "" {
		req.Method = DefaultMethod
	}
	if req.URL == "" {
		req.URL = DefaultURL
	}
	if req.Description == "" {
		req.Description = string(r.Description)
	}
	if req.Description == "" {
		req.Description = DefaultDescription
	}
	if len(req.FolderPath) == 0 {
		req.FolderPath = []string{DefaultFolder}
	}

	for _, v := range r.URL.Variable {
		if v.Disabled {
			continue
		}
		if req.PathVariables == nil {
			req.PathVariables = map[string]string{}
		}
		req.PathVariables[v.Key] = v.Value
	}
	if b := r.Body; b != nil {
		req.Body = &model.Body{
			Mode:       b.Mode,
			Raw:        b.Raw,
			URLEncoded: params(b.URLEncoded),
			FormData:   params(b.FormData),
		}
	}
	for _, resp := range n.Response {
		req.Responses = append(req.Responses, model.Response{
			Code:   resp.Code,
			Status: resp.Status,
			Body:   resp.Body,
		})
	}
	return req
}

func params(in []Param) []model.KeyValue {
	var out []model.KeyValue
	for _, p := range in {
		if p.Disabled {
			continue
		}
		out = append(out, model.KeyValue{Key: p.Key, Value: p.Value, Description: p.Description})
	}
	return out
}
