package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestKeyValueUnmarshalScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `{"key":"a","value":"x"}`, "x"},
		{"integer", `{"key":"a","value":42}`, "42"},
		{"float", `{"key":"a","value":1.5}`, "1.5"},
		{"true", `{"key":"a","value":true}`, "true"},
		{"false", `{"key":"a","value":false}`, "false"},
		{"null", `{"key":"a","value":null}`, ""},
		{"missing", `{"key":"a"}`, ""},
		{"object", `{"key":"a","value":{ "b" : 1 }}`, `{"b":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var kv KeyValue
			if err := json.Unmarshal([]byte(tt.in), &kv); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kv.Key != "a" {
				t.Errorf("Key = %q, want %q", kv.Key, "a")
			}
			if kv.Value != tt.want {
				t.Errorf("Value = %q, want %q", kv.Value, tt.want)
			}
		})
	}
}

func TestDocumentValidate(t *testing.T) {
	var nilDoc *Document
	if err := nilDoc.Validate(); !errors.Is(err, ErrNoItems) {
		t.Errorf("nil document: got %v, want ErrNoItems", err)
	}
	if err := (&Document{}).Validate(); !errors.Is(err, ErrNoItems) {
		t.Errorf("empty document: got %v, want ErrNoItems", err)
	}
	doc := &Document{Items: []Request{{Name: "Ping"}}}
	if err := doc.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDocumentWireFormat(t *testing.T) {
	const in = `{"name":"c","items":[{"id":"1","name":"Ping","method":"GET","url":"https://x/ping",
		"headers":[{"key":"Accept","value":"*/*"}],
		"body":{"mode":"raw","raw":"{\\n\"a\":1\\n}"},
		"response":[{"code":200,"status":"OK","body":"pong"}]}]}`
	var doc Document
	if err := json.Unmarshal([]byte(in), &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(doc.Items))
	}
	req := doc.Items[0]
	resp, ok := req.FirstResponse()
	if !ok || resp.Code != 200 || resp.Body != "pong" {
		t.Errorf("FirstResponse() = %+v, %v", resp, ok)
	}
	if got, want := req.RawBody(), "{\n\"a\":1\n}"; got != want {
		t.Errorf("RawBody() = %q, want %q", got, want)
	}
}

func TestRequestWithoutBody(t *testing.T) {
	var r Request
	if r.RawBody() != "" {
		t.Error("expected empty raw body")
	}
	if _, ok := r.FirstResponse(); ok {
		t.Error("expected no response")
	}
}
