package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// KeyValue is a header, query parameter, or form field.
//
// On the wire Value may be a string, number, boolean, or null. It is always
// held as a string here.
type KeyValue struct {
	Key         string `json:"key" yaml:"key"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// UnmarshalJSON implements [json.Unmarshaler].
func (kv *KeyValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key         string          `json:"key"`
		Value       json.RawMessage `json:"value"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ScalarString(raw.Value)
	if err != nil {
		return fmt.Errorf("model: value of %q: %w", raw.Key, err)
	}
	kv.Key = raw.Key
	kv.Value = v
	kv.Description = raw.Description
	return nil
}

// ScalarString decodes a JSON scalar into its string form. Null and absent
// values become "". Objects and arrays are kept as their compact JSON text.
func ScalarString(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
