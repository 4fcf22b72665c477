// Package results models what comes back from the model: ordered
// collections of loosely-shaped records, and their projection onto a
// spreadsheet-ready table.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one extracted item: an open mapping from field name to value.
// Field sets vary between records in the same response (the model may add
// a supporting quote or extra acceptance criteria per item), so a record
// keeps its fields in decode order instead of forcing a schema.
type Record struct {
	fields []string
	values map[string]string
}

// Set stores a field value, registering the name on first use. The order
// of first Set calls is the record's field order.
func (r *Record) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
}

// Get returns the value for a field and whether the record carries it.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the record's field names in first-set order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// UnmarshalJSON decodes a JSON object into the record, preserving the
// object's own key order. Values are flattened to strings: scalars keep
// their literal text, null becomes empty, arrays join with ", " and nested
// objects stay as compact JSON. The table layer only ever renders strings.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: non-string key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		r.Set(key, flatten(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object in field order, so a
// round trip through the browser keeps columns stable.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// flatten turns a raw JSON value into the string the table will show.
func flatten(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return ""
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return string(b)
		}
		return s
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return string(b)
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, ", ")
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return string(b)
		}
		return buf.String()
	case 'n': // null
		return ""
	default:
		// numbers and booleans keep their literal text
		return string(b)
	}
}
