package results

import (
	"bytes"
	"encoding/json"
)

// collectionFields are object keys the model wraps its array in, checked
// in priority order before falling back to any array-valued field.
var collectionFields = []string{"userStories", "requirements"}

// recordFields mark a bare object as a single record rather than an
// envelope we failed to understand.
var recordFields = []string{
	"userStory",
	"requirement",
	"epicName",
	"requirementNumber",
	"supportingQuote",
}

// Decode turns a model response payload into a Collection. The payload
// shape drifts between prompts and model versions, so detection walks an
// ordered fallback chain: a bare array, then well-known wrapper fields,
// then the first array-valued field in the object's own key order, then a
// single object that itself looks like a record. Shape trouble never
// errors; the terminal fallback is an empty collection, meaning no
// results.
func Decode(data []byte) Collection {
	b := bytes.TrimSpace(data)
	if len(b) == 0 {
		return nil
	}
	if b[0] == '[' {
		return decodeArray(b)
	}
	if b[0] != '{' {
		return nil
	}

	values, keys := objectFields(b)
	if values == nil {
		return nil
	}
	for _, name := range collectionFields {
		if raw, ok := values[name]; ok && isArray(raw) {
			return decodeArray(raw)
		}
	}
	for _, key := range keys {
		if isArray(values[key]) {
			return decodeArray(values[key])
		}
	}
	for _, name := range recordFields {
		if _, ok := values[name]; !ok {
			continue
		}
		rec := &Record{}
		if err := rec.UnmarshalJSON(b); err == nil && rec.Len() > 0 {
			return Collection{rec}
		}
		break
	}
	return nil
}

// decodeArray builds a collection from a JSON array, keeping element
// order. Elements that are not objects carry no fields and are skipped.
func decodeArray(raw []byte) Collection {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var c Collection
	for _, item := range items {
		it := bytes.TrimSpace(item)
		if len(it) == 0 || it[0] != '{' {
			continue
		}
		rec := &Record{}
		if err := rec.UnmarshalJSON(it); err != nil || rec.Len() == 0 {
			continue
		}
		c = append(c, rec)
	}
	return c
}

// objectFields reads a JSON object's members, reporting keys in document
// order alongside their raw values. Returns nils if the payload is not a
// well-formed object.
func objectFields(raw []byte) (map[string]json.RawMessage, []string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}
	values := make(map[string]json.RawMessage)
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, nil
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = val
	}
	return values, keys
}

func isArray(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '['
}
