package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FilenameKey is the field every BatchResult record carries first.
const FilenameKey = "filename"

// Record is one extraction record: a JSON object whose key order is preserved.
// Values are kept as raw JSON so nested objects keep their original layout.
// The model is asked for "supplier name", "contact details", "product listings"
// and "pricing", but any keys it returns are kept as-is.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{values: make(map[string]json.RawMessage)}
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Raw returns the raw JSON value stored under key.
func (r Record) Raw(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Filename returns the source filename tag, or "" when absent or not a string.
func (r Record) Filename() string {
	raw, ok := r.values[FilenameKey]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// SetRaw stores a raw JSON value. An existing key keeps its position.
func (r *Record) SetRaw(key string, raw json.RawMessage) {
	if r.values == nil {
		r.values = make(map[string]json.RawMessage)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = raw
}

// Set marshals v and stores it under key.
func (r *Record) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling field %q: %w", key, err)
	}
	r.SetRaw(key, raw)
	return nil
}

// WithFilename returns a new record with the filename key first, followed by the
// remaining fields of r in order. A "filename" field in r is replaced by name.
func (r Record) WithFilename(name string) Record {
	out := NewRecord()
	nameRaw, _ := json.Marshal(name)
	out.SetRaw(FilenameKey, nameRaw)
	for _, k := range r.keys {
		if k == FilenameKey {
			continue
		}
		out.SetRaw(k, r.values[k])
	}
	return out
}

// MarshalJSON emits the fields in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v := r.values[k]
		if len(v) == 0 {
			v = json.RawMessage("null")
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order. Duplicate keys keep the
// first position and the last value. Anything other than an object is rejected with
// ErrInvalidRecord.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrInvalidRecord
	}

	out := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding field %q: %w", key, err)
		}
		out.SetRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON object")
	}
	*r = out
	return nil
}
