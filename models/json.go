package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an identifier the remote API may send as a JSON number or string.
// It is written back in the form it was received in.
type ID struct {
	text   string
	quoted bool
}

// NewID builds an id from text. Canonical integers are sent as JSON
// numbers, anything else (including "007") as a string.
func NewID(s string) ID {
	return ID{text: s, quoted: !isInteger(s)}
}

// StringID builds an id that is always sent as a JSON string.
func StringID(s string) ID {
	return ID{text: s, quoted: true}
}

func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := scalarText(b)
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	b = bytes.TrimSpace(b)
	*id = ID{text: s, quoted: len(b) > 0 && b[0] == '"'}
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.text == "" {
		return []byte("null"), nil
	}
	if !id.quoted && json.Valid([]byte(id.text)) {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

func (id ID) String() string { return id.text }

// Quoted reports whether the id travels as a JSON string.
func (id ID) Quoted() bool { return id.quoted }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id.text == "" }

// FlexString is a free-text value the remote API may send as a number.
// It is always written back as a JSON string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s, err := scalarText(b)
	if err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*f = FlexString(s)
	return nil
}

func (f FlexString) String() string { return string(f) }

func scalarText(b []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported json value %s", string(b))
	}
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

func isIntegerText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isInteger reports whether s is an integer literal JSON would round-trip:
// no sign, no leading zeros, and small enough for an int64.
func isInteger(s string) bool {
	if s == "" || len(s) > 18 || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// RawRecord keeps a JSON object's fields in document order.
type RawRecord struct {
	keys   []string
	values map[string]json.RawMessage
}

func (r *RawRecord) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected json object")
	}
	r.keys = r.keys[:0]
	r.values = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		if _, seen := r.values[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(r.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the field names in the order they were received.
func (r RawRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r RawRecord) Len() int { return len(r.keys) }

func (r RawRecord) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Text renders a field as display text; null and missing fields are "".
func (r RawRecord) Text(key string) string {
	raw, ok := r.values[key]
	if !ok {
		return ""
	}
	s, err := scalarText(raw)
	if err != nil {
		return string(raw)
	}
	return s
}

// Scalar returns the field as a Go scalar: int64, float64, bool, string or
// nil. Integers a spreadsheet cannot hold exactly come back as their digits.
// Nested objects and arrays come back as their JSON text.
func (r RawRecord) Scalar(key string) any {
	raw, ok := r.values[key]
	if !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			if n > maxExactInt || n < -maxExactInt {
				return t.String()
			}
			return n
		}
		if isIntegerText(t.String()) {
			return t.String()
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case string, bool, nil:
		return t
	default:
		return strings.TrimSpace(string(raw))
	}
}

// Overlay encodes typed over the received fields: keys present in typed
// replace the received values, unknown received fields are kept.
func (r RawRecord) Overlay(typed any) ([]byte, error) {
	b, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var top RawRecord
	if err := top.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	merged := RawRecord{values: make(map[string]json.RawMessage, len(r.keys)+len(top.keys))}
	for _, key := range r.keys {
		merged.keys = append(merged.keys, key)
		merged.values[key] = r.values[key]
	}
	for _, key := range top.keys {
		if _, ok := merged.values[key]; !ok {
			merged.keys = append(merged.keys, key)
		}
		merged.values[key] = top.values[key]
	}
	return merged.MarshalJSON()
}
