// Package payload provides an insertion-ordered JSON object for request
// bodies. Column lists and placeholders are derived from key order, which a
// plain map cannot preserve.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"crud-gateway/internal/naming"
)

// ErrNotObject is returned when a request body is not a JSON object.
var ErrNotObject = errors.New("payload must be a JSON object")

// Entry is one key/value pair of a payload.
type Entry struct {
	Key   string
	Value any
}

// Payload is a flat JSON object that remembers the order keys arrived in.
// Values are the decoded JSON leaves (string, float64, bool, nil) or, for
// nested input, the generic map/slice decoding; nested values are not
// interpreted further.
type Payload struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty payload.
func New() *Payload {
	return &Payload{index: make(map[string]int)}
}

// FromEntries builds a payload from ordered entries. Later duplicates
// overwrite earlier values but keep the first position.
func FromEntries(entries ...Entry) *Payload {
	p := New()
	for _, e := range entries {
		p.Set(e.Key, e.Value)
	}
	return p
}

// Parse decodes a JSON object, preserving key order.
func Parse(data []byte) (*Payload, error) {
	p := New()
	if err := p.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return p, nil
}

// Set assigns a value, appending the key if it is new.
func (p *Payload) Set(key string, value any) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (p *Payload) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.entries[i].Value, true
}

// Has reports whether key is present.
func (p *Payload) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Len returns the number of keys.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Keys returns the keys in insertion order.
func (p *Payload) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (p *Payload) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Map returns the payload as an unordered map.
func (p *Payload) Map() map[string]any {
	m := make(map[string]any, p.Len())
	for _, e := range p.Entries() {
		m[e.Key] = e.Value
	}
	return m
}

// ColumnCase returns a new payload with every top-level key converted to
// snake_case. Order is preserved; nested values are left untouched.
func (p *Payload) ColumnCase() *Payload {
	out := New()
	for _, e := range p.Entries() {
		out.Set(naming.ToColumnCase(e.Key), e.Value)
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payload) UnmarshalJSON(data []byte) error {
	p.entries = nil
	p.index = make(map[string]int)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode payload key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode payload: unexpected key token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode payload value for %q: %w", key, err)
		}
		p.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("decode payload: trailing data after object")
	}
	return nil
}

// MarshalJSON implements json.Marshaler, writing keys in insertion order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
