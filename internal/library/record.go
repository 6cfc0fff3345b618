package library

import "strings"

// Record is an ordered field-name to Value mapping. Keys keep the order in
// which they were first set.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record with room for n fields.
func NewRecord(n int) Record {
	return Record{keys: make([]string, 0, n), values: make(map[string]Value, n)}
}

// Set stores v under key. Setting an existing key replaces its value in place.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Text returns the trimmed text rendering of key, or "" when absent.
func (r Record) Text(key string) string {
	v, ok := r.values[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// Int returns the integer stored under key.
func (r Record) Int(key string) (int64, bool) {
	v, ok := r.values[key]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int { return len(r.keys) }
