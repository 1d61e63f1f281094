// Package result models the structured values returned by the DAO master.
//
// The master answers every task with an arbitrarily nested JSON document. The
// CLI treats that document as opaque data except where a handler or the
// projection engine needs to walk it, so it is decoded into a closed variant
// instead of map[string]any:
//
//   - Mapping:  an object whose keys keep the order the master sent them in
//   - Sequence: an ordered list of values
//   - Scalar:   a string, number, bool or null leaf
//
// Keeping key order matters for output: operators compare `dao server-list`
// runs side by side, and a renderer that shuffled keys on every run would make
// that needlessly hard. Numbers are kept as json.Number so large integer IDs
// survive a decode/encode round trip unchanged.
package result

// Value is one node of a decoded result document. The set of implementations
// is closed: *Mapping, Sequence and Scalar.
type Value interface {
	isValue()
}

// Mapping is an insertion-ordered JSON object.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// Sequence is an ordered JSON array.
type Sequence []Value

// Scalar wraps a JSON leaf. V holds nil, string, bool, json.Number or
// float64.
type Scalar struct {
	V any
}

func (*Mapping) isValue() {}
func (Sequence) isValue() {}
func (Scalar) isValue()   {}

// NewMapping returns an empty mapping ready for Set.
func NewMapping() *Mapping {
	return &Mapping{vals: make(map[string]Value)}
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position and has its value replaced.
func (m *Mapping) Set(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Delete removes key and returns the value it held.
func (m *Mapping) Delete(key string) (Value, bool) {
	v, ok := m.vals[key]
	if !ok {
		return nil, false
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// String returns a Scalar holding s.
func String(s string) Scalar {
	return Scalar{V: s}
}

// Null is the JSON null leaf.
var Null = Scalar{}

// IsNull reports whether v is a null scalar (or a nil Value).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(Scalar)
	return ok && s.V == nil
}
