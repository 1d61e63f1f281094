package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Decode parses a JSON document into a Value, preserving object key order.
// Duplicate keys keep the position of their first occurrence and the value of
// their last. Trailing data after the document is an error.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return Scalar{V: tok}, nil
	}

	switch delim {
	case '{':
		m := NewMapping()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to decode JSON object key: %w", err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to decode JSON object: %w", err)
		}
		return m, nil
	case '[':
		seq := Sequence{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to decode JSON array: %w", err)
		}
		return seq, nil
	}
	return nil, fmt.Errorf("unexpected JSON delimiter %q", delim)
}

// MarshalJSON writes the mapping with its keys in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalValue(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the sequence; an empty or nil sequence is [].
func (s Sequence) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := marshalValue(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON writes the wrapped leaf.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

func marshalValue(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Node converts v into a yaml.v3 node tree so it can be rendered as block
// YAML without losing key order.
func Node(v Value) *yaml.Node {
	switch t := v.(type) {
	case *Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.Keys() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				Node(t.vals[k]))
		}
		return n
	case Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			n.Content = append(n.Content, Node(e))
		}
		return n
	case Scalar:
		return scalarNode(t)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func scalarNode(s Scalar) *yaml.Node {
	switch v := s.V.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.String()}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v.String()}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
	}
}
