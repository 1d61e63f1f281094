package result

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Of converts plain Go values into a Value tree. Maps are converted with
// their keys sorted since Go maps carry no order.
func Of(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			m.Set(k, Of(t[k]))
		}
		return m
	case map[string]string:
		converted := make(map[string]any, len(t))
		for k, s := range t {
			converted[k] = s
		}
		return Of(converted)
	case []any:
		seq := make(Sequence, 0, len(t))
		for _, e := range t {
			seq = append(seq, Of(e))
		}
		return seq
	case []string:
		seq := make(Sequence, 0, len(t))
		for _, e := range t {
			seq = append(seq, String(e))
		}
		return seq
	case int:
		return Scalar{V: json.Number(fmt.Sprint(t))}
	case int64:
		return Scalar{V: json.Number(fmt.Sprint(t))}
	default:
		return Scalar{V: t}
	}
}

// Equal reports whether a and b hold the same tree. Mapping key order is
// significant.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.vals[k], y.vals[k]) {
				return false
			}
		}
		return true
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Scalar:
		y, ok := b.(Scalar)
		return ok && scalarText(x) == scalarText(y)
	case nil:
		return b == nil
	}
	return false
}

// scalarText normalises a scalar for comparison so that json.Number("1") and
// float64(1) compare equal.
func scalarText(s Scalar) string {
	switch v := s.V.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + v
	case json.Number:
		return "n:" + normaliseNumber(v.String())
	case float64:
		return "n:" + normaliseNumber(fmt.Sprint(v))
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

func normaliseNumber(s string) string {
	var f float64
	if _, err := fmt.Sscan(s, &f); err != nil {
		return s
	}
	return fmt.Sprint(f)
}
