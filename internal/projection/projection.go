// Package projection prunes DAO master results down to operator-selected
// fields.
//
// Operators pass a comma-separated list of dotted field paths with --filter.
// Paths are matched by exact string equality against the dot-joined key path
// of every node in the result:
//
//	--filter asset.serial,pxe_ip
//
// A path that names an intermediate mapping keeps that whole subtree. A path
// ending in a separator ("interfaces.") names every element of the list at
// "interfaces". Without that marker, list elements are walked one by one with
// the marker as their parent path, so a key inside a list element is selected
// with a doubled separator ("interfaces..mac"). When both apply, the whole-list
// selection wins.
package projection

import (
	"strings"

	"github.com/concave-dev/dao/internal/result"
)

// Separator joins path segments.
const Separator = "."

// ParseFields splits a --filter value into field paths. Blank entries are
// dropped; an empty string yields no fields.
func ParseFields(filter string) []string {
	var fields []string
	for _, f := range strings.Split(filter, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Project returns the minimal substructure of v that contains every
// requested path, preserving the nested shape and key/element order. The
// boolean reports whether v or any of its descendants matched. An empty field
// list selects everything and returns v untouched.
func Project(fields []string, v result.Value) (bool, result.Value) {
	if len(fields) == 0 {
		return true, v
	}
	return project(fieldSet(fields), v, "")
}

// Apply is the top-level projection used before rendering. Results are
// usually collections keyed by object name (servers, racks, assets), so
// every entry of a mapping result, or every element of a sequence result, is
// projected on its own with paths relative to that entry. Entries with no
// match are dropped. Scalars and empty field lists pass through unchanged.
func Apply(fields []string, v result.Value) result.Value {
	if len(fields) == 0 {
		return v
	}
	set := fieldSet(fields)

	switch t := v.(type) {
	case *result.Mapping:
		out := result.NewMapping()
		for _, k := range t.Keys() {
			entry, _ := t.Get(k)
			if matched, pruned := project(set, entry, ""); matched {
				out.Set(k, pruned)
			}
		}
		return out
	case result.Sequence:
		out := result.Sequence{}
		for _, entry := range t {
			if matched, pruned := project(set, entry, ""); matched {
				out = append(out, pruned)
			}
		}
		return out
	}
	return v
}

func fieldSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func project(fields map[string]struct{}, v result.Value, parent string) (bool, result.Value) {
	switch t := v.(type) {
	case *result.Mapping:
		affected := false
		out := result.NewMapping()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)

			path := k
			if parent != "" {
				path = parent + Separator + k
			}

			if _, ok := fields[path]; ok {
				out.Set(k, child)
				affected = true
				continue
			}
			if matched, pruned := project(fields, child, path); matched {
				out.Set(k, pruned)
				affected = true
			}
		}
		return affected, out

	case result.Sequence:
		marker := parent + Separator
		if _, ok := fields[marker]; ok {
			// Whole-list selection; an empty list has nothing to report.
			kept := make(result.Sequence, len(t))
			copy(kept, t)
			return len(kept) > 0, kept
		}

		out := result.Sequence{}
		for _, elem := range t {
			if matched, pruned := project(fields, elem, marker); matched {
				out = append(out, pruned)
			}
		}
		return len(out) > 0, out
	}

	// Scalars only survive through a matching parent path.
	return false, v
}
