package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Kind is the arity and type of an argument.
type Kind int

const (
	// String is a single-valued string argument.
	String Kind = iota
	// Bool is a presence flag (--create).
	Bool
	// StringArray is a repeatable flag; each occurrence appends one value.
	StringArray
)

// ArgSpec declares one positional argument or flag.
type ArgSpec struct {
	// Name is a positional identifier ("rack") or a flag ("--set-status").
	Name string

	Kind     Kind
	Required bool

	// Default is a string, bool or []string matching Kind. Nil means the
	// zero value.
	Default any

	// Choices restricts the accepted values. The default value is always
	// accepted so an unset restricted flag passes.
	Choices []string

	Help string
}

// IsFlag reports whether the spec declares a flag rather than a positional.
func (a ArgSpec) IsFlag() bool {
	return strings.HasPrefix(a.Name, "-")
}

// Key is the name handlers use to read the parsed value.
func (a ArgSpec) Key() string {
	return strings.TrimLeft(a.Name, "-")
}

// Args holds parsed argument values keyed by ArgSpec.Key.
type Args struct {
	values map[string]any
}

// NewArgs builds Args from plain values. Handlers receive Args from the
// command surface; NewArgs exists for direct dispatch and tests.
func NewArgs(values map[string]any) Args {
	return Args{values: values}
}

// String returns a string argument, or "" when absent.
func (a Args) String(key string) string {
	s, _ := a.values[key].(string)
	return s
}

// Bool returns a presence flag.
func (a Args) Bool(key string) bool {
	b, _ := a.values[key].(bool)
	return b
}

// Strings returns a repeatable argument. Absent arguments yield an empty,
// non-nil slice so they encode as [] rather than null.
func (a Args) Strings(key string) []string {
	if s, ok := a.values[key].([]string); ok && s != nil {
		return s
	}
	return []string{}
}

func validateSpecs(specs []ArgSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		key := spec.Key()
		if key == "" {
			return fmt.Errorf("%w: argument with empty name", ErrInvalidSpec)
		}
		if seen[key] {
			return fmt.Errorf("%w: argument %s declared twice", ErrInvalidSpec, spec.Name)
		}
		seen[key] = true

		if !spec.IsFlag() && spec.Kind != String {
			return fmt.Errorf("%w: positional %s must be a single string", ErrInvalidSpec, spec.Name)
		}
		if spec.Kind == Bool && (spec.Required || len(spec.Choices) > 0) {
			return fmt.Errorf("%w: flag %s cannot be required or restricted", ErrInvalidSpec, spec.Name)
		}

		switch d := spec.Default.(type) {
		case nil:
		case string:
			if spec.Kind != String {
				return fmt.Errorf("%w: %s has a string default", ErrInvalidSpec, spec.Name)
			}
		case bool:
			if spec.Kind != Bool {
				return fmt.Errorf("%w: %s has a bool default", ErrInvalidSpec, spec.Name)
			}
		case []string:
			if spec.Kind != StringArray {
				return fmt.Errorf("%w: %s has a list default", ErrInvalidSpec, spec.Name)
			}
		default:
			return fmt.Errorf("%w: %s has unsupported default %T", ErrInvalidSpec, spec.Name, d)
		}
	}
	return nil
}

func bindFlag(fs *pflag.FlagSet, spec ArgSpec, bound map[string]any) {
	key := spec.Key()
	help := spec.Help
	if len(spec.Choices) > 0 {
		help = fmt.Sprintf("%s {%s}", help, strings.Join(spec.Choices, ","))
	}

	switch spec.Kind {
	case Bool:
		def, _ := spec.Default.(bool)
		p := new(bool)
		fs.BoolVar(p, key, def, help)
		bound[key] = p
	case StringArray:
		def, _ := spec.Default.([]string)
		p := new([]string)
		fs.StringArrayVar(p, key, slices.Clone(def), help)
		bound[key] = p
	default:
		def, _ := spec.Default.(string)
		p := new(string)
		fs.StringVar(p, key, def, help)
		bound[key] = p
	}
}

func collect(bound map[string]any, positionals []ArgSpec, argv []string) Args {
	values := make(map[string]any, len(bound)+len(positionals))
	for key, p := range bound {
		switch v := p.(type) {
		case *bool:
			values[key] = *v
		case *[]string:
			values[key] = slices.Clone(*v)
		case *string:
			values[key] = *v
		}
	}
	for i, spec := range positionals {
		if i < len(argv) {
			values[spec.Key()] = argv[i]
		}
	}
	return Args{values: values}
}

func checkChoices(specs []ArgSpec, args Args) error {
	for _, spec := range specs {
		if len(spec.Choices) == 0 {
			continue
		}

		var given []string
		switch spec.Kind {
		case StringArray:
			given = args.Strings(spec.Key())
		default:
			v := args.String(spec.Key())
			if def, _ := spec.Default.(string); v == def {
				continue
			}
			given = []string{v}
		}

		for _, v := range given {
			if !slices.Contains(spec.Choices, v) {
				return fmt.Errorf("%w: %s %q (choose from %s)",
					ErrInvalidChoice, spec.Name, v, strings.Join(spec.Choices, ", "))
			}
		}
	}
	return nil
}
