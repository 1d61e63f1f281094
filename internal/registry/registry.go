// Package registry turns a table of operation descriptors into a cobra
// command surface and dispatches invocations to their handlers.
//
// Every DAO operation is declared once, as data: a name, a one-line summary,
// optional usage text, its argument specifications and a handler. The
// registry is filled at startup, frozen when the command surface is built,
// and read-only afterwards:
//
//	reg := registry.New[*Session]()
//	reg.MustRegister(registry.Descriptor[*Session]{
//		Name:    "rack_list",
//		Short:   "List racks",
//		Args:    []registry.ArgSpec{{Name: "--detailed", Kind: registry.Bool}},
//		Handler: rackList,
//	})
//	reg.Build(rootCmd, sessionFn)
//
// Names are canonicalised by replacing underscores with hyphens, so
// "rack_list" is invoked as `dao rack-list`. Two descriptors whose canonical
// names collide are rejected at registration time.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// ErrDuplicateCommand is returned when a canonical name is registered twice.
	ErrDuplicateCommand = errors.New("duplicate command name")

	// ErrUnknownCommand is returned when dispatching a name that was never
	// registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidChoice is returned when a restricted argument receives a value
	// outside its choices.
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrInvalidSpec is returned for malformed descriptors.
	ErrInvalidSpec = errors.New("invalid operation descriptor")

	// ErrFrozen is returned when registering after the surface was built.
	ErrFrozen = errors.New("registry is frozen")
)

// Handler executes one operation. env carries whatever the caller needs to
// reach the master and render output; args holds the parsed arguments.
type Handler[E any] func(env E, args Args) error

// Descriptor is the declarative definition of one operation.
type Descriptor[E any] struct {
	// Name is the operation identifier; underscores become hyphens.
	Name string

	// Short is the one-line summary shown in command listings.
	Short string

	// Usage is optional free text attached verbatim to the command help,
	// one entry per line.
	Usage []string

	// Args are the positional and flag arguments in declaration order.
	Args []ArgSpec

	Handler Handler[E]
}

// Registry maps canonical command names to descriptors.
type Registry[E any] struct {
	ops    map[string]Descriptor[E]
	frozen bool
}

// New returns an empty registry.
func New[E any]() *Registry[E] {
	return &Registry[E]{ops: make(map[string]Descriptor[E])}
}

// CanonicalName converts an operation identifier to its command name.
func CanonicalName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// Register adds d to the registry. Colliding canonical names, malformed
// argument specifications and registration after Build are errors.
func (r *Registry[E]) Register(d Descriptor[E]) error {
	if r.frozen {
		return ErrFrozen
	}

	name := CanonicalName(strings.TrimSpace(d.Name))
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	if d.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidSpec, name)
	}
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	if err := validateSpecs(d.Args); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	d.Name = name
	d.Args = slices.Clone(d.Args)
	d.Usage = slices.Clone(d.Usage)
	r.ops[name] = d
	return nil
}

// MustRegister is Register for static startup tables; it panics on error.
func (r *Registry[E]) MustRegister(d Descriptor[E]) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Names returns the registered canonical names in sorted order.
func (r *Registry[E]) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the descriptor registered under name. Both the canonical
// and the underscore form are accepted.
func (r *Registry[E]) Lookup(name string) (Descriptor[E], bool) {
	d, ok := r.ops[CanonicalName(name)]
	return d, ok
}

// Dispatch runs the handler registered under name. Unknown names fail with
// ErrUnknownCommand before any handler code runs.
func (r *Registry[E]) Dispatch(name string, env E, args Args) error {
	d, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return d.Handler(env, args)
}

// Build freezes the registry and attaches one subcommand per descriptor to
// root. env is called after argument validation, right before dispatch, so
// invocation context resolved in root's PersistentPreRunE is available.
func (r *Registry[E]) Build(root *cobra.Command, env func() (E, error)) error {
	r.frozen = true

	for _, name := range r.Names() {
		cmd, err := r.command(r.ops[name], env)
		if err != nil {
			return fmt.Errorf("failed to build command %s: %w", name, err)
		}
		root.AddCommand(cmd)
	}
	return nil
}

func (r *Registry[E]) command(d Descriptor[E], env func() (E, error)) (*cobra.Command, error) {
	var positionals []ArgSpec
	use := []string{d.Name}
	for _, spec := range d.Args {
		if !spec.IsFlag() {
			positionals = append(positionals, spec)
			use = append(use, strings.ToUpper(spec.Key()))
		}
	}

	long := d.Short
	if len(d.Usage) > 0 {
		long = strings.Join(d.Usage, "\n")
	}

	cmd := &cobra.Command{
		Use:   strings.Join(use, " "),
		Short: d.Short,
		Long:  long,
		Args:  cobra.ExactArgs(len(positionals)),
	}

	bound := make(map[string]any, len(d.Args))
	for _, spec := range d.Args {
		if !spec.IsFlag() {
			continue
		}
		bindFlag(cmd.Flags(), spec, bound)
		if spec.Required {
			if err := cmd.MarkFlagRequired(spec.Key()); err != nil {
				return nil, err
			}
		}
	}

	name := d.Name
	specs := d.Args
	cmd.RunE = func(cmd *cobra.Command, argv []string) error {
		args := collect(bound, positionals, argv)
		if err := checkChoices(specs, args); err != nil {
			return err
		}

		e, err := env()
		if err != nil {
			return err
		}
		return r.Dispatch(name, e, args)
	}
	return cmd, nil
}
