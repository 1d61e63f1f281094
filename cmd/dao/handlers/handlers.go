// Package handlers provides the operation table and handler functions for
// the dao CLI.
//
// Every operation is declared as a registry descriptor. The package is
// organized by the resource an operation manages:
// - master.go: master environment, workers, generic DB objects, history, SKUs and OS images
// - network.go: network maps
// - rack.go: rack lifecycle, stage triggers and assets
// - server.go: servers and discovery
// - cluster.go: clusters
//
// All handlers follow the same pattern: read the parsed arguments, validate
// operator input eagerly, make exactly one call to the master through the
// Session and print the result. Gateway errors are returned untouched so the
// front controller can map them to exit codes.
package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/concave-dev/dao/cmd/dao/config"
	"github.com/concave-dev/dao/cmd/dao/display"
	"github.com/concave-dev/dao/cmd/dao/utils"
	"github.com/concave-dev/dao/internal/gateway"
	"github.com/concave-dev/dao/internal/logging"
	"github.com/concave-dev/dao/internal/projection"
	"github.com/concave-dev/dao/internal/registry"
	"github.com/concave-dev/dao/internal/result"
	"github.com/concave-dev/dao/internal/validate"
)

// Accepted is printed when an operation returns no result.
const Accepted = "Accepted"

// Caller sends one RPC envelope to the master.
type Caller interface {
	Call(ctx context.Context, env gateway.Envelope) (result.Value, error)
}

// Session is the environment handlers run in: the invocation context, the
// master connection and the output writer.
type Session struct {
	Inv    config.Invocation
	Caller Caller
	Out    io.Writer

	ctx context.Context
}

// NewSession builds a session for one invocation.
func NewSession(ctx context.Context, inv config.Invocation, caller Caller, out io.Writer) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Session{Inv: inv, Caller: caller, Out: out, ctx: ctx}
}

// call invokes fn on the master. The user and location are always the first
// two positional arguments.
func (s *Session) call(fn string, args []any, kwargs map[string]any) (result.Value, error) {
	full := make([]any, 0, len(args)+2)
	full = append(full, s.Inv.User, s.Inv.Location)
	full = append(full, args...)
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	logging.Debug("Calling %s at location %s as %s", fn, s.Inv.Location, s.Inv.User)
	v, err := s.Caller.Call(s.ctx, gateway.Envelope{Func: fn, Args: full, Kwargs: kwargs})
	if err != nil {
		return nil, err
	}
	logging.Success("Master completed %s", fn)
	return v, nil
}

// print renders v with the invocation's filter and format.
func (s *Session) print(v result.Value) error {
	if result.IsNull(v) {
		v = result.String(Accepted)
	}
	v = projection.Apply(s.Inv.Fields, v)
	return display.Print(s.Out, s.Inv.Format, v)
}

// run is the common call-then-print path.
func (s *Session) run(fn string, args []any, kwargs map[string]any) error {
	v, err := s.call(fn, args, kwargs)
	if err != nil {
		return err
	}
	return s.print(v)
}

// Operations returns every dao operation.
func Operations() []registry.Descriptor[*Session] {
	var ops []registry.Descriptor[*Session]
	ops = append(ops, masterOperations()...)
	ops = append(ops, networkOperations()...)
	ops = append(ops, rackOperations()...)
	ops = append(ops, serverOperations()...)
	ops = append(ops, clusterOperations()...)
	return ops
}

// NewRegistry registers ops in a fresh registry. Name collisions are
// reported as errors.
func NewRegistry(ops []registry.Descriptor[*Session]) (*registry.Registry[*Session], error) {
	reg := registry.New[*Session]()
	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			return nil, fmt.Errorf("failed to register operations: %w", err)
		}
	}
	return reg, nil
}

// optional maps an unset string argument to null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// keyFilters turns repeated --key k=v arguments into call keywords. Keys
// that clash with a keyword the operation already sets are rejected.
func keyFilters(items []string, kwargs map[string]any) (map[string]any, error) {
	pairs, err := utils.ParseKeyValues("--key", items)
	if err != nil {
		return nil, err
	}
	if kwargs == nil {
		kwargs = make(map[string]any, len(pairs))
	}
	for k, v := range pairs {
		if _, exists := kwargs[k]; exists {
			return nil, &validate.InputError{Flag: "--key", Reason: fmt.Sprintf("'%s' is a reserved argument", k)}
		}
		kwargs[k] = v
	}
	return kwargs, nil
}

// requireNames rejects blank rack, worker and switch names before any call is
// made.
func requireNames(args registry.Args, keys ...string) error {
	for _, key := range keys {
		if err := validate.ValidateRequiredString(strings.TrimSpace(args.String(key)), key); err != nil {
			return &validate.InputError{Reason: err.Error()}
		}
	}
	return nil
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var keyFilterArg = registry.ArgSpec{
	Name: "--key",
	Kind: registry.StringArray,
	Help: "Filtering argument. key=value. Repeatable.",
}
