// Package env wires together the type registry and the scope arena
// into the single Environment each phase walks the AST against, and
// pre-defines the bindings spec §4.3 requires: the type registry, the
// built-in "nil" variable, and the built-in "print" and "range"
// functions (the latter a supplemented feature; see SPEC_FULL.md).
package env

import (
	"github.com/ivylang/ivy/internal/scope"
	"github.com/ivylang/ivy/internal/types"
)

// Environment bundles a phase's scope arena with the fixed type
// registry used to resolve type-annotation names.
type Environment struct {
	Arena    *scope.Arena
	Registry *types.Registry
}

// New builds a fresh Environment with the root scope pre-populated
// with the built-in bindings. The analyzer builds one per Analyze
// call; the interpreter does not use an Environment and seeds its own
// scope arena with the same built-in names. Only the *types.Registry's contents are
// truly process-wide and shared by value (the registry never mutates
// after construction, per spec §3.3).
func New() *Environment {
	e := &Environment{
		Arena:    scope.NewArena(),
		Registry: types.NewRegistry(),
	}
	e.defineBuiltins()
	return e
}

func (e *Environment) defineBuiltins() {
	_ = e.Arena.DefineVar(scope.Root, &scope.VarSymbol{
		SurfaceName: "nil",
		HostName:    "null",
		Type:        types.Nil,
	})
	_ = e.Arena.DefineFunc(scope.Root, &scope.FnSymbol{
		SurfaceName:    "print",
		HostName:       "println",
		ParameterTypes: []*types.Type{types.Any},
		ReturnType:     types.Nil,
	}, 1)
	_ = e.Arena.DefineFunc(scope.Root, &scope.FnSymbol{
		SurfaceName:    "range",
		HostName:       "Range.of",
		ParameterTypes: []*types.Type{types.Integer, types.Integer},
		ReturnType:     types.IntegerIterable,
	}, 2)
}
