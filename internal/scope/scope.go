// Package scope implements the lexical scope chain and symbol tables
// described in spec §3.4 and §9: an arena of scopes addressed by
// integer index, each carrying a parent index, a name->VarSymbol
// table, and a (name, arity)->FnSymbol table.
//
// Grounded on the teacher's codegen.go ctx (a slice of
// map[string]namedThing with pushScope/popScope/lookup/assign/top),
// reshaped into the arena-with-parent-pointers model spec §9
// prescribes. Scopes never hold a concrete runtime value type: a
// VarSymbol's Value is an interface{} and a FnSymbol's Invoke is a
// func over interface{} values, so this package has no dependency on the interpreter
// or any backend.
package scope

import (
	"fmt"

	"github.com/ivylang/ivy/internal/types"
)

// VarSymbol is a resolved variable binding: its surface and host
// names, its type, and (only meaningful to the interpreter) its
// current value.
type VarSymbol struct {
	SurfaceName string
	HostName    string
	Type        *types.Type
	Value       interface{}
}

// FnSymbol is a resolved function or method binding. Invoke is set by
// whichever backend runs the call; the analyzer only ever reads
// ParameterTypes/ReturnType.
type FnSymbol struct {
	SurfaceName    string
	HostName       string
	ParameterTypes []*types.Type
	ReturnType     *types.Type
	Invoke         func(args []interface{}) (interface{}, error)
}

type fnKey struct {
	name  string
	arity int
}

// scopeNode is one link in the chain: a parent index (-1 for the root)
// plus this scope's own bindings.
type scopeNode struct {
	parent    int
	vars      map[string]*VarSymbol
	functions map[fnKey]*FnSymbol
}

// Arena owns every scope created during a phase's traversal. Scopes
// are pushed and popped in strict stack discipline (spec §5: each
// invocation's child scope is discarded on every exit path), so Pop
// always removes the most recently pushed scope.
type Arena struct {
	scopes []*scopeNode
}

// NewArena creates an arena with a single root scope (index 0, no
// parent) and returns it.
func NewArena() *Arena {
	a := &Arena{}
	a.Push(-1)
	return a
}

// Root is the index of the arena's outermost scope.
const Root = 0

// Push creates a new child of parent (or a parentless scope if
// parent is -1) and returns its index.
func (a *Arena) Push(parent int) int {
	a.scopes = append(a.scopes, &scopeNode{
		parent:    parent,
		vars:      make(map[string]*VarSymbol),
		functions: make(map[fnKey]*FnSymbol),
	})
	return len(a.scopes) - 1
}

// Pop discards the most recently pushed scope.
func (a *Arena) Pop() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

// DefineVar installs sym in scopeIdx's local table. Redefining the
// same name in the same scope is a static error, per spec §3.4.
func (a *Arena) DefineVar(scopeIdx int, sym *VarSymbol) error {
	s := a.scopes[scopeIdx]
	if _, exists := s.vars[sym.SurfaceName]; exists {
		return fmt.Errorf("%q is already defined in this scope", sym.SurfaceName)
	}
	s.vars[sym.SurfaceName] = sym
	return nil
}

// DefineFunc installs sym in scopeIdx's local table under
// (sym.SurfaceName, arity). Redefining the same (name, arity) pair in
// the same scope is a static error.
func (a *Arena) DefineFunc(scopeIdx int, sym *FnSymbol, arity int) error {
	s := a.scopes[scopeIdx]
	key := fnKey{sym.SurfaceName, arity}
	if _, exists := s.functions[key]; exists {
		return fmt.Errorf("%q/%d is already defined in this scope", sym.SurfaceName, arity)
	}
	s.functions[key] = sym
	return nil
}

// LookupVar walks the chain root-ward from scopeIdx for name.
func (a *Arena) LookupVar(scopeIdx int, name string) (*VarSymbol, bool) {
	for idx := scopeIdx; idx != -1; idx = a.scopes[idx].parent {
		if v, ok := a.scopes[idx].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupFunc walks the chain root-ward from scopeIdx for (name, arity).
func (a *Arena) LookupFunc(scopeIdx int, name string, arity int) (*FnSymbol, bool) {
	key := fnKey{name, arity}
	for idx := scopeIdx; idx != -1; idx = a.scopes[idx].parent {
		if f, ok := a.scopes[idx].functions[key]; ok {
			return f, true
		}
	}
	return nil, false
}

// SetVar rebinds an already-defined variable's current value,
// walking the chain root-ward to find it. Used by the interpreter's
// Stmt.Assignment.
func (a *Arena) SetVar(scopeIdx int, name string, value interface{}) bool {
	sym, ok := a.LookupVar(scopeIdx, name)
	if !ok {
		return false
	}
	sym.Value = value
	return true
}
