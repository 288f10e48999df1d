package env

import (
	"testing"

	"github.com/ivylang/ivy/internal/scope"
	"github.com/ivylang/ivy/internal/types"
)

func TestNewDefinesNil(t *testing.T) {
	e := New()
	sym, ok := e.Arena.LookupVar(scope.Root, "nil")
	if !ok {
		t.Fatal("expected the root scope to define nil")
	}
	if sym.Type != types.Nil {
		t.Errorf("expected nil's type to be types.Nil, got %s", sym.Type)
	}
	if sym.HostName != "null" {
		t.Errorf("expected nil's host name to be null, got %q", sym.HostName)
	}
}

func TestNewDefinesPrintAndRange(t *testing.T) {
	e := New()

	print, ok := e.Arena.LookupFunc(scope.Root, "print", 1)
	if !ok {
		t.Fatal("expected print/1 to be defined")
	}
	if print.ReturnType != types.Nil || len(print.ParameterTypes) != 1 || print.ParameterTypes[0] != types.Any {
		t.Errorf("print has an unexpected signature: %+v", print)
	}

	rng, ok := e.Arena.LookupFunc(scope.Root, "range", 2)
	if !ok {
		t.Fatal("expected range/2 to be defined")
	}
	if rng.ReturnType != types.IntegerIterable {
		t.Errorf("expected range to return IntegerIterable, got %s", rng.ReturnType)
	}
	for _, pt := range rng.ParameterTypes {
		if pt != types.Integer {
			t.Errorf("expected range's parameters to both be Integer, got %s", pt)
		}
	}
}

func TestNewEnvironmentsAreIndependent(t *testing.T) {
	a := New()
	b := New()
	_ = a.Arena.DefineVar(scope.Root, &scope.VarSymbol{SurfaceName: "x", Type: types.Integer})
	if _, ok := b.Arena.LookupVar(scope.Root, "x"); ok {
		t.Fatal("a second Environment must not see the first's bindings")
	}
}
