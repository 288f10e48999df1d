// Package types defines the process-wide, fixed type registry
// described in spec §3.3: the predefined types, their host-language
// names, their declared members, and the assignability rule.
//
// Grounded on the teacher's tawa_types.go (a package-level table of
// predefined LLVMType values) and codegen.go's ctx.names[0] builtin
// seeding, adapted from LLVM types to Ivy's surface types.
package types

// Type is a predefined surface type: a name, the name the translator
// emits for it, and the members declared on it.
type Type struct {
	Name     string
	HostName string
	Fields   map[string]*Type
	Methods  map[MethodKey]*Signature
}

func (t *Type) String() string { return t.Name }

// MethodKey identifies a method by name and arity (not counting the
// receiver), per spec §3.4.
type MethodKey struct {
	Name  string
	Arity int
}

// Signature is a declared method's parameter and return types. For a
// receiver method, ParameterTypes[0] is the receiver's own type, per
// the resolution of the analyzer/interpreter disagreement in spec §9.
type Signature struct {
	ParameterTypes []*Type
	ReturnType     *Type
}

// Predefined types, per spec §3.3.
var (
	Any             = &Type{Name: "Any", HostName: "Object"}
	Nil             = &Type{Name: "Nil", HostName: "Object"}
	Comparable      = &Type{Name: "Comparable", HostName: "Comparable"}
	Boolean         = &Type{Name: "Boolean", HostName: "boolean"}
	Integer         = &Type{Name: "Integer", HostName: "int"}
	Decimal         = &Type{Name: "Decimal", HostName: "double"}
	Character       = &Type{Name: "Character", HostName: "char"}
	String          = &Type{Name: "String", HostName: "String"}
	IntegerIterable = &Type{Name: "IntegerIterable", HostName: "Iterable<Integer>"}
)

// All lists every predefined type, in the order they are registered.
var All = []*Type{Any, Nil, Comparable, Boolean, Integer, Decimal, Character, String, IntegerIterable}

func init() {
	for _, t := range []*Type{Boolean, Integer, Decimal, Character, String} {
		t.Methods = map[MethodKey]*Signature{
			{Name: "toString", Arity: 0}: {ParameterTypes: []*Type{t}, ReturnType: String},
		}
	}
}

// Registry resolves a surface type name to its predefined Type. It is
// built once and never mutated thereafter, per spec §3.3.
type Registry struct {
	byName map[string]*Type
}

// NewRegistry builds the fixed, process-wide type registry.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Type, len(All))}
	for _, t := range All {
		r.byName[t.Name] = t
	}
	return r
}

// Lookup resolves a surface type name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// RequireAssignable implements spec §3.3's assignability rule:
// target == source, or target == Any, or target == Comparable and
// source is one of Integer, Decimal, Character, String.
func RequireAssignable(target, source *Type) bool {
	if target == source {
		return true
	}
	if target == Any {
		return true
	}
	if target == Comparable {
		switch source {
		case Integer, Decimal, Character, String:
			return true
		}
	}
	return false
}
