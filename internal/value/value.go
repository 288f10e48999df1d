// Package value implements the runtime representation described in
// spec §3.5: nil, boolean, character, string, arbitrary-precision
// integer and decimal, and iterable host values.
//
// A user-defined "object with local scope" variant is named in spec
// §3.5 but deliberately not modeled here: the language has no
// user-defined types, nothing in the grammar constructs such an
// object, and the interpreter never needs to produce one. See
// DESIGN.md.
//
// Grounded on the teacher's runtime representation in codegen.go
// (LLVM values tagged by their LLVMType) reshaped around Go's own
// interface{} and math/big, since the interpreter backend evaluates
// directly rather than emitting IR. math/big usage mirrors
// other_examples/akamikado-EZ__typechecker.go and
// other_examples/davidkellis-able__eval_expressions.go: *big.Int for
// Integer, *big.Float for Decimal with the zero-value ToNearestEven
// rounding mode, which is exactly the banker's-rounding spec §5
// requires of decimal division.
package value

import (
	"fmt"
	"math/big"
)

// Iterable produces a finite or infinite sequence of host values. Per
// spec §9, iteration is forward-only: once exhausted an Iterable is
// not restarted, so RANGE's Iterable is consumed by at most one FOR
// loop.
type Iterable interface {
	Next() (interface{}, bool)
}

// intRange is the Iterable backing the range(lo, hi) builtin: integers
// in [lo, hi), ascending, exclusive of hi.
type intRange struct {
	cur, hi *big.Int
}

// Range builds the half-open integer sequence [lo, hi).
func Range(lo, hi *big.Int) Iterable {
	return &intRange{cur: new(big.Int).Set(lo), hi: hi}
}

func (r *intRange) Next() (interface{}, bool) {
	if r.cur.Cmp(r.hi) >= 0 {
		return nil, false
	}
	v := new(big.Int).Set(r.cur)
	r.cur.Add(r.cur, big.NewInt(1))
	return v, true
}

// Equal implements spec §3.5's equality: nil equals only nil, and
// otherwise values compare equal only when they hold the same Go
// dynamic type and that type's own equality holds.
func Equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case byte:
		bv, ok := b.(byte)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	case *big.Float:
		bv, ok := b.(*big.Float)
		return ok && av.Cmp(bv) == 0
	default:
		return false
	}
}

// CompareTo orders two Comparable-assignable values (Integer, Decimal,
// Character, or String), per spec §3.3. It panics if a and b are not
// both one of those kinds and the same kind as each other; callers
// (the analyzer, then the interpreter) must have already checked that.
func CompareTo(a, b interface{}) int {
	switch av := a.(type) {
	case byte:
		bv := b.(byte)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case *big.Int:
		return av.Cmp(b.(*big.Int))
	case *big.Float:
		return av.Cmp(b.(*big.Float))
	default:
		panic(fmt.Sprintf("value: %T is not comparable", a))
	}
}

// ToString renders v for the interpreter's print builtin, its
// toString() method calls, and its string concatenation: nil prints as "null",
// booleans as "true"/"false", everything else via its natural text
// form.
func ToString(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return "null"
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case byte:
		return string(rune(vv))
	case string:
		return vv
	case *big.Int:
		return vv.String()
	case *big.Float:
		return vv.Text('g', -1)
	default:
		return fmt.Sprintf("%v", vv)
	}
}
