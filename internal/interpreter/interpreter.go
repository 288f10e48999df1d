// Package interpreter implements the tree-walking evaluator of spec
// §4.5 over the typed AST the analyzer produces: it runs every field
// initializer, then the method named "main" with no parameters (the
// analyzer guarantees exactly one exists and returns Integer),
// mirroring the host language's own entry-point convention (spec
// §4.6's "class Main").
//
// Non-local return is modeled as an explicit transfer value threaded
// through the statement loop, never as a Go panic, per spec §9's
// redesign note. Runtime failures are likewise returned as ordinary
// *errs.Runtime values rather than panicked. RETURN
// inside a loop or an IF branch unwinds by returning a "returned"
// signal out of execStmts, exactly the way the teacher's codegen.go
// threads a terminated-block flag back up through nested blocks
// instead of using Go control-flow escapes.
package interpreter

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/errs"
	"github.com/ivylang/ivy/internal/scope"
	"github.com/ivylang/ivy/internal/types"
	"github.com/ivylang/ivy/internal/value"
)

// Stdout is where the print builtin writes. Tests swap it out to
// capture a program's output.
var Stdout io.Writer = os.Stdout

type Interpreter struct {
	arena *scope.Arena
}

// signal reports whether a statement sequence terminated normally or
// via RETURN, and if the latter, the value returned.
type signal struct {
	returned bool
	value    interface{}
}

// Run evaluates a fully analyzed source: field initializers in
// declaration order, then main()'s body.
func Run(src *ast.Source) error {
	_, err := RunMain(src)
	return err
}

// RunMain behaves like Run, additionally reporting the exit code
// cmd/ivyc's "run" subcommand reports to the OS: main()'s returned
// Integer truncated to an int. The analyzer guarantees main/0 exists
// and returns Integer (spec §3.2, §4.4), so src here is always well
// formed by the time an *ast.Source reaches the interpreter.
func RunMain(src *ast.Source) (int, error) {
	it := &Interpreter{arena: scope.NewArena()}
	it.defineBuiltins()

	for _, f := range src.Fields {
		v, err := it.fieldValue(f)
		if err != nil {
			return 1, err
		}
		sym := &scope.VarSymbol{SurfaceName: f.Name, HostName: f.Name, Type: f.Variable.Type, Value: v}
		if err := it.arena.DefineVar(scope.Root, sym); err != nil {
			return 1, &errs.Runtime{Message: err.Error()}
		}
	}

	for _, m := range src.Methods {
		it.defineMethod(m)
	}

	entry, _ := it.arena.LookupFunc(scope.Root, "main", 0)
	result, err := entry.Invoke(nil)
	if err != nil {
		return 1, err
	}
	return int(result.(*big.Int).Int64()), nil
}

func (it *Interpreter) fieldValue(f *ast.Field) (interface{}, error) {
	if f.Value == nil {
		return zeroValue(f.Variable.Type), nil
	}
	return it.evalExpr(scope.Root, f.Value)
}

func zeroValue(t *types.Type) interface{} {
	switch t {
	case types.Integer:
		return big.NewInt(0)
	case types.Decimal:
		return big.NewFloat(0)
	case types.Boolean:
		return false
	case types.Character:
		return byte(0)
	case types.String:
		return ""
	default:
		return nil
	}
}

func (it *Interpreter) defineBuiltins() {
	_ = it.arena.DefineVar(scope.Root, &scope.VarSymbol{
		SurfaceName: "nil",
		HostName:    "null",
		Type:        types.Nil,
	})
	_ = it.arena.DefineFunc(scope.Root, &scope.FnSymbol{
		SurfaceName: "print",
		HostName:    "println",
		Invoke: func(args []interface{}) (interface{}, error) {
			fmt.Fprintln(Stdout, value.ToString(args[0]))
			return nil, nil
		},
	}, 1)
	_ = it.arena.DefineFunc(scope.Root, &scope.FnSymbol{
		SurfaceName: "range",
		HostName:    "Range.of",
		Invoke: func(args []interface{}) (interface{}, error) {
			return value.Range(args[0].(*big.Int), args[1].(*big.Int)), nil
		},
	}, 2)
}

// defineMethod installs m's FnSymbol with an Invoke closure that
// pushes a fresh call scope, binds parameters to the call's argument
// values, runs the body, and pops the scope on every exit path.
func (it *Interpreter) defineMethod(m *ast.Method) {
	_ = it.arena.DefineFunc(scope.Root, &scope.FnSymbol{
		SurfaceName:    m.Name,
		HostName:       m.Name,
		ParameterTypes: m.Function.ParameterTypes,
		ReturnType:     m.Function.ReturnType,
		Invoke: func(args []interface{}) (interface{}, error) {
			callScope := it.arena.Push(scope.Root)
			defer it.arena.Pop()

			for i, name := range m.Parameters {
				sym := &scope.VarSymbol{
					SurfaceName: name,
					HostName:    name,
					Type:        m.Function.ParameterTypes[i],
					Value:       args[i],
				}
				if err := it.arena.DefineVar(callScope, sym); err != nil {
					return nil, &errs.Runtime{Message: err.Error()}
				}
			}

			sig, err := it.execStmts(callScope, m.Body)
			if err != nil {
				return nil, err
			}
			if sig.returned {
				return sig.value, nil
			}
			return nil, nil
		},
	}, len(m.Parameters))
}

func (it *Interpreter) execStmts(scopeIdx int, stmts []ast.Stmt) (signal, error) {
	for _, s := range stmts {
		sig, err := it.execStmt(scopeIdx, s)
		if err != nil {
			return signal{}, err
		}
		if sig.returned {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (it *Interpreter) execStmt(scopeIdx int, s ast.Stmt) (signal, error) {
	switch st := s.(type) {
	case *ast.Expression:
		_, err := it.evalExpr(scopeIdx, st.Inner)
		return signal{}, err

	case *ast.Declaration:
		var v interface{}
		if st.Value != nil {
			val, err := it.evalExpr(scopeIdx, st.Value)
			if err != nil {
				return signal{}, err
			}
			v = val
		} else {
			v = zeroValue(st.Variable.Type)
		}
		sym := &scope.VarSymbol{SurfaceName: st.Name, HostName: st.Name, Type: st.Variable.Type, Value: v}
		if err := it.arena.DefineVar(scopeIdx, sym); err != nil {
			return signal{}, &errs.Runtime{Message: err.Error()}
		}
		return signal{}, nil

	case *ast.Assignment:
		access := st.Receiver.(*ast.Access)
		v, err := it.evalExpr(scopeIdx, st.Value)
		if err != nil {
			return signal{}, err
		}
		if access.Receiver != nil {
			return signal{}, &errs.Runtime{Message: "cannot assign to a field access"}
		}
		if !it.arena.SetVar(scopeIdx, access.Name, v) {
			return signal{}, &errs.Runtime{Message: fmt.Sprintf("undefined variable %q", access.Name)}
		}
		return signal{}, nil

	case *ast.If:
		cond, err := it.evalExpr(scopeIdx, st.Condition)
		if err != nil {
			return signal{}, err
		}
		if cond.(bool) {
			branchScope := it.arena.Push(scopeIdx)
			defer it.arena.Pop()
			return it.execStmts(branchScope, st.Then)
		}
		if st.Else != nil {
			branchScope := it.arena.Push(scopeIdx)
			defer it.arena.Pop()
			return it.execStmts(branchScope, st.Else)
		}
		return signal{}, nil

	case *ast.For:
		iterVal, err := it.evalExpr(scopeIdx, st.Iterable)
		if err != nil {
			return signal{}, err
		}
		iter := iterVal.(value.Iterable)
		for {
			next, ok := iter.Next()
			if !ok {
				return signal{}, nil
			}
			bodyScope := it.arena.Push(scopeIdx)
			sym := &scope.VarSymbol{SurfaceName: st.Name, HostName: st.Name, Type: st.Variable.Type, Value: next}
			if err := it.arena.DefineVar(bodyScope, sym); err != nil {
				it.arena.Pop()
				return signal{}, &errs.Runtime{Message: err.Error()}
			}
			sig, err := it.execStmts(bodyScope, st.Body)
			it.arena.Pop()
			if err != nil || sig.returned {
				return sig, err
			}
		}

	case *ast.While:
		for {
			cond, err := it.evalExpr(scopeIdx, st.Condition)
			if err != nil {
				return signal{}, err
			}
			if !cond.(bool) {
				return signal{}, nil
			}
			bodyScope := it.arena.Push(scopeIdx)
			sig, err := it.execStmts(bodyScope, st.Body)
			it.arena.Pop()
			if err != nil || sig.returned {
				return sig, err
			}
		}

	case *ast.Return:
		v, err := it.evalExpr(scopeIdx, st.Value)
		if err != nil {
			return signal{}, err
		}
		return signal{returned: true, value: v}, nil

	default:
		return signal{}, &errs.Runtime{Message: fmt.Sprintf("unhandled statement type %T", s)}
	}
}

func (it *Interpreter) evalExpr(scopeIdx int, e ast.Expr) (interface{}, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex.Value, nil

	case *ast.Group:
		return it.evalExpr(scopeIdx, ex.Inner)

	case *ast.Binary:
		return it.evalBinary(scopeIdx, ex)

	case *ast.Access:
		if ex.Receiver != nil {
			return nil, &errs.Runtime{Message: "field access has no runtime representation"}
		}
		sym, ok := it.arena.LookupVar(scopeIdx, ex.Name)
		if !ok {
			return nil, &errs.Runtime{Message: fmt.Sprintf("undefined variable %q", ex.Name)}
		}
		return sym.Value, nil

	case *ast.Function:
		return it.evalFunction(scopeIdx, ex)

	default:
		return nil, &errs.Runtime{Message: fmt.Sprintf("unhandled expression type %T", e)}
	}
}

func (it *Interpreter) evalFunction(scopeIdx int, fn *ast.Function) (interface{}, error) {
	args := make([]interface{}, len(fn.Arguments))
	for i, arg := range fn.Arguments {
		v, err := it.evalExpr(scopeIdx, arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn.Receiver == nil {
		sym, ok := it.arena.LookupFunc(scopeIdx, fn.Name, len(fn.Arguments))
		if !ok {
			return nil, &errs.Runtime{Message: fmt.Sprintf("undefined function %s/%d", fn.Name, len(fn.Arguments))}
		}
		return sym.Invoke(args)
	}

	receiver, err := it.evalExpr(scopeIdx, fn.Receiver)
	if err != nil {
		return nil, err
	}
	// The only predefined receiver methods are the toString()/0 methods
	// seeded in internal/types.init; anything else would already have
	// been rejected by the analyzer.
	if fn.Name == "toString" && len(fn.Arguments) == 0 {
		return value.ToString(receiver), nil
	}
	return nil, &errs.Runtime{Message: fmt.Sprintf("unknown method %s/%d", fn.Name, len(fn.Arguments))}
}

func (it *Interpreter) evalBinary(scopeIdx int, b *ast.Binary) (interface{}, error) {
	left, err := it.evalExpr(scopeIdx, b.Left)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "AND":
		if !left.(bool) {
			return false, nil
		}
		right, err := it.evalExpr(scopeIdx, b.Right)
		if err != nil {
			return nil, err
		}
		return right.(bool), nil

	case "OR":
		if left.(bool) {
			return true, nil
		}
		right, err := it.evalExpr(scopeIdx, b.Right)
		if err != nil {
			return nil, err
		}
		return right.(bool), nil
	}

	right, err := it.evalExpr(scopeIdx, b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "+":
		_, leftIsString := left.(string)
		_, rightIsString := right.(string)
		if leftIsString || rightIsString {
			return value.ToString(left) + value.ToString(right), nil
		}
		switch lv := left.(type) {
		case *big.Int:
			return new(big.Int).Add(lv, right.(*big.Int)), nil
		case *big.Float:
			return new(big.Float).Add(lv, right.(*big.Float)), nil
		}
	case "-":
		switch lv := left.(type) {
		case *big.Int:
			return new(big.Int).Sub(lv, right.(*big.Int)), nil
		case *big.Float:
			return new(big.Float).Sub(lv, right.(*big.Float)), nil
		}
	case "*":
		switch lv := left.(type) {
		case *big.Int:
			return new(big.Int).Mul(lv, right.(*big.Int)), nil
		case *big.Float:
			return new(big.Float).Mul(lv, right.(*big.Float)), nil
		}
	case "/":
		switch lv := left.(type) {
		case *big.Int:
			rv := right.(*big.Int)
			if rv.Sign() == 0 {
				return nil, &errs.Runtime{Message: "division by zero"}
			}
			return new(big.Int).Quo(lv, rv), nil
		case *big.Float:
			rv := right.(*big.Float)
			if rv.Sign() == 0 {
				return nil, &errs.Runtime{Message: "division by zero"}
			}
			// big.Float's zero-value rounding mode is ToNearestEven:
			// banker's rounding, matching spec §5's decimal division.
			return new(big.Float).Quo(lv, rv), nil
		}
	case "==":
		return value.Equal(left, right), nil
	case "!=":
		return !value.Equal(left, right), nil
	case "<":
		return value.CompareTo(left, right) < 0, nil
	case "<=":
		return value.CompareTo(left, right) <= 0, nil
	case ">":
		return value.CompareTo(left, right) > 0, nil
	case ">=":
		return value.CompareTo(left, right) >= 0, nil
	}

	return nil, &errs.Runtime{Message: fmt.Sprintf("unhandled operator %q", b.Op)}
}
