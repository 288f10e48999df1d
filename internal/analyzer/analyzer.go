// Package analyzer implements the static-analysis pass of spec §4.4:
// it walks the untyped AST built by internal/parser, resolves every
// name to a symbol, resolves every type annotation to a predefined
// type, annotates each Expr with its ResolvedType, and rejects any
// program that violates spec §3's invariants. Its output is the same
// *ast.Source, now fully typed, ready for either backend.
//
// Grounded on the teacher's codegenToplevel/codegenExpression
// two-pass shape (register every top-level name before compiling any
// body, so forward and mutually recursive calls resolve), adapted from
// a single code-generating pass into a pure type-and-symbol pass that
// never emits anything. Errors are reported the same way the
// lexer/parser report theirs: a single panic type recovered at the
// package's one entry point, Analyze.
package analyzer

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/env"
	"github.com/ivylang/ivy/internal/errs"
	"github.com/ivylang/ivy/internal/scope"
	"github.com/ivylang/ivy/internal/types"
)

type analyzer struct {
	env *env.Environment
	// returnType is the declared return type of the method currently
	// being analyzed, used to check RETURN statements.
	returnType *types.Type
}

// Analyze type-checks src in place and returns the Environment its
// symbols were resolved against, or the first error found.
func Analyze(src *ast.Source) (e *env.Environment, err error) {
	a := &analyzer{env: env.New()}

	defer func() {
		if r := recover(); r != nil {
			aerr, ok := r.(*errs.Analyze)
			if !ok {
				panic(r)
			}
			e, err = nil, aerr
		}
	}()

	a.analyzeSource(src)
	return a.env, nil
}

func (a *analyzer) fail(format string, args ...interface{}) {
	panic(&errs.Analyze{Message: fmt.Sprintf(format, args...)})
}

func (a *analyzer) analyzeSource(src *ast.Source) {
	for _, f := range src.Fields {
		a.analyzeField(f)
	}
	for _, m := range src.Methods {
		a.registerMethod(m)
	}
	for _, m := range src.Methods {
		a.analyzeMethodBody(m)
	}

	main, ok := a.env.Arena.LookupFunc(scope.Root, "main", 0)
	if !ok {
		a.fail("missing main/0")
	}
	if main.ReturnType != types.Integer {
		a.fail("main must return Integer, got %s", main.ReturnType)
	}
}

func (a *analyzer) resolveTypeName(name string) *types.Type {
	if name == "" {
		return nil
	}
	t, ok := a.env.Registry.Lookup(name)
	if !ok {
		a.fail("unknown type %q", name)
	}
	return t
}

func (a *analyzer) analyzeField(f *ast.Field) {
	declared := a.resolveTypeName(f.TypeName)

	var valueType *types.Type
	if f.Value != nil {
		valueType = a.analyzeExpr(scope.Root, f.Value)
	}

	resolved := declared
	switch {
	case declared == nil && valueType == nil:
		a.fail("field %q needs a type annotation or an initializer", f.Name)
	case declared == nil:
		resolved = valueType
	case valueType != nil && !types.RequireAssignable(declared, valueType):
		a.fail("cannot assign %s to field %q of type %s", valueType, f.Name, declared)
	}

	sym := &scope.VarSymbol{SurfaceName: f.Name, HostName: f.Name, Type: resolved}
	if err := a.env.Arena.DefineVar(scope.Root, sym); err != nil {
		a.fail("%s", err)
	}
	f.Variable = sym
}

func (a *analyzer) registerMethod(m *ast.Method) {
	paramTypes := make([]*types.Type, len(m.Parameters))
	for i, tn := range m.ParameterTypeNames {
		if tn == "" {
			paramTypes[i] = types.Any
		} else {
			paramTypes[i] = a.resolveTypeName(tn)
		}
	}
	returnType := types.Nil
	if m.ReturnTypeName != "" {
		returnType = a.resolveTypeName(m.ReturnTypeName)
	}

	sym := &scope.FnSymbol{
		SurfaceName:    m.Name,
		HostName:       m.Name,
		ParameterTypes: paramTypes,
		ReturnType:     returnType,
	}
	if err := a.env.Arena.DefineFunc(scope.Root, sym, len(m.Parameters)); err != nil {
		a.fail("%s", err)
	}
	m.Function = sym
}

func (a *analyzer) analyzeMethodBody(m *ast.Method) {
	bodyScope := a.env.Arena.Push(scope.Root)
	defer a.env.Arena.Pop()

	m.ParamSymbols = make([]*scope.VarSymbol, len(m.Parameters))
	for i, name := range m.Parameters {
		sym := &scope.VarSymbol{SurfaceName: name, HostName: name, Type: m.Function.ParameterTypes[i]}
		if err := a.env.Arena.DefineVar(bodyScope, sym); err != nil {
			a.fail("%s", err)
		}
		m.ParamSymbols[i] = sym
	}

	prevReturn := a.returnType
	a.returnType = m.Function.ReturnType
	a.analyzeStmts(bodyScope, m.Body)
	a.returnType = prevReturn
}

func (a *analyzer) analyzeStmts(scopeIdx int, stmts []ast.Stmt) {
	for _, s := range stmts {
		a.analyzeStmt(scopeIdx, s)
	}
}

func (a *analyzer) analyzeStmt(scopeIdx int, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Expression:
		if _, ok := st.Inner.(*ast.Function); !ok {
			a.fail("an expression statement must be a call")
		}
		a.analyzeExpr(scopeIdx, st.Inner)

	case *ast.Declaration:
		a.analyzeDeclaration(scopeIdx, st)

	case *ast.Assignment:
		access, ok := st.Receiver.(*ast.Access)
		if !ok {
			a.fail("the left-hand side of an assignment must be a variable or field")
		}
		receiverType := a.analyzeExpr(scopeIdx, access)
		valueType := a.analyzeExpr(scopeIdx, st.Value)
		if !types.RequireAssignable(receiverType, valueType) {
			a.fail("cannot assign %s to %s", valueType, receiverType)
		}

	case *ast.If:
		condType := a.analyzeExpr(scopeIdx, st.Condition)
		if condType != types.Boolean {
			a.fail("IF condition must be Boolean, got %s", condType)
		}
		thenScope := a.env.Arena.Push(scopeIdx)
		a.analyzeStmts(thenScope, st.Then)
		a.env.Arena.Pop()

		if st.Else != nil {
			elseScope := a.env.Arena.Push(scopeIdx)
			a.analyzeStmts(elseScope, st.Else)
			a.env.Arena.Pop()
		}

	case *ast.For:
		iterType := a.analyzeExpr(scopeIdx, st.Iterable)
		if iterType != types.IntegerIterable {
			a.fail("FOR iterable must be an Integer iterable, got %s", iterType)
		}
		bodyScope := a.env.Arena.Push(scopeIdx)
		sym := &scope.VarSymbol{SurfaceName: st.Name, HostName: st.Name, Type: types.Integer}
		if err := a.env.Arena.DefineVar(bodyScope, sym); err != nil {
			a.fail("%s", err)
		}
		st.Variable = sym
		if len(st.Body) == 0 {
			a.fail("FOR body must not be empty")
		}
		a.analyzeStmts(bodyScope, st.Body)
		a.env.Arena.Pop()

	case *ast.While:
		condType := a.analyzeExpr(scopeIdx, st.Condition)
		if condType != types.Boolean {
			a.fail("WHILE condition must be Boolean, got %s", condType)
		}
		bodyScope := a.env.Arena.Push(scopeIdx)
		a.analyzeStmts(bodyScope, st.Body)
		a.env.Arena.Pop()

	case *ast.Return:
		valueType := a.analyzeExpr(scopeIdx, st.Value)
		if !types.RequireAssignable(a.returnType, valueType) {
			a.fail("cannot return %s from a method declared to return %s", valueType, a.returnType)
		}

	default:
		a.fail("unhandled statement type %T", s)
	}
}

func (a *analyzer) analyzeDeclaration(scopeIdx int, d *ast.Declaration) {
	declared := a.resolveTypeName(d.TypeName)

	var valueType *types.Type
	if d.Value != nil {
		valueType = a.analyzeExpr(scopeIdx, d.Value)
	}

	resolved := declared
	switch {
	case declared == nil && valueType == nil:
		a.fail("variable %q needs a type annotation or an initializer", d.Name)
	case declared == nil:
		resolved = valueType
	case valueType != nil && !types.RequireAssignable(declared, valueType):
		a.fail("cannot assign %s to %q of type %s", valueType, d.Name, declared)
	}

	sym := &scope.VarSymbol{SurfaceName: d.Name, HostName: d.Name, Type: resolved}
	if err := a.env.Arena.DefineVar(scopeIdx, sym); err != nil {
		a.fail("%s", err)
	}
	d.Variable = sym
}

// analyzeExpr resolves e's type, annotates e via ast.SetType, and
// returns the resolved type for the caller's convenience.
func (a *analyzer) analyzeExpr(scopeIdx int, e ast.Expr) *types.Type {
	var t *types.Type
	switch ex := e.(type) {
	case *ast.Literal:
		t = a.analyzeLiteral(ex)
	case *ast.Group:
		inner, ok := ex.Inner.(*ast.Binary)
		if !ok {
			a.fail("a parenthesized expression must wrap a binary expression")
		}
		t = a.analyzeExpr(scopeIdx, inner)
	case *ast.Binary:
		t = a.analyzeBinary(scopeIdx, ex)
	case *ast.Access:
		t = a.analyzeAccess(scopeIdx, ex)
	case *ast.Function:
		t = a.analyzeFunction(scopeIdx, ex)
	default:
		a.fail("unhandled expression type %T", e)
	}
	ast.SetType(e, t)
	return t
}

// int32 bounds for Integer literals and the float64 roundtrip check
// for Decimal literals, matching the host types int and double: Ivy's
// Integer must fit in Java's 32-bit int, and a Decimal literal must
// convert to an IEEE-754 double exactly.
const (
	minInt32 = math.MinInt32
	maxInt32 = math.MaxInt32
)

func (a *analyzer) analyzeLiteral(l *ast.Literal) *types.Type {
	switch v := l.Value.(type) {
	case nil:
		return types.Nil
	case bool:
		return types.Boolean
	case byte:
		return types.Character
	case string:
		return types.String
	case *big.Int:
		if !v.IsInt64() || v.Int64() < minInt32 || v.Int64() > maxInt32 {
			a.fail("integer literal %s is out of range for a 32-bit Integer", v)
		}
		return types.Integer
	case *big.Float:
		f, acc := v.Float64()
		if acc != big.Exact || math.IsInf(f, 0) {
			a.fail("decimal literal %s does not round-trip through a 64-bit Decimal", v.Text('g', -1))
		}
		return types.Decimal
	default:
		a.fail("unhandled literal value of type %T", v)
		return nil
	}
}

var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var logicalOps = map[string]bool{"AND": true, "OR": true}
var additiveOps = map[string]bool{"+": true, "-": true}
var multiplicativeOps = map[string]bool{"*": true, "/": true}

func (a *analyzer) analyzeBinary(scopeIdx int, b *ast.Binary) *types.Type {
	left := a.analyzeExpr(scopeIdx, b.Left)
	right := a.analyzeExpr(scopeIdx, b.Right)

	switch {
	case logicalOps[b.Op]:
		if left != types.Boolean || right != types.Boolean {
			a.fail("%s requires Boolean operands, got %s and %s", b.Op, left, right)
		}
		return types.Boolean

	case equalityOps[b.Op]:
		if left != right {
			a.fail("%s requires operands of the same type, got %s and %s", b.Op, left, right)
		}
		return types.Boolean

	case comparisonOps[b.Op]:
		if left != right || !types.RequireAssignable(types.Comparable, left) {
			a.fail("%s requires two Comparable operands of the same type, got %s and %s", b.Op, left, right)
		}
		return types.Boolean

	case b.Op == "+":
		if left == types.String || right == types.String {
			return types.String
		}
		if left != right || (left != types.Integer && left != types.Decimal) {
			a.fail("+ requires a String operand, or two Integer or two Decimal operands, got %s and %s", left, right)
		}
		return left

	case additiveOps[b.Op] || multiplicativeOps[b.Op]:
		if left != right || (left != types.Integer && left != types.Decimal) {
			a.fail("%s requires two Integer or two Decimal operands, got %s and %s", b.Op, left, right)
		}
		return left

	default:
		a.fail("unknown operator %q", b.Op)
		return nil
	}
}

func (a *analyzer) analyzeAccess(scopeIdx int, ac *ast.Access) *types.Type {
	if ac.Receiver == nil {
		sym, ok := a.env.Arena.LookupVar(scopeIdx, ac.Name)
		if !ok {
			a.fail("undefined variable %q", ac.Name)
		}
		ac.Variable = sym
		return sym.Type
	}

	receiverType := a.analyzeExpr(scopeIdx, ac.Receiver)
	fieldType, ok := receiverType.Fields[ac.Name]
	if !ok {
		a.fail("%s has no field %q", receiverType, ac.Name)
	}
	return fieldType
}

func (a *analyzer) analyzeFunction(scopeIdx int, fn *ast.Function) *types.Type {
	argTypes := make([]*types.Type, len(fn.Arguments))
	for i, arg := range fn.Arguments {
		argTypes[i] = a.analyzeExpr(scopeIdx, arg)
	}

	if fn.Receiver == nil {
		sym, ok := a.env.Arena.LookupFunc(scopeIdx, fn.Name, len(fn.Arguments))
		if !ok {
			a.fail("undefined function %s/%d", fn.Name, len(fn.Arguments))
		}
		a.checkArgs(sym.ParameterTypes, argTypes, fn.Name)
		fn.Fn = sym
		return sym.ReturnType
	}

	receiverType := a.analyzeExpr(scopeIdx, fn.Receiver)
	sig, ok := receiverType.Methods[types.MethodKey{Name: fn.Name, Arity: len(fn.Arguments)}]
	if !ok {
		a.fail("%s has no method %s/%d", receiverType, fn.Name, len(fn.Arguments))
	}
	// sig.ParameterTypes[0] is the receiver's own type (per spec §9's
	// resolution); the remaining entries are the call's own arguments.
	a.checkArgs(sig.ParameterTypes[1:], argTypes, fn.Name)
	fn.Fn = &scope.FnSymbol{
		SurfaceName:    fn.Name,
		HostName:       fn.Name,
		ParameterTypes: sig.ParameterTypes,
		ReturnType:     sig.ReturnType,
	}
	return sig.ReturnType
}

func (a *analyzer) checkArgs(params, args []*types.Type, name string) {
	if len(params) != len(args) {
		a.fail("%s expects %d arguments, got %d", name, len(params), len(args))
	}
	for i := range params {
		if !types.RequireAssignable(params[i], args[i]) {
			a.fail("argument %d to %s: cannot assign %s to %s", i, name, args[i], params[i])
		}
	}
}
