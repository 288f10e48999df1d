// Package llvmgen is an additional backend beyond spec.md's two
// required ones (interpret, translate): it lowers a fully analyzed
// *ast.Source straight to LLVM IR, reachable only via
// `ivyc build --backend=llvm-ir` (see SPEC_FULL.md's DOMAIN STACK
// section). It exists to give github.com/llir/llvm, the teacher's
// dominant dependency, a home in Ivy.
//
// Grounded directly on the teacher's codegen.go/builtins.go/
// tawa_types.go: a ctx-style scope of named IR values (here keyed by
// the already-resolved *scope.VarSymbol/*scope.FnSymbol pointers
// instead of looked up by name at every reference, since the analyzer
// has already done that resolution), If lowered to then/else/merge
// blocks (no phi node: If is a statement and yields no value), and
// print backed by an external printf declaration in the module where
// the teacher's addPrint defines its own. Unlike the teacher,
// which represents every value as an LLVM SSA value directly, mutable
// locals here always go through an alloca/load/store triple (the
// teacher's own LLVMMutableValue case), since Ivy's Declaration and
// Assignment are always reassignable.
package llvmgen

import (
	"fmt"
	"math/big"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/scope"
	"github.com/ivylang/ivy/internal/types"
)

// llvmType maps a predefined Ivy type to the LLVM type the teacher's
// tawa_types.go would assign it.
func llvmType(t *types.Type) irtypes.Type {
	switch t {
	case types.Integer:
		return irtypes.I64
	case types.Decimal:
		return irtypes.Double
	case types.Boolean:
		return irtypes.I1
	case types.Character:
		return irtypes.I8
	case types.Nil:
		return irtypes.Void
	default:
		// String and the iterable types have no fixed-width scalar
		// representation; they are passed as opaque pointers.
		return irtypes.NewPointer(irtypes.I8)
	}
}

type generator struct {
	module  *ir.Module
	printf  *ir.Func
	allocas map[*scope.VarSymbol]value.Value
	funcs   map[*scope.FnSymbol]*ir.Func
}

// Generate lowers src to an LLVM IR module.
func Generate(src *ast.Source) (m *ir.Module, err error) {
	g := &generator{
		module:  ir.NewModule(),
		allocas: make(map[*scope.VarSymbol]value.Value),
		funcs:   make(map[*scope.FnSymbol]*ir.Func),
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				m, err = nil, e
				return
			}
			m, err = nil, fmt.Errorf("%v", r)
		}
	}()

	g.declareBuiltins()
	g.declareGlobals(src)
	for _, meth := range src.Methods {
		g.declareFunc(meth)
	}
	for _, meth := range src.Methods {
		g.defineFunc(meth)
	}
	return g.module, nil
}

// declareBuiltins declares an external C `printf`, the same role the
// teacher's addPrint plays for its own, String-only print builtin;
// here it backs every resolved-type print call.
func (g *generator) declareBuiltins() {
	printf := g.module.NewFunc("printf", irtypes.I32, ir.NewParam("fmt", irtypes.NewPointer(irtypes.I8)))
	printf.Sig.Variadic = true
	g.printf = printf
}

func (g *generator) declareGlobals(src *ast.Source) {
	for _, f := range src.Fields {
		zero := zeroConstant(f.Variable.Type)
		g.module.NewGlobalDef(f.Name, zero)
	}
}

func (g *generator) declareFunc(m *ast.Method) {
	params := make([]*ir.Param, len(m.Parameters))
	for i, name := range m.Parameters {
		params[i] = ir.NewParam(name, llvmType(m.Function.ParameterTypes[i]))
	}
	fn := g.module.NewFunc(m.Name, llvmType(m.Function.ReturnType), params...)
	g.funcs[m.Function] = fn
}

func zeroConstant(t *types.Type) constant.Constant {
	switch t {
	case types.Integer:
		return constant.NewInt(irtypes.I64, 0)
	case types.Decimal:
		return constant.NewFloat(irtypes.Double, 0)
	case types.Boolean:
		return constant.NewBool(false)
	case types.Character:
		return constant.NewInt(irtypes.I8, 0)
	default:
		return constant.NewNull(irtypes.NewPointer(irtypes.I8))
	}
}

// funcCtx carries the per-function state a single defineFunc call
// needs: the current block being appended to and the function it
// belongs to, so nested blocks (If/While/For) can allocate new ones.
type funcCtx struct {
	fn    *ir.Func
	block *ir.Block
}

func (g *generator) defineFunc(m *ast.Method) {
	fn := g.funcs[m.Function]
	entry := fn.NewBlock("entry")
	fc := &funcCtx{fn: fn, block: entry}

	for i := range m.Parameters {
		pty := llvmType(m.Function.ParameterTypes[i])
		alloca := fc.block.NewAlloca(pty)
		fc.block.NewStore(fn.Params[i], alloca)
		g.allocas[m.ParamSymbols[i]] = alloca
	}

	terminated := g.genStmts(fc, m.Body)
	if !terminated {
		if m.Function.ReturnType == types.Nil {
			fc.block.NewRet(nil)
		} else {
			fc.block.NewRet(zeroConstant(m.Function.ReturnType))
		}
	}
}

// genStmts lowers a statement list into fc's current (and any nested)
// blocks, returning true if the block it leaves fc pointed at already
// ends in a terminator (a RETURN was lowered).
func (g *generator) genStmts(fc *funcCtx, stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if g.genStmt(fc, s) {
			return true
		}
	}
	return false
}

func (g *generator) genStmt(fc *funcCtx, s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.Expression:
		g.genExpr(fc, st.Inner)
		return false

	case *ast.Declaration:
		ty := llvmType(st.Variable.Type)
		alloca := fc.block.NewAlloca(ty)
		g.allocas[st.Variable] = alloca
		if st.Value != nil {
			fc.block.NewStore(g.genExpr(fc, st.Value), alloca)
		} else {
			fc.block.NewStore(zeroConstant(st.Variable.Type), alloca)
		}
		return false

	case *ast.Assignment:
		access := st.Receiver.(*ast.Access)
		alloca, ok := g.allocas[access.Variable]
		if !ok {
			panic(fmt.Errorf("llvmgen: %q has no allocated storage", access.Name))
		}
		fc.block.NewStore(g.genExpr(fc, st.Value), alloca)
		return false

	case *ast.If:
		cond := g.genExpr(fc, st.Condition)
		thenBlock := fc.fn.NewBlock("if.then")
		elseBlock := fc.fn.NewBlock("if.else")
		mergeBlock := fc.fn.NewBlock("if.end")

		fc.block.NewCondBr(cond, thenBlock, elseBlock)

		thenFc := &funcCtx{fn: fc.fn, block: thenBlock}
		if !g.genStmts(thenFc, st.Then) {
			thenFc.block.NewBr(mergeBlock)
		}
		elseFc := &funcCtx{fn: fc.fn, block: elseBlock}
		if !g.genStmts(elseFc, st.Else) {
			elseFc.block.NewBr(mergeBlock)
		}

		fc.block = mergeBlock
		return false

	case *ast.While:
		condBlock := fc.fn.NewBlock("while.cond")
		bodyBlock := fc.fn.NewBlock("while.body")
		endBlock := fc.fn.NewBlock("while.end")

		fc.block.NewBr(condBlock)

		condFc := &funcCtx{fn: fc.fn, block: condBlock}
		cond := g.genExpr(condFc, st.Condition)
		condFc.block.NewCondBr(cond, bodyBlock, endBlock)

		bodyFc := &funcCtx{fn: fc.fn, block: bodyBlock}
		if !g.genStmts(bodyFc, st.Body) {
			bodyFc.block.NewBr(condBlock)
		}

		fc.block = endBlock
		return false

	case *ast.For:
		g.genForRange(fc, st)
		return false

	case *ast.Return:
		if st.Value == nil {
			fc.block.NewRet(nil)
		} else {
			fc.block.NewRet(g.genExpr(fc, st.Value))
		}
		return true

	default:
		panic(fmt.Errorf("llvmgen: unhandled statement type %T", s))
	}
}

// genForRange lowers `FOR name IN range(lo, hi) DO ... END`, the only
// iterable shape this backend understands, into an i64 counting loop.
// Any other iterable expression is a build-time error for this
// backend specifically (the interpreter and translator still handle
// it generally).
func (g *generator) genForRange(fc *funcCtx, st *ast.For) {
	call, ok := st.Iterable.(*ast.Function)
	if !ok || call.Fn == nil || call.Fn.SurfaceName != "range" {
		panic(fmt.Errorf("llvmgen: FOR only lowers a direct range(lo, hi) call, got %T", st.Iterable))
	}
	lo := g.genExpr(fc, call.Arguments[0])
	hi := g.genExpr(fc, call.Arguments[1])

	alloca := fc.block.NewAlloca(irtypes.I64)
	fc.block.NewStore(lo, alloca)
	g.allocas[st.Variable] = alloca

	condBlock := fc.fn.NewBlock("for.cond")
	bodyBlock := fc.fn.NewBlock("for.body")
	endBlock := fc.fn.NewBlock("for.end")

	fc.block.NewBr(condBlock)

	condFc := &funcCtx{fn: fc.fn, block: condBlock}
	cur := condFc.block.NewLoad(irtypes.I64, alloca)
	cmp := condFc.block.NewICmp(enum.IPredSLT, cur, hi)
	condFc.block.NewCondBr(cmp, bodyBlock, endBlock)

	bodyFc := &funcCtx{fn: fc.fn, block: bodyBlock}
	if !g.genStmts(bodyFc, st.Body) {
		next := bodyFc.block.NewLoad(irtypes.I64, alloca)
		incremented := bodyFc.block.NewAdd(next, constant.NewInt(irtypes.I64, 1))
		bodyFc.block.NewStore(incremented, alloca)
		bodyFc.block.NewBr(condBlock)
	}

	fc.block = endBlock
}

func (g *generator) genExpr(fc *funcCtx, e ast.Expr) value.Value {
	switch ex := e.(type) {
	case *ast.Literal:
		return g.genLiteral(ex)

	case *ast.Group:
		return g.genExpr(fc, ex.Inner)

	case *ast.Binary:
		return g.genBinary(fc, ex)

	case *ast.Access:
		if ex.Variable == nil {
			panic(fmt.Errorf("llvmgen: unresolved access %q", ex.Name))
		}
		alloca, ok := g.allocas[ex.Variable]
		if !ok {
			panic(fmt.Errorf("llvmgen: %q has no allocated storage", ex.Name))
		}
		return fc.block.NewLoad(llvmType(ex.Variable.Type), alloca)

	case *ast.Function:
		return g.genCall(fc, ex)

	default:
		panic(fmt.Errorf("llvmgen: unhandled expression type %T", e))
	}
}

func (g *generator) genLiteral(l *ast.Literal) value.Value {
	switch v := l.Value.(type) {
	case bool:
		return constant.NewBool(v)
	case byte:
		return constant.NewInt(irtypes.I8, int64(v))
	case *big.Int:
		return constant.NewInt(irtypes.I64, v.Int64())
	case *big.Float:
		f, _ := v.Float64()
		return constant.NewFloat(irtypes.Double, f)
	default:
		panic(fmt.Errorf("llvmgen: literal of type %T has no LLVM constant form", v))
	}
}

func (g *generator) genBinary(fc *funcCtx, b *ast.Binary) value.Value {
	left := g.genExpr(fc, b.Left)
	right := g.genExpr(fc, b.Right)

	_, leftIsFloat := left.Type().(*irtypes.FloatType)

	switch b.Op {
	case "+":
		if leftIsFloat {
			return fc.block.NewFAdd(left, right)
		}
		return fc.block.NewAdd(left, right)
	case "-":
		if leftIsFloat {
			return fc.block.NewFSub(left, right)
		}
		return fc.block.NewSub(left, right)
	case "*":
		if leftIsFloat {
			return fc.block.NewFMul(left, right)
		}
		return fc.block.NewMul(left, right)
	case "/":
		if leftIsFloat {
			return fc.block.NewFDiv(left, right)
		}
		return fc.block.NewSDiv(left, right)
	case "AND":
		return fc.block.NewAnd(left, right)
	case "OR":
		return fc.block.NewOr(left, right)
	case "<", "<=", ">", ">=", "==", "!=":
		return g.genComparison(fc, b.Op, left, right, leftIsFloat)
	default:
		panic(fmt.Errorf("llvmgen: unhandled operator %q", b.Op))
	}
}

var intPredicates = map[string]enum.IPred{
	"<":  enum.IPredSLT,
	"<=": enum.IPredSLE,
	">":  enum.IPredSGT,
	">=": enum.IPredSGE,
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
}

var floatPredicates = map[string]enum.FPred{
	"<":  enum.FPredOLT,
	"<=": enum.FPredOLE,
	">":  enum.FPredOGT,
	">=": enum.FPredOGE,
	"==": enum.FPredOEQ,
	"!=": enum.FPredONE,
}

func (g *generator) genComparison(fc *funcCtx, op string, left, right value.Value, isFloat bool) value.Value {
	if isFloat {
		return fc.block.NewFCmp(floatPredicates[op], left, right)
	}
	return fc.block.NewICmp(intPredicates[op], left, right)
}

func (g *generator) genCall(fc *funcCtx, call *ast.Function) value.Value {
	if call.Fn != nil && call.Fn.SurfaceName == "print" {
		arg := g.genExpr(fc, call.Arguments[0])
		return g.genPrintCall(fc, call.Arguments[0], arg)
	}

	fn, ok := g.funcs[call.Fn]
	if !ok {
		panic(fmt.Errorf("llvmgen: %q has no LLVM function (only direct, non-receiver calls lower)", call.Name))
	}
	args := make([]value.Value, len(call.Arguments))
	for i, a := range call.Arguments {
		args[i] = g.genExpr(fc, a)
	}
	return fc.block.NewCall(fn, args...)
}

// genPrintCall formats arg via printf, choosing the format string from
// the static type the analyzer already assigned its argument.
func (g *generator) genPrintCall(fc *funcCtx, argExpr ast.Expr, arg value.Value) value.Value {
	format := "%lld\n"
	switch argExpr.ResolvedType() {
	case types.Decimal:
		format = "%f\n"
	case types.Boolean:
		format = "%d\n"
	case types.Character:
		format = "%c\n"
	case types.String:
		format = "%s\n"
	}
	fmtGlobal := g.module.NewGlobalDef(fmt.Sprintf("_fmt_%d", len(g.module.Globals)), constant.NewCharArrayFromString(format+"\x00"))
	fmtPtr := fc.block.NewBitCast(fmtGlobal, irtypes.NewPointer(irtypes.I8))
	return fc.block.NewCall(g.printf, fmtPtr, arg)
}
