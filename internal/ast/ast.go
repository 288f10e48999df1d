// Package ast defines the untyped-then-typed tree described in spec
// §3.2: a closed set of tagged variants for the top level,
// statements, and expressions. Each statement and expression variant
// is a Go type with a marker method (isStmt/isExpr) rather than a dynamic
// visitor, per the redesign note in spec §9 ("Visitor dispatch"): the
// variant set is closed, so a single switch per phase replaces a
// generic visitor.
//
// Grounded on the teacher's ast.go (Expression/TopLevel/Type as
// marker interfaces implemented by is_X() methods on concrete
// structs). The Stmt interface and the isStmt/isExpr marker methods
// have the shape cmd/astgen emits from cmd/astgen/ast.schema, the same
// way the teacher's tool/main.go generates its sum types from a
// participle-parsed schema; the structs, their fields, and the Expr
// interface's type accessors are written by hand and are not produced
// by astgen.
package ast

import (
	"github.com/ivylang/ivy/internal/scope"
	"github.com/ivylang/ivy/internal/types"
)

// Source is the whole compilation unit: zero or more fields followed
// by zero or more methods.
type Source struct {
	Fields  []*Field
	Methods []*Method
}

// Field is a top-level `LET name[: Type][= value];` declaration.
// Variable is filled in by the analyzer.
type Field struct {
	Name     string
	TypeName string // "" if the annotation was omitted
	Value    Expr   // nil if the initializer was omitted
	Variable *scope.VarSymbol
}

// Method is a top-level `DEF name(params)[: Type] DO ... END`
// declaration. Function and ParamSymbols are filled in by the
// analyzer; ParamSymbols[i] is the exact *scope.VarSymbol every Access
// to Parameters[i] within Body resolves to, so a later pass (a
// backend) can bind a parameter's storage without re-deriving it from
// the body.
type Method struct {
	Name               string
	Parameters         []string
	ParameterTypeNames []string
	ReturnTypeName     string // "" if omitted
	Body               []Stmt
	Function           *scope.FnSymbol
	ParamSymbols       []*scope.VarSymbol
}

// Stmt is the closed set of statement variants.
type Stmt interface {
	isStmt()
}

// Expression is a statement that evaluates an expression and
// discards the result. Per spec §3.2's invariant, Inner must be a
// *Function; any other expression in statement position is a static
// error caught by the analyzer.
type Expression struct {
	Inner Expr
}

func (*Expression) isStmt() {}

// Declaration is a `LET name[: Type][= value];` statement. At least
// one of TypeName or Value must be present.
type Declaration struct {
	Name     string
	TypeName string
	Value    Expr
	Variable *scope.VarSymbol
}

func (*Declaration) isStmt() {}

// Assignment is a `receiver = value;` statement. Receiver must be an
// *Access.
type Assignment struct {
	Receiver Expr
	Value    Expr
}

func (*Assignment) isStmt() {}

// If is an `IF cond DO ... [ELSE ...] END` statement.
type If struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt
}

func (*If) isStmt() {}

// For is a `FOR name IN iterable DO ... END` statement. Variable is
// filled in by the analyzer.
type For struct {
	Name     string
	Iterable Expr
	Body     []Stmt
	Variable *scope.VarSymbol
}

func (*For) isStmt() {}

// While is a `WHILE cond DO ... END` statement.
type While struct {
	Condition Expr
	Body      []Stmt
}

func (*While) isStmt() {}

// Return is a `RETURN value;` statement.
type Return struct {
	Value Expr
}

func (*Return) isStmt() {}

// Expr is the closed set of expression variants. Every Expr carries
// its resolved Type once the analyzer has run; Type is nil on the
// untyped AST the parser produces.
type Expr interface {
	isExpr()
	ResolvedType() *types.Type
	setResolvedType(*types.Type)
}

// typed is embedded by every Expr variant to carry the analyzer's
// annotation without repeating the same two methods on each type.
type typed struct {
	Type *types.Type
}

func (t *typed) ResolvedType() *types.Type     { return t.Type }
func (t *typed) setResolvedType(ty *types.Type) { t.Type = ty }

// SetType is called by the analyzer to annotate e; it is the only
// mutation an Expr node ever receives after construction, per spec §9.
func SetType(e Expr, t *types.Type) { e.setResolvedType(t) }

// Literal is a constant value: nil, boolean, character (byte),
// string, *big.Int, or *big.Float, per spec §3.2.
type Literal struct {
	typed
	Value interface{}
}

func (*Literal) isExpr() {}

// Group wraps a Binary expression in parentheses.
type Group struct {
	typed
	Inner Expr
}

func (*Group) isExpr() {}

// Binary is a two-operand operator expression.
type Binary struct {
	typed
	Op    string
	Left  Expr
	Right Expr
}

func (*Binary) isExpr() {}

// Access reads a variable (Receiver == nil) or a field off Receiver.
type Access struct {
	typed
	Receiver Expr // nil for a bare name lookup
	Name     string
	Variable *scope.VarSymbol
}

func (*Access) isExpr() {}

// Function calls a top-level function (Receiver == nil) or a method
// on Receiver.
type Function struct {
	typed
	Receiver  Expr // nil for a bare call
	Name      string
	Arguments []Expr
	Fn        *scope.FnSymbol
}

func (*Function) isExpr() {}
