// Package parser implements the recursive-descent grammar of spec
// §4.2 over a pre-lexed token stream, producing the untyped AST of
// spec §3.2. The first error terminates the parse; there is no error
// recovery, per spec §1's Non-goals.
//
// Grounded on the teacher's parser.go/lexer.go pairing: peek/match
// helpers that accept either a token kind or a literal string, and a
// require-or-panic helper for grammar productions that have no other
// valid continuation. Unlike the teacher, which lexes on demand from
// a live reader, this parser walks a token slice produced up front by
// internal/lexer, since spec §4.2 describes the parser as consuming
// "Tokens" rather than a character stream.
package parser

import (
	"fmt"
	"math/big"

	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/errs"
	"github.com/ivylang/ivy/internal/lexer"
	"github.com/ivylang/ivy/internal/token"
)

type Parser struct {
	tokens []token.Token
	pos    int
}

// Parse lexes source and parses it into the untyped AST, or returns
// the first lex or parse error encountered.
func Parse(source string) (src *ast.Source, err error) {
	tokens, lerr := lexer.Tokenize(source)
	if lerr != nil {
		return nil, lerr
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already-lexed token stream.
func ParseTokens(tokens []token.Token) (src *ast.Source, err error) {
	p := &Parser{tokens: tokens}

	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*errs.Parse)
			if !ok {
				panic(r)
			}
			src, err = nil, perr
		}
	}()

	return p.parseSource(), nil
}

func (p *Parser) current() (token.Token, bool) {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos], true
	}
	return token.Token{}, false
}

func (p *Parser) peekLiteral(lit string) bool {
	t, ok := p.current()
	return ok && t.Literal == lit
}

func (p *Parser) peekKind(k token.Kind) bool {
	t, ok := p.current()
	return ok && t.Kind == k
}

func (p *Parser) matchLiteral(lit string) (token.Token, bool) {
	if !p.peekLiteral(lit) {
		return token.Token{}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *Parser) matchKind(k token.Kind) (token.Token, bool) {
	if !p.peekKind(k) {
		return token.Token{}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *Parser) failIndex() int {
	if t, ok := p.current(); ok {
		return t.Index
	}
	if len(p.tokens) > 0 {
		last := p.tokens[len(p.tokens)-1]
		return last.Index + len(last.Literal)
	}
	return 0
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(&errs.Parse{Message: fmt.Sprintf(format, args...), Index: p.failIndex()})
}

func (p *Parser) requireLiteral(lit string) token.Token {
	t, ok := p.matchLiteral(lit)
	if !ok {
		p.fail("expected %q", lit)
	}
	return t
}

func (p *Parser) requireKind(k token.Kind) token.Token {
	t, ok := p.matchKind(k)
	if !ok {
		p.fail("expected %s", k)
	}
	return t
}

// optionalTypeAnnotation parses an optional ": IDENT" suffix, used by
// LET fields, LET declarations, DEF parameters, and DEF return types
// alike -- spec §9 requires it be accepted uniformly in every one of
// those positions.
func (p *Parser) optionalTypeAnnotation() string {
	if _, ok := p.matchLiteral(":"); ok {
		return p.requireKind(token.IDENTIFIER).Literal
	}
	return ""
}

func (p *Parser) parseSource() *ast.Source {
	src := &ast.Source{}

	for p.peekLiteral("LET") {
		src.Fields = append(src.Fields, p.parseField())
	}
	for p.peekLiteral("DEF") {
		src.Methods = append(src.Methods, p.parseMethod())
	}
	if _, ok := p.current(); ok {
		p.fail("unexpected token after methods")
	}
	return src
}

func (p *Parser) parseField() *ast.Field {
	p.requireLiteral("LET")
	name := p.requireKind(token.IDENTIFIER).Literal
	typeName := p.optionalTypeAnnotation()

	var value ast.Expr
	if _, ok := p.matchLiteral("="); ok {
		value = p.parseExpr()
	}
	p.requireLiteral(";")

	return &ast.Field{Name: name, TypeName: typeName, Value: value}
}

func (p *Parser) parseMethod() *ast.Method {
	p.requireLiteral("DEF")
	name := p.requireKind(token.IDENTIFIER).Literal
	p.requireLiteral("(")

	var params, paramTypes []string
	if !p.peekLiteral(")") {
		for {
			params = append(params, p.requireKind(token.IDENTIFIER).Literal)
			paramTypes = append(paramTypes, p.optionalTypeAnnotation())
			if _, ok := p.matchLiteral(","); ok {
				continue
			}
			break
		}
	}
	p.requireLiteral(")")

	returnTypeName := p.optionalTypeAnnotation()

	p.requireLiteral("DO")
	body := p.parseStmtsUntil("END")
	p.requireLiteral("END")

	return &ast.Method{
		Name:               name,
		Parameters:         params,
		ParameterTypeNames: paramTypes,
		ReturnTypeName:     returnTypeName,
		Body:               body,
	}
}

func (p *Parser) parseStmtsUntil(terminators ...string) []ast.Stmt {
	var stmts []ast.Stmt
	for {
		if _, ok := p.current(); !ok {
			p.fail("unexpected end of input, expected one of %v", terminators)
		}
		for _, term := range terminators {
			if p.peekLiteral(term) {
				return stmts
			}
		}
		stmts = append(stmts, p.parseStmt())
	}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.peekLiteral("LET"):
		return p.parseDeclaration()
	case p.peekLiteral("IF"):
		return p.parseIf()
	case p.peekLiteral("FOR"):
		return p.parseFor()
	case p.peekLiteral("WHILE"):
		return p.parseWhile()
	case p.peekLiteral("RETURN"):
		return p.parseReturn()
	default:
		return p.parseExprOrAssignment()
	}
}

func (p *Parser) parseDeclaration() ast.Stmt {
	p.requireLiteral("LET")
	name := p.requireKind(token.IDENTIFIER).Literal
	typeName := p.optionalTypeAnnotation()

	var value ast.Expr
	if _, ok := p.matchLiteral("="); ok {
		value = p.parseExpr()
	}
	p.requireLiteral(";")

	return &ast.Declaration{Name: name, TypeName: typeName, Value: value}
}

func (p *Parser) parseIf() ast.Stmt {
	p.requireLiteral("IF")
	cond := p.parseExpr()
	p.requireLiteral("DO")
	then := p.parseStmtsUntil("ELSE", "END")

	var els []ast.Stmt
	if _, ok := p.matchLiteral("ELSE"); ok {
		els = p.parseStmtsUntil("END")
	}
	p.requireLiteral("END")

	return &ast.If{Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseFor() ast.Stmt {
	p.requireLiteral("FOR")
	name := p.requireKind(token.IDENTIFIER).Literal
	p.requireLiteral("IN")
	iterable := p.parseExpr()
	p.requireLiteral("DO")
	body := p.parseStmtsUntil("END")
	p.requireLiteral("END")

	return &ast.For{Name: name, Iterable: iterable, Body: body}
}

func (p *Parser) parseWhile() ast.Stmt {
	p.requireLiteral("WHILE")
	cond := p.parseExpr()
	p.requireLiteral("DO")
	body := p.parseStmtsUntil("END")
	p.requireLiteral("END")

	return &ast.While{Condition: cond, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	p.requireLiteral("RETURN")
	value := p.parseExpr()
	p.requireLiteral(";")

	return &ast.Return{Value: value}
}

func (p *Parser) parseExprOrAssignment() ast.Stmt {
	expr := p.parseExpr()
	if _, ok := p.matchLiteral("="); ok {
		value := p.parseExpr()
		p.requireLiteral(";")
		return &ast.Assignment{Receiver: expr, Value: value}
	}
	p.requireLiteral(";")
	return &ast.Expression{Inner: expr}
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseLogical()
}

func (p *Parser) parseLogical() ast.Expr {
	left := p.parseComparison()
	for {
		op, ok := p.matchLiteral("AND")
		if !ok {
			op, ok = p.matchLiteral("OR")
		}
		if !ok {
			return left
		}
		right := p.parseComparison()
		left = &ast.Binary{Op: op.Literal, Left: left, Right: right}
	}
}

var comparisonOps = []string{"<=", ">=", "==", "!=", "<", ">"}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for {
		matched := false
		for _, op := range comparisonOps {
			if tok, ok := p.matchLiteral(op); ok {
				right := p.parseAdditive()
				left = &ast.Binary{Op: tok.Literal, Left: left, Right: right}
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		tok, ok := p.matchLiteral("+")
		if !ok {
			tok, ok = p.matchLiteral("-")
		}
		if !ok {
			return left
		}
		right := p.parseMultiplicative()
		left = &ast.Binary{Op: tok.Literal, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseSecondary()
	for {
		tok, ok := p.matchLiteral("*")
		if !ok {
			tok, ok = p.matchLiteral("/")
		}
		if !ok {
			return left
		}
		right := p.parseSecondary()
		left = &ast.Binary{Op: tok.Literal, Left: left, Right: right}
	}
}

func (p *Parser) parseSecondary() ast.Expr {
	left := p.parsePrimary()
	for {
		if _, ok := p.matchLiteral("."); !ok {
			return left
		}
		name := p.requireKind(token.IDENTIFIER).Literal
		if _, ok := p.matchLiteral("("); ok {
			args := p.parseArgsOpt()
			p.requireLiteral(")")
			left = &ast.Function{Receiver: left, Name: name, Arguments: args}
			continue
		}
		left = &ast.Access{Receiver: left, Name: name}
	}
}

func (p *Parser) parseArgsOpt() []ast.Expr {
	if p.peekLiteral(")") {
		return nil
	}
	args := []ast.Expr{p.parseExpr()}
	for {
		if _, ok := p.matchLiteral(","); !ok {
			return args
		}
		args = append(args, p.parseExpr())
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch {
	case p.matchKeyword("NIL"):
		return &ast.Literal{Value: nil}
	case p.matchKeyword("TRUE"):
		return &ast.Literal{Value: true}
	case p.matchKeyword("FALSE"):
		return &ast.Literal{Value: false}
	}

	if tok, ok := p.matchKind(token.INTEGER); ok {
		n, ok := new(big.Int).SetString(tok.Literal, 10)
		if !ok {
			p.fail("invalid integer literal %q", tok.Literal)
		}
		return &ast.Literal{Value: n}
	}
	if tok, ok := p.matchKind(token.DECIMAL); ok {
		d, _, err := big.ParseFloat(tok.Literal, 10, 53, big.ToNearestEven)
		if err != nil {
			p.fail("invalid decimal literal %q", tok.Literal)
		}
		return &ast.Literal{Value: d}
	}
	if tok, ok := p.matchKind(token.CHARACTER); ok {
		c, err := lexer.DecodeCharacter(tok.Literal)
		if err != nil {
			p.fail("%s", err)
		}
		return &ast.Literal{Value: c}
	}
	if tok, ok := p.matchKind(token.STRING); ok {
		s, err := lexer.DecodeString(tok.Literal)
		if err != nil {
			p.fail("%s", err)
		}
		return &ast.Literal{Value: s}
	}
	if _, ok := p.matchLiteral("("); ok {
		inner := p.parseExpr()
		p.requireLiteral(")")
		bin, ok := inner.(*ast.Binary)
		if !ok {
			p.fail("parenthesized expression must wrap a binary expression")
		}
		return &ast.Group{Inner: bin}
	}
	if tok, ok := p.matchKind(token.IDENTIFIER); ok {
		if _, ok := p.matchLiteral("("); ok {
			args := p.parseArgsOpt()
			p.requireLiteral(")")
			return &ast.Function{Name: tok.Literal, Arguments: args}
		}
		return &ast.Access{Name: tok.Literal}
	}

	p.fail("expected an expression")
	panic("unreachable")
}

// matchKeyword is sugar over matchLiteral used only where the literal
// is a reserved word rather than an operator, to keep parsePrimary's
// dispatch readable.
func (p *Parser) matchKeyword(word string) bool {
	_, ok := p.matchLiteral(word)
	return ok
}
