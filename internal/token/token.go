// Package token defines the Lexer's output type: an immutable record
// of kind, literal text, and the 0-based byte offset of the token's
// first character. Grounded on the teacher's types.Token/Position,
// trimmed to the fields spec §3.1 actually requires.
package token

import "fmt"

// Kind classifies a Token. Keywords are not their own kind: they lex
// as IDENTIFIER and the parser recognizes them by literal text, per
// spec §4.2.
type Kind int

const (
	IDENTIFIER Kind = iota
	INTEGER
	DECIMAL
	CHARACTER
	STRING
	OPERATOR
)

var kindNames = map[Kind]string{
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	DECIMAL:    "DECIMAL",
	CHARACTER:  "CHARACTER",
	STRING:     "STRING",
	OPERATOR:   "OPERATOR",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is an immutable (kind, literal, index) record, per spec §3.1.
type Token struct {
	Kind    Kind
	Literal string
	Index   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Literal, t.Index)
}
