package lexer

import (
	"testing"

	"github.com/ivylang/ivy/internal/token"
)

func TestTokenizeKinds(t *testing.T) {
	tokens, err := Tokenize(`LET x: Integer = 1; DEF main ( ) : Integer DO RETURN x + 2 ; END`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatalf("expected tokens, got none")
	}
	if tokens[0].Kind != token.IDENTIFIER || tokens[0].Literal != "LET" {
		t.Fatalf("expected LET identifier, got %v", tokens[0])
	}
}

func TestTokenizeOperators(t *testing.T) {
	cases := []struct {
		source string
		want   []string
	}{
		{"<=", []string{"<="}},
		{"<<", []string{"<", "<"}},
		{"==", []string{"=="}},
		{"!=", []string{"!="}},
		{">=", []string{">="}},
	}
	for _, c := range cases {
		tokens, err := Tokenize(c.source)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.source, err)
		}
		if len(tokens) != len(c.want) {
			t.Fatalf("%s: expected %d tokens, got %d (%v)", c.source, len(c.want), len(tokens), tokens)
		}
		for i, lit := range c.want {
			if tokens[i].Literal != lit || tokens[i].Kind != token.OPERATOR {
				t.Fatalf("%s: token %d = %v, want OPERATOR %q", c.source, i, tokens[i], lit)
			}
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, err := Tokenize("1.0 1. .5 -2 +3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "1.0" -> DECIMAL; "1" OPERATOR "." (trailing dot not consumed,
	// not followed by a digit) then whitespace; ".5" is DOT then INT,
	// never a single DECIMAL token.
	if tokens[0].Kind != token.DECIMAL || tokens[0].Literal != "1.0" {
		t.Fatalf("expected DECIMAL 1.0, got %v", tokens[0])
	}
	if tokens[1].Kind != token.INTEGER || tokens[1].Literal != "1" {
		t.Fatalf("expected INTEGER 1, got %v", tokens[1])
	}
	if tokens[2].Kind != token.OPERATOR || tokens[2].Literal != "." {
		t.Fatalf("expected OPERATOR ., got %v", tokens[2])
	}
}

func TestTokenizeCharacters(t *testing.T) {
	valid := []string{`'a'`, `'\n'`, `'\\'`, `'\''`}
	for _, v := range valid {
		tokens, err := Tokenize(v)
		if err != nil || len(tokens) != 1 || tokens[0].Kind != token.CHARACTER {
			t.Fatalf("%s: expected single CHARACTER token, got %v err=%v", v, tokens, err)
		}
	}

	invalid := []string{`''`, `'ab'`, `'\x'`, `'a`}
	for _, v := range invalid {
		_, err := Tokenize(v)
		if err == nil {
			t.Fatalf("%s: expected error, got none", v)
		}
	}
}

func TestTokenizeStrings(t *testing.T) {
	valid := []string{`"abc"`, `""`, `"a\nb"`}
	for _, v := range valid {
		tokens, err := Tokenize(v)
		if err != nil || len(tokens) != 1 || tokens[0].Kind != token.STRING {
			t.Fatalf("%s: expected single STRING token, got %v err=%v", v, tokens, err)
		}
	}

	invalid := []string{"\"unterminated", `"bad\escape"`, "\"line\nbreak\""}
	for _, v := range invalid {
		_, err := Tokenize(v)
		if err == nil {
			t.Fatalf("%q: expected error, got none", v)
		}
	}
}

func TestDecodeCharacterAndString(t *testing.T) {
	if b, err := DecodeCharacter(`'\n'`); err != nil || b != '\n' {
		t.Fatalf("DecodeCharacter: got %v, %v", b, err)
	}
	if s, err := DecodeString(`"a\nb"`); err != nil || s != "a\nb" {
		t.Fatalf("DecodeString: got %q, %v", s, err)
	}
}
