// Package lexer turns raw source text into an ordered sequence of
// tokens. Grounded on the teacher's lexer/lexer.go: an index/length
// cursor pair scanning the input with a peek-and-match API, panicking with a
// typed error on an invalid or missing character and recovering at
// the single entry point, Tokenize.
package lexer

import (
	"fmt"
	"regexp"

	"github.com/ivylang/ivy/internal/errs"
	"github.com/ivylang/ivy/internal/token"
)

var (
	reLetterUnderscore = regexp.MustCompile(`[A-Za-z_]`)
	reIdentRest        = regexp.MustCompile(`[A-Za-z0-9_-]`)
	reDigit            = regexp.MustCompile(`[0-9]`)
	reSign             = regexp.MustCompile(`[+-]`)
	reDot              = regexp.MustCompile(`\.`)
	reWhitespace       = regexp.MustCompile(`[ \x08\n\r\t]`)
	reQuote            = regexp.MustCompile(`'`)
	reDquote           = regexp.MustCompile(`"`)
	reBackslash        = regexp.MustCompile(`\\`)
	reEscapeFollower   = regexp.MustCompile(`[bnrt'"\\]`)
	reNewlineOrCR      = regexp.MustCompile(`[\n\r]`)
	reRelOpFirst       = regexp.MustCompile(`[<>!=]`)
	reEquals           = regexp.MustCompile(`=`)
	reAny              = regexp.MustCompile(`.`)
)

var escapeMap = map[byte]byte{
	'b':  '\b',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
}

// Lexer is a two-cursor scanner over a source string: index is the
// absolute position of the next unread character, length is the
// number of characters accumulated since the last token boundary.
// A pending token always spans source[index-length : index].
type Lexer struct {
	source string
	index  int
	length int
}

// New returns a Lexer over source. source is treated as a raw,
// byte-addressable string per spec §6; no normalization is applied.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

func (l *Lexer) has(offset int) bool {
	return l.index+offset < len(l.source)
}

func (l *Lexer) byteAt(offset int) byte {
	return l.source[l.index+offset]
}

// peek reports whether the characters starting at index match
// patterns in order, without consuming them.
func (l *Lexer) peek(patterns ...*regexp.Regexp) bool {
	for i, p := range patterns {
		if !l.has(i) {
			return false
		}
		if !p.MatchString(string(l.byteAt(i))) {
			return false
		}
	}
	return true
}

// match peeks and, on success, advances index and length by
// len(patterns).
func (l *Lexer) match(patterns ...*regexp.Regexp) bool {
	if !l.peek(patterns...) {
		return false
	}
	l.index += len(patterns)
	l.length += len(patterns)
	return true
}

// skip drops the accumulated length, moving the token boundary up to
// the current index without emitting a token.
func (l *Lexer) skip() {
	l.length = 0
}

// emit produces a token spanning [index-length, index), then skips.
func (l *Lexer) emit(kind token.Kind) token.Token {
	start := l.index - l.length
	tok := token.Token{
		Kind:    kind,
		Literal: l.source[start:l.index],
		Index:   start,
	}
	l.skip()
	return tok
}

func (l *Lexer) fail(message string, index int) {
	panic(&errs.Lex{Message: message, Index: index})
}

// Tokenize consumes the whole source and returns its token sequence,
// or the first lex error encountered.
func Tokenize(source string) (tokens []token.Token, err error) {
	l := New(source)

	defer func() {
		if r := recover(); r != nil {
			lerr, ok := r.(*errs.Lex)
			if !ok {
				panic(r)
			}
			tokens, err = nil, lerr
		}
	}()

	for l.has(0) {
		if l.peek(reWhitespace) {
			l.match(reWhitespace)
			l.skip()
			continue
		}
		tokens = append(tokens, l.lexToken())
	}
	return tokens, nil
}

func (l *Lexer) lexToken() token.Token {
	switch {
	case l.peek(reLetterUnderscore):
		return l.lexIdentifier()
	case l.peek(reDigit):
		return l.lexNumber()
	case l.peek(reSign, reDigit):
		return l.lexNumber()
	case l.peek(reQuote):
		return l.lexCharacter()
	case l.peek(reDquote):
		return l.lexString()
	default:
		return l.lexOperator()
	}
}

func (l *Lexer) lexIdentifier() token.Token {
	l.match(reLetterUnderscore)
	for l.match(reIdentRest) {
	}
	return l.emit(token.IDENTIFIER)
}

func (l *Lexer) lexNumber() token.Token {
	l.match(reSign)
	l.match(reDigit)
	for l.match(reDigit) {
	}

	kind := token.INTEGER
	if l.peek(reDot, reDigit) {
		l.match(reDot)
		kind = token.DECIMAL
		for l.match(reDigit) {
		}
	}
	return l.emit(kind)
}

// lexCharacter consumes ' (escape | non-'/non-newline char) '.
func (l *Lexer) lexCharacter() token.Token {
	openAt := l.index
	l.match(reQuote)

	switch {
	case l.peek(reBackslash):
		l.match(reBackslash)
		followerAt := l.index
		if !l.peek(reEscapeFollower) {
			l.fail("invalid escape in character literal", followerAt)
		}
		l.match(reEscapeFollower)
	case l.peek(reQuote):
		l.fail("empty character literal", openAt)
	case l.peek(reNewlineOrCR):
		l.fail("unterminated character literal", openAt)
	case l.has(0):
		l.match(reAny)
	default:
		l.fail("unterminated character literal", openAt)
	}

	if !l.match(reQuote) {
		l.fail("unterminated or multi-character literal", openAt)
	}
	return l.emit(token.CHARACTER)
}

// lexString consumes " (escape | non-"/non-newline char)* ".
func (l *Lexer) lexString() token.Token {
	openAt := l.index
	l.match(reDquote)

	for {
		switch {
		case l.peek(reDquote):
			l.match(reDquote)
			return l.emit(token.STRING)
		case l.peek(reBackslash):
			l.match(reBackslash)
			followerAt := l.index
			if !l.peek(reEscapeFollower) {
				l.fail("invalid escape in string literal", followerAt)
			}
			l.match(reEscapeFollower)
		case l.peek(reNewlineOrCR):
			l.fail("unterminated string literal", openAt)
		case l.has(0):
			l.match(reAny)
		default:
			l.fail("unterminated string literal", openAt)
		}
	}
}

func (l *Lexer) lexOperator() token.Token {
	if l.peek(reRelOpFirst, reEquals) {
		l.match(reRelOpFirst, reEquals)
		return l.emit(token.OPERATOR)
	}
	if !l.has(0) {
		l.fail("unexpected end of input", l.index)
	}
	l.match(reAny)
	return l.emit(token.OPERATOR)
}

// DecodeCharacter strips the surrounding quotes from a CHARACTER
// token's literal and applies the escape mapping, per spec §4.2.
func DecodeCharacter(literal string) (byte, error) {
	body := literal[1 : len(literal)-1]
	if len(body) == 0 {
		return 0, fmt.Errorf("empty character literal")
	}
	if body[0] == '\\' {
		mapped, ok := escapeMap[body[1]]
		if !ok {
			return 0, fmt.Errorf("invalid escape \\%c", body[1])
		}
		return mapped, nil
	}
	return body[0], nil
}

// DecodeString strips the surrounding quotes from a STRING token's
// literal and applies the escape mapping over its whole body.
func DecodeString(literal string) (string, error) {
	body := literal[1 : len(literal)-1]
	var out []byte
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			if i >= len(body) {
				return "", fmt.Errorf("invalid escape at end of string")
			}
			mapped, ok := escapeMap[body[i]]
			if !ok {
				return "", fmt.Errorf("invalid escape \\%c", body[i])
			}
			out = append(out, mapped)
			continue
		}
		out = append(out, body[i])
	}
	return string(out), nil
}
