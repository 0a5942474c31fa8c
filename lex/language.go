package lex

import (
	"io"

	"github.com/dekarrin/llcore/types"
)

// Token class IDs for the teaching language's two catch-all lexical
// classes: every identifier lexeme becomes one "идентификатор" token,
// every numeric lexeme becomes one "число" token, matching the terminal
// names the grammar's external interface names them by.
const (
	ClassIdentifier = "идентификатор"
	ClassNumber     = "число"
)

var keywords = []string{
	"program", "var", "begin", "end", "read", "write",
	"if", "then", "else", "while", "do", "for", "to", "ass",
	"true", "false", "or", "and", "not",
}

var primitiveTypes = []string{"%", "!", "$"}

var singleCharDelims = []string{
	"(", ")", ",", ";", ":", "=", ".", "+", "-", "*", "/", "<", ">",
}

var multiCharDelims = []string{"<=", ">=", ":="}

const (
	stateStart   = "start"
	stateComment = "comment"
)

// NewLanguageLexer builds the lexer for the teaching language: keywords and
// primitive-type markers as literal terminals, identifiers and numbers as
// the two catch-all token classes, `{ ... }` comments elided entirely, and
// whitespace discarded. lazy selects whether the resulting Lexer's Lex
// scans on demand (LazyLex) or drains the whole input up front
// (ImmediatelyLex).
//
// Longest-match-wins, first-defined-breaks-ties resolves the one case where
// patterns can both match the same prefix: a keyword is also a valid
// identifier lexeme, so the keyword's literal pattern is registered before
// the general identifier pattern and is preferred whenever its exact text
// matches (both are equal length there, so registration order decides it).
func NewLanguageLexer(lazy bool) Lexer {
	lx := NewLexer(stateStart, lazy)

	lx.AddClass(NewTokenClass(ClassIdentifier, "identifier"), stateStart)
	lx.AddClass(NewTokenClass(ClassNumber, "number"), stateStart)

	for _, kw := range keywords {
		lx.AddClass(NewTokenClass(kw, kw), stateStart)
		mustAddPattern(lx, regexLiteral(kw)+`\b`, LexAs(kw), stateStart)
	}
	for _, pt := range primitiveTypes {
		lx.AddClass(NewTokenClass(pt, pt), stateStart)
		mustAddPattern(lx, regexLiteral(pt), LexAs(pt), stateStart)
	}
	for _, d := range multiCharDelims {
		lx.AddClass(NewTokenClass(d, d), stateStart)
		mustAddPattern(lx, regexLiteral(d), LexAs(d), stateStart)
	}
	for _, d := range singleCharDelims {
		lx.AddClass(NewTokenClass(d, d), stateStart)
		mustAddPattern(lx, regexLiteral(d), LexAs(d), stateStart)
	}

	mustAddPattern(lx, `[A-Za-z][A-Za-z0-9_]*`, LexAs(ClassIdentifier), stateStart)
	mustAddPattern(lx, `[0-9]+`, LexAs(ClassNumber), stateStart)

	mustAddPattern(lx, `\{`, SwapState(stateComment), stateStart)
	mustAddPattern(lx, `\s+`, Discard(), stateStart)

	mustAddPattern(lx, `[^}]`, Discard(), stateComment)
	mustAddPattern(lx, `\}`, SwapState(stateStart), stateComment)

	return lx
}

// mustAddPattern panics on a bad pattern; every call site here uses a
// pattern built from this file's own literal tables, so a failure means a
// coding mistake, not bad input.
func mustAddPattern(lx Lexer, pat string, act Action, state string) {
	if err := lx.AddPattern(pat, act, state); err != nil {
		panic(err)
	}
}

func regexLiteral(s string) string {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// Lex scans input with the teaching language's lexer immediately, returning
// the full token stream or the first lexical error found.
func Lex(input io.Reader) (types.TokenStream, error) {
	return NewLanguageLexer(false).Lex(input)
}

// LexLazy scans input with the teaching language's lexer on demand, one
// token per Next()/Peek() call.
func LexLazy(input io.Reader) (types.TokenStream, error) {
	return NewLanguageLexer(true).Lex(input)
}
