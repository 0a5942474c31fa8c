// Package icterrors defines the error taxonomy of the normalization and
// parsing pipeline as typed, wrappable errors rather than ad-hoc strings, in
// the style of the interpreter-error pattern: each kind carries both a
// technical message (for logs) and the structured fields a caller needs to
// react programmatically.
package icterrors

import "fmt"

// Kind identifies which of the pipeline's named failure modes an error is.
type Kind string

const (
	KindEmptyLanguage       Kind = "empty_language"
	KindUndefinedSymbol     Kind = "undefined_symbol"
	KindStartSymbolMissing  Kind = "start_symbol_missing"
	KindIndirectLeftRec     Kind = "indirect_left_recursion"
	KindNotLL1              Kind = "not_ll1"
	KindUnexpectedToken     Kind = "unexpected_token"
	KindNoProduction        Kind = "no_production"
	KindTrailingInput       Kind = "trailing_input"
	KindLexicalError        Kind = "lexical_error"
)

// pipelineError is the concrete type behind every constructor in this
// package. Fields beyond msg/kind are carried as a generic bag so each kind
// can expose its own structured accessors without N near-identical structs.
type pipelineError struct {
	kind   Kind
	msg    string
	wrap   error
	fields map[string]any
}

func (e *pipelineError) Error() string { return e.msg }

func (e *pipelineError) Unwrap() error { return e.wrap }

// Is lets errors.Is(err, icterrors.KindX) work by comparing kinds; callers
// more often use KindOf below, but this keeps the stdlib errors idiom
// available too.
func (e *pipelineError) Is(target error) bool {
	other, ok := target.(*pipelineError)
	if !ok {
		return false
	}
	return e.kind == other.kind
}

// KindOf returns the Kind of err if it is (or wraps) one produced by this
// package, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	pe, ok := err.(*pipelineError)
	if !ok {
		return "", false
	}
	return pe.kind, true
}

// Field fetches a structured field off of err if it is one of this package's
// errors and the field was set; ok is false otherwise.
func Field(err error, name string) (any, bool) {
	pe, ok := err.(*pipelineError)
	if !ok {
		return nil, false
	}
	v, ok := pe.fields[name]
	return v, ok
}

// Fields returns every structured field attached to err, or nil if err is
// not one of this package's errors. Used by callers (such as apiserver) that
// need to forward the whole bag rather than one named field at a time.
func Fields(err error) map[string]any {
	pe, ok := err.(*pipelineError)
	if !ok {
		return nil
	}
	return pe.fields
}

// EmptyLanguage reports that stage 4.1 found the start symbol non-generating
// (§7, §8 S1).
func EmptyLanguage(start string) error {
	return &pipelineError{
		kind: KindEmptyLanguage,
		msg:  fmt.Sprintf("grammar generates the empty language: start symbol %q derives no terminal string", start),
	}
}

// UndefinedSymbol reports a production body referencing a symbol that is
// neither a declared terminal nor a declared nonterminal.
func UndefinedSymbol(nt, symbol string) error {
	return &pipelineError{
		kind:   KindUndefinedSymbol,
		msg:    fmt.Sprintf("production of %q references undefined symbol %q", nt, symbol),
		fields: map[string]any{"nonterminal": nt, "symbol": symbol},
	}
}

// StartSymbolMissing reports that the start symbol is not a declared
// nonterminal, or has no productions left after normalization.
func StartSymbolMissing(start string) error {
	return &pipelineError{
		kind:   KindStartSymbolMissing,
		msg:    fmt.Sprintf("start symbol %q is not a nonterminal with productions", start),
		fields: map[string]any{"start": start},
	}
}

// IndirectLeftRecursion reports a left-recursion cycle spanning more than one
// nonterminal, which stage 4.7 does not attempt to eliminate (§7, §9).
func IndirectLeftRecursion(cycle []string) error {
	return &pipelineError{
		kind:   KindIndirectLeftRec,
		msg:    fmt.Sprintf("grammar has indirect left recursion through %v; only direct left recursion is eliminated", cycle),
		fields: map[string]any{"cycle": cycle},
	}
}

// NotLL1 reports a table-construction collision: two productions of nt both
// claim cell [nt, lookahead].
func NotLL1(nt, lookahead string, prodA, prodB fmt.Stringer) error {
	return &pipelineError{
		kind: KindNotLL1,
		msg:  fmt.Sprintf("grammar is not LL(1): M[%s, %s] has two productions: %s and %s", nt, lookahead, prodA, prodB),
		fields: map[string]any{
			"nonterminal": nt,
			"lookahead":   lookahead,
			"prodA":       prodA,
			"prodB":       prodB,
		},
	}
}

// UnexpectedToken reports a terminal mismatch at the top of the parser
// stack: the stack expected a literal terminal but the input held another.
func UnexpectedToken(expected, got string, position int) error {
	return &pipelineError{
		kind: KindUnexpectedToken,
		msg:  fmt.Sprintf("unexpected token at position %d: expected %q, got %q", position, expected, got),
		fields: map[string]any{
			"expected": expected,
			"got":      got,
			"position": position,
		},
	}
}

// NoProduction reports a parse-table miss: no production exists for
// (nonterminal, lookahead).
func NoProduction(nonterminal, lookahead string, expectedSet []string, position int) error {
	return &pipelineError{
		kind: KindNoProduction,
		msg:  fmt.Sprintf("no production for %s on lookahead %q at position %d (expected one of %v)", nonterminal, lookahead, position, expectedSet),
		fields: map[string]any{
			"nonterminal": nonterminal,
			"lookahead":   lookahead,
			"expected_set": expectedSet,
			"position":    position,
		},
	}
}

// TrailingInput reports that the parser reached its accept configuration
// ($ on top of stack) while tokens remained, or exhausted input with
// non-$ symbols still on the stack.
func TrailingInput(position int) error {
	return &pipelineError{
		kind:   KindTrailingInput,
		msg:    fmt.Sprintf("trailing input at position %d", position),
		fields: map[string]any{"position": position},
	}
}

// LexicalError reports that the scanner could not match any pattern at the
// given source position (no token class in the active lexer state claims
// the text there).
func LexicalError(lexeme string, line, linePos int) error {
	return &pipelineError{
		kind: KindLexicalError,
		msg:  fmt.Sprintf("lexical error at %d:%d: %s", line, linePos, lexeme),
		fields: map[string]any{
			"lexeme":   lexeme,
			"line":     line,
			"line_pos": linePos,
		},
	}
}
