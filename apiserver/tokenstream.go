package apiserver

import (
	"github.com/dekarrin/llcore/types"
)

// rawToken is the apiserver package's minimal types.Token implementation:
// a bare terminal symbol with none of the source-position bookkeeping a
// real scanner attaches, since the HTTP API's token stream (§6) is already
// a list of terminal names rather than source text to be lexed.
type rawToken struct {
	class types.TokenClass
	text  string
}

func (t rawToken) Class() types.TokenClass { return t.class }
func (t rawToken) Lexeme() string          { return t.text }
func (t rawToken) LinePos() int            { return 0 }
func (t rawToken) Line() int               { return 0 }
func (t rawToken) FullLine() string        { return t.text }
func (t rawToken) String() string          { return t.text }

// rawTokenStream adapts a []string of terminal symbol names into a
// types.TokenStream, grounded on lex/immediate.go's immediateTokenStream:
// a slice plus a cursor, yielding a types.TokenEndOfText token once
// drained.
type rawTokenStream struct {
	tokens []rawToken
	cur    int
}

// newRawTokenStream builds a TokenStream from a flat list of terminal
// symbol names, as accepted by POST /v1/grammars/{runID}/parse.
func newRawTokenStream(symbols []string) *rawTokenStream {
	tokens := make([]rawToken, len(symbols))
	for i, s := range symbols {
		tokens[i] = rawToken{class: types.MakeDefaultClass(s), text: s}
	}
	return &rawTokenStream{tokens: tokens}
}

func (s *rawTokenStream) Next() types.Token {
	if s.cur >= len(s.tokens) {
		return rawToken{class: types.TokenEndOfText}
	}
	t := s.tokens[s.cur]
	s.cur++
	return t
}

func (s *rawTokenStream) Peek() types.Token {
	if s.cur >= len(s.tokens) {
		return rawToken{class: types.TokenEndOfText}
	}
	return s.tokens[s.cur]
}

func (s *rawTokenStream) HasNext() bool {
	return s.cur < len(s.tokens)
}
