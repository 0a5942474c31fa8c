package lex

import (
	"io"

	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/types"
)

// immediateTokenStream holds the complete result of a lex run: every token
// that ImmediatelyLex scanned before returning.
type immediateTokenStream struct {
	tokens []types.Token
	cur    int
}

// ImmediatelyLex drains the entire input and returns the resulting stream,
// or the first lexical error found. Unlike LazyLex, a lexical error stops
// the whole scan rather than being handed to the stream's consumer as an
// error-class token.
func (lx *lexerTemplate) ImmediatelyLex(input io.Reader) (types.TokenStream, error) {
	lazyCore, err := lx.LazyLex(input)
	if err != nil {
		return nil, err
	}

	var lexedTokens []types.Token

	for lazyCore.HasNext() {
		tok := lazyCore.Next()

		if tok.Class().ID() == types.TokenError.ID() {
			return nil, icterrors.LexicalError(tok.Lexeme(), tok.Line(), tok.LinePos())
		}

		lexedTokens = append(lexedTokens, tok)
	}

	return &immediateTokenStream{tokens: lexedTokens}, nil
}

// Next returns the next token in the stream and advances the stream by one
// token. If at the end of the stream, this returns a token whose Class() is
// types.TokenEndOfText.
func (lx *immediateTokenStream) Next() types.Token {
	if lx.cur >= len(lx.tokens) {
		return lexerToken{class: types.TokenEndOfText}
	}
	n := lx.tokens[lx.cur]
	lx.cur++
	return n
}

// Peek returns the next token in the stream without advancing the stream.
func (lx *immediateTokenStream) Peek() types.Token {
	if lx.cur >= len(lx.tokens) {
		return lexerToken{class: types.TokenEndOfText}
	}
	return lx.tokens[lx.cur]
}

// HasNext returns whether the stream has any additional tokens.
func (lx *immediateTokenStream) HasNext() bool {
	return lx.Remaining() > 0
}

// Remaining returns the number of tokens left to read.
func (lx *immediateTokenStream) Remaining() int {
	return len(lx.tokens) - lx.cur
}
