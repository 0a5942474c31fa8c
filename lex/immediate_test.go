package lex

import (
	"strings"
	"testing"

	"github.com/dekarrin/llcore/icterrors"
	"github.com/stretchr/testify/assert"
)

func Test_ImmediatelyLex_fullDrain(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer(stateStart, false)
	lx.AddClass(NewTokenClass("word", "WORD"), stateStart)
	lx.AddClass(NewTokenClass("num", "NUM"), stateStart)
	assert.NoError(lx.AddPattern(`[a-zA-Z]+`, LexAs("word"), stateStart))
	assert.NoError(lx.AddPattern(`[0-9]+`, LexAs("num"), stateStart))
	assert.NoError(lx.AddPattern(`\s+`, Discard(), stateStart))

	stream, err := lx.Lex(strings.NewReader("foo 12 bar"))
	if !assert.NoError(err) {
		return
	}

	var lexemes []string
	for stream.HasNext() {
		lexemes = append(lexemes, stream.Next().Lexeme())
	}
	assert.Equal([]string{"foo", "12", "bar"}, lexemes)
}

func Test_ImmediatelyLex_unknownInput_returnsLexicalError(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer(stateStart, false)
	lx.AddClass(NewTokenClass("word", "WORD"), stateStart)
	assert.NoError(lx.AddPattern(`[a-zA-Z]+`, LexAs("word"), stateStart))
	assert.NoError(lx.AddPattern(`\s+`, Discard(), stateStart))

	_, err := lx.Lex(strings.NewReader("ok #bad"))
	if !assert.Error(err) {
		return
	}
	kind, ok := icterrors.KindOf(err)
	assert.True(ok)
	assert.Equal(icterrors.KindLexicalError, kind)
}

func Test_ImmediatelyLex_peekPastEnd_returnsEndOfText(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer(stateStart, false)
	lx.AddClass(NewTokenClass("word", "WORD"), stateStart)
	assert.NoError(lx.AddPattern(`[a-zA-Z]+`, LexAs("word"), stateStart))
	assert.NoError(lx.AddPattern(`\s+`, Discard(), stateStart))

	stream, err := lx.Lex(strings.NewReader("only"))
	if !assert.NoError(err) {
		return
	}

	assert.True(stream.HasNext())
	tok := stream.Next()
	assert.Equal("word", tok.Class().ID())
	assert.False(stream.HasNext())

	// past the end, both Next and Peek synthesize an end-of-text token
	// rather than panicking.
	assert.NotPanics(func() {
		eot := stream.Peek()
		assert.Equal("$", eot.Class().ID())
		eot = stream.Next()
		assert.Equal("$", eot.Class().ID())
	})
}
