package lex

import (
	"fmt"
	"io"
	"regexp"

	"github.com/dekarrin/llcore/types"
)

// patAct pairs a compiled pattern with the action to take when it matches,
// and keeps the original source string around for composing the per-state
// "super pattern" in LazyLex.
type patAct struct {
	src string
	pat *regexp.Regexp
	act Action
}

// Lexer builds up a state machine of regex patterns and actions, state by
// state, then produces a token stream from it. States let a single lexer
// switch pattern sets mid-input (entering and leaving a comment, for
// instance) without threading a sub-lexer through the caller.
type Lexer interface {
	// Lex returns a token stream over input, in either lazy or immediate
	// fashion depending on the implementation.
	Lex(input io.Reader) (types.TokenStream, error)

	// AddClass registers a token class as lexable while in forState.
	AddClass(cl types.TokenClass, forState string)

	// AddPattern registers pat (a regex) with the action to take on match,
	// while in forState. Patterns within a state are tried together and
	// resolved Flex-style: longest match wins, first-defined breaks ties.
	AddPattern(pat string, action Action, forState string) error
}

// lexerTemplate is the Lexer implementation: it only holds the
// pattern/action/class tables, not any per-run scan position, so the same
// template can be used to start any number of independent lexing runs.
type lexerTemplate struct {
	patterns map[string][]patAct
	classes  map[string]map[string]types.TokenClass

	startState string
	lazy       bool
}

// NewLexer creates an empty Lexer starting in startState. If lazy is true,
// Lex produces a stream that scans one token at a time on demand; otherwise
// Lex scans the entire input up front and returns the first lexical error
// encountered, if any.
func NewLexer(startState string, lazy bool) Lexer {
	return &lexerTemplate{
		patterns:   map[string][]patAct{},
		classes:    map[string]map[string]types.TokenClass{},
		startState: startState,
		lazy:       lazy,
	}
}

func (lx *lexerTemplate) StartingState() string {
	return lx.startState
}

// AddClass adds the given token class to the lexer. This will mark that
// token class as a lexable token class, and make it available for use in
// the Action of an AddPattern.
//
// If the given token class's ID() matches one already added for the state,
// the provided one replaces the existing one.
func (lx *lexerTemplate) AddClass(cl types.TokenClass, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

func (lx *lexerTemplate) AddPattern(pat string, action Action, forState string) error {
	statePatterns := lx.patterns[forState]
	stateClasses := lx.classes[forState]

	compiled, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("cannot compile regex: %w", err)
	}

	if action.Type == ActionScan || action.Type == ActionScanAndState {
		if _, ok := stateClasses[action.ClassID]; !ok {
			return fmt.Errorf("%q is not a defined token class on this lexer; add it with AddClass first", action.ClassID)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("action includes state shift but does not define state to shift to (cannot shift to empty state)")
		}
	}

	statePatterns = append(statePatterns, patAct{src: pat, pat: compiled, act: action})
	lx.patterns[forState] = statePatterns
	return nil
}

func (lx *lexerTemplate) Lex(input io.Reader) (types.TokenStream, error) {
	if lx.lazy {
		return lx.LazyLex(input)
	}
	return lx.ImmediatelyLex(input)
}
