package lex

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/llcore/types"
)

// lazyLex is an active lexing run over a single input; it scans exactly one
// token at a time, on demand, rather than draining the whole input up
// front.
type lazyLex struct {
	// buffered reader that can run regex and retrieve results
	r *regexReader

	// cur state
	state string

	// track these for placement in tokens, for later error reporting
	curLine     int
	curPos      int
	curFullLine string

	// set to true when the lazyLex has reached end of input, causing all
	// subsequent calls to Next() to return a Token with class
	// types.TokenEndOfText and all subsequent calls to HasNext() to return
	// false.
	done bool

	// panic mode is entered when no lexeme is found; the next call to
	// Next() will begin discarding characters until a valid one is found.
	panicMode bool

	// classes mapping
	classes map[string]map[string]types.TokenClass

	// split actions from regexes to match indexes to capturing groups
	actions map[string][]Action

	// one regex per state. each regex will be constructed by taking all
	// regex for a state and placing them in capturing groups separated by
	// alternation operators.
	patterns map[string]*regexp.Regexp
}

// LazyLex produces a token stream that scans from input one token at a
// time, on demand.
func (lx *lexerTemplate) LazyLex(input io.Reader) (types.TokenStream, error) {
	active := &lazyLex{
		r:        NewRegexReader(input),
		patterns: make(map[string]*regexp.Regexp),
		classes:  make(map[string]map[string]types.TokenClass),
		actions:  make(map[string][]Action),
		state:    lx.StartingState(),
	}

	// move all patterns into a "super pattern", one per state, and separate
	// the actions into their own data structure so match index maps
	// directly to action index.
	for k := range lx.patterns {
		statePats := lx.patterns[k]
		var superRegex strings.Builder
		superRegex.WriteString("^(?:")
		lazyActs := make([]Action, len(statePats))

		for i := range statePats {
			act := statePats[i].act
			src := statePats[i].src
			superRegex.WriteString("(" + src + ")")
			if i+1 < len(statePats) {
				superRegex.WriteRune('|')
			}
			lazyActs[i] = act
		}

		superRegex.WriteRune(')')

		compiled, err := regexp.Compile(superRegex.String())
		if err != nil {
			// should never happen; individual patterns were already
			// validated in AddPattern
			return nil, fmt.Errorf("composing token regexes: %w", err)
		}

		active.patterns[k] = compiled
		active.actions[k] = lazyActs
	}

	for k := range lx.classes {
		stateClasses := lx.classes[k]
		stateClassesCopy := make(map[string]types.TokenClass)

		for j := range stateClasses {
			stateClassesCopy[j] = stateClasses[j]
		}

		active.classes[k] = stateClassesCopy
	}

	active.curLine = 1
	active.curPos = 1

	return active, nil
}

// Next returns the next token in the stream and advances the stream by one
// token. If at the end of the stream, this returns a token whose Class() is
// types.TokenEndOfText. If scanning fails, it returns a token whose Class()
// is types.TokenError and whose lexeme explains the error.
func (lx *lazyLex) Next() types.Token {
	if lx.done {
		return lx.makeEOTToken()
	}

	pat := lx.patterns[lx.state]
	stateActions := lx.actions[lx.state]
	stateClasses := lx.classes[lx.state]

	var matches []string
	var readError error
	for {
		if lx.panicMode {
			for lx.panicMode {
				var ch rune
				ch, _, readError = lx.r.ReadRune()

				if readError != nil {
					return lx.tokenForIOError(readError)
				}

				if ch == '\n' {
					lx.curLine++
					lx.curPos = 0
					lx.curFullLine = ""
				}
				lx.curPos++
				lx.curFullLine += string(ch)

				matches, readError = lx.r.SearchAndAdvance(pat)
				if readError != nil {
					return lx.tokenForIOError(readError)
				}

				if len(matches) > 0 {
					lx.panicMode = false
				}
			}
		} else {
			matches, readError = lx.r.SearchAndAdvance(pat)
			if readError != nil {
				return lx.tokenForIOError(readError)
			}

			if len(matches) < 1 {
				lx.panicMode = true
				return lx.makeErrorTokenf("unknown input")
			}
		}

		actionIdx, lexeme := lx.selectMatch(matches)

		for _, ch := range lexeme {
			if ch == '\n' {
				lx.curLine++
				lx.curPos = 0
				lx.curFullLine = ""
			}
			lx.curPos++
			lx.curFullLine += string(ch)
		}

		action := stateActions[actionIdx]

		switch action.Type {
		case ActionNone:
			// discard the lexeme, keep lexing
		case ActionScan:
			class := stateClasses[action.ClassID]
			return lx.makeToken(class, lexeme)
		case ActionState:
			lx.state = action.State
			pat = lx.patterns[lx.state]
			stateActions = lx.actions[lx.state]
			stateClasses = lx.classes[lx.state]
		case ActionScanAndState:
			class := stateClasses[action.ClassID]
			tok := lx.makeToken(class, lexeme)

			lx.state = action.State
			pat = lx.patterns[lx.state]
			stateActions = lx.actions[lx.state]
			stateClasses = lx.classes[lx.state]

			return tok
		}
	}
}

// Peek returns the next token in the stream without advancing the stream.
func (lx *lazyLex) Peek() types.Token {
	lx.r.Mark("peek")
	oldState := lx.state
	oldFullLine := lx.curFullLine
	oldLine := lx.curLine
	oldPos := lx.curPos
	oldDone := lx.done
	oldPanic := lx.panicMode

	tok := lx.Next()

	lx.r.Restore("peek")
	lx.state = oldState
	lx.curFullLine = oldFullLine
	lx.curLine = oldLine
	lx.curPos = oldPos
	lx.done = oldDone
	lx.panicMode = oldPanic

	return tok
}

// HasNext returns whether the stream has any additional tokens.
func (lx *lazyLex) HasNext() bool {
	return !lx.done
}

func (lx *lazyLex) makeToken(class types.TokenClass, lexeme string) types.Token {
	return lexerToken{
		class:   class,
		line:    lx.curFullLine,
		linePos: lx.curPos,
		lineNum: lx.curLine,
		lexed:   lexeme,
	}
}

func (lx *lazyLex) makeEOTToken() types.Token {
	return lx.makeToken(types.TokenEndOfText, "")
}

func (lx *lazyLex) makeErrorTokenf(formatMsg string, args ...any) types.Token {
	msg := fmt.Sprintf(formatMsg, args...)
	return lx.makeToken(types.TokenError, msg)
}

// tokenForIOError takes an error returned from an I/O operation, sets state
// on lx accordingly, then returns a token appropriate for the error: one of
// class types.TokenEndOfText for io.EOF, or types.TokenError otherwise.
func (lx *lazyLex) tokenForIOError(err error) types.Token {
	lx.done = true

	if err == io.EOF {
		lx.panicMode = false
		return lx.makeEOTToken()
	}
	return lx.makeErrorTokenf("I/O error: %s", err.Error())
}

// selectMatch picks which sub-expression of a composed "super pattern"
// match actually matched, Flex-style: prefer the longest match, and among
// equal-length matches prefer the one defined earliest in the state's
// pattern list.
//
// Returns the index of the action associated with the match, and the
// matched text itself.
func (lx *lazyLex) selectMatch(candidates []string) (int, string) {
	subExprMatches := map[int]string{}
	for i := 1; i < len(candidates); i++ {
		if candidates[i] != "" {
			subExprMatches[i-1] = candidates[i]
		}
	}

	if len(subExprMatches) > 1 {
		var longest int
		for i := range subExprMatches {
			if n := utf8.RuneCountInString(subExprMatches[i]); n > longest {
				longest = n
			}
		}

		keep := map[int]string{}
		for i := range subExprMatches {
			if utf8.RuneCountInString(subExprMatches[i]) == longest {
				keep[i] = subExprMatches[i]
			}
		}
		subExprMatches = keep

		if len(subExprMatches) > 1 {
			lowestIndex := math.MaxInt
			for i := range subExprMatches {
				if i < lowestIndex {
					lowestIndex = i
				}
			}
			subExprMatches = map[int]string{lowestIndex: subExprMatches[lowestIndex]}
		}
	}

	var matchIndex int
	var matchText string
	for i := range subExprMatches {
		matchIndex = i
		matchText = subExprMatches[i]
		break
	}

	return matchIndex, matchText
}
