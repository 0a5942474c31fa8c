// Package parse implements the predictive (LL(1)) parser of §4.4: driving a
// token stream against a frozen grammar's parse table, one stack symbol at a
// time, producing both a parse tree and the leftmost derivation that built
// it.
package parse

import (
	"github.com/dekarrin/llcore/grammar"
	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/internal/util"
	"github.com/dekarrin/llcore/types"
)

// endOfInput is the parser's own terminator symbol, pushed under the start
// symbol at the bottom of the stack. It is never a declared grammar
// terminal; the Parser recognizes it by value, matching
// types.TokenEndOfText.ID() which a TokenStream yields once it is drained.
const endOfInput = "$"

// DerivationStep is one step of a leftmost derivation: the nonterminal that
// was expanded and the production chosen to expand it, in the order the
// parser applied them (§4.4, §6 "leftmost derivation").
type DerivationStep struct {
	NonTerminal string
	Production  grammar.Production
}

// Result is everything a successful parse produces.
type Result struct {
	// Tree is the root of the derivation tree.
	Tree types.ParseTree

	// Derivation is the ordered list of (nonterminal, production) expansion
	// steps applied to produce Tree, one entry per nonterminal popped off
	// the stack.
	Derivation []DerivationStep
}

// Parser is a predictive parser bound to one grammar and its precomputed
// LL(1) parse table. A Parser is safe to reuse across multiple calls to
// Parse; it does not mutate its grammar or table.
type Parser struct {
	table grammar.LL1Table
	g     grammar.Grammar
}

// New builds a Parser for g, computing its LL(1) parse table up front.
// Returns whatever error Grammar.LLParseTable returns if g is not LL(1) or
// otherwise malformed; g should already have been run through
// Grammar.Normalize.
func New(g grammar.Grammar) (Parser, error) {
	table, err := g.LLParseTable()
	if err != nil {
		return Parser{}, err
	}
	return Parser{table: table, g: g.Copy()}, nil
}

// Parse drives stream to completion against the table, per §4.4's
// state-machine description:
//
//   - stack top "$" and lookahead "$": accept.
//   - stack top "$" and lookahead not "$": TrailingInput.
//   - stack top a terminal and lookahead "$", or a terminal unequal to the
//     lookahead: TrailingInput / UnexpectedToken respectively.
//   - stack top a terminal equal to the lookahead: match, pop, advance.
//   - stack top a nonterminal: consult the table regardless of lookahead,
//     including "$" -- a nullable nonterminal's FOLLOW set can contain "$",
//     in which case the table cell holds its ε-production. No table cell
//     for the lookahead: NoProduction.
//   - stack top a nonterminal with a table cell: expand, push the
//     production's symbols in reverse, record the step.
//
// position in the returned errors counts tokens consumed so far, 0-indexed.
func (p Parser) Parse(stream types.TokenStream) (Result, error) {
	start := p.g.StartSymbol()

	symStack := util.Stack[string]{Of: []string{endOfInput, start}}

	root := &types.ParseTree{Value: start}
	nodeStack := util.Stack[*types.ParseTree]{Of: []*types.ParseTree{root}}

	var derivation []DerivationStep
	position := 0

	for {
		X := symStack.Peek()
		lookahead := stream.Peek().Class().ID()

		if X == endOfInput {
			if lookahead == endOfInput {
				return Result{Tree: *root, Derivation: derivation}, nil
			}
			return Result{}, icterrors.TrailingInput(position)
		}
		if p.g.IsTerminal(X) {
			if lookahead == endOfInput {
				return Result{}, icterrors.TrailingInput(position)
			}
			if X != lookahead {
				return Result{}, icterrors.UnexpectedToken(X, lookahead, position)
			}
			node := nodeStack.Pop()
			node.Terminal = true
			node.Source = stream.Next()
			symStack.Pop()
			position++
			continue
		}

		// X is a nonterminal: consult the table.
		prod := p.table.Get(X, lookahead)
		if prod.Equal(grammar.Error) {
			expected := util.OrderedKeys(p.table[X])
			return Result{}, icterrors.NoProduction(X, lookahead, expected, position)
		}

		symStack.Pop()
		node := nodeStack.Pop()
		derivation = append(derivation, DerivationStep{NonTerminal: X, Production: prod})

		if prod.IsEpsilon() {
			node.Children = []*types.ParseTree{{Value: grammar.Epsilon[0], Terminal: true}}
			continue
		}

		children := make([]*types.ParseTree, len(prod))
		for i, sym := range prod {
			children[i] = &types.ParseTree{Value: sym}
		}
		node.Children = children

		symStack.PushReverse([]string(prod))
		nodeStack.PushReverse(children)
	}
}
