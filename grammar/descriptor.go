package grammar

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dekarrin/llcore/types"
)

// Descriptor is the JSON grammar descriptor of §6: nonterminals and
// terminals as sets, a start symbol, and productions as a mapping from
// nonterminal name to an ordered list of alternatives, each alternative an
// ordered list of symbol strings ("" or an absent/empty list means ε).
//
// Descriptor is the wire format a caller of the HTTP API (or the CLI's
// --grammar flag) supplies; Grammar is the in-memory model everything else
// operates on. ToGrammar/FromGrammar cross that boundary.
type Descriptor struct {
	NonTerminals []string              `json:"nonterminals"`
	Terminals    []string              `json:"terminals"`
	StartSymbol  string                `json:"start_symbol"`
	Productions  map[string][][]string `json:"productions"`
}

// ParseDescriptor decodes a JSON grammar descriptor from data.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parse grammar descriptor: %w", err)
	}
	return d, nil
}

// ToGrammar builds a Grammar from d. Every symbol named in d.Terminals is
// declared via AddTerm with types.MakeDefaultClass(id) as its backing token
// class (the descriptor format carries only the terminal's name, not a
// richer class -- matching the lexer contract of §6, where a terminal id is
// also the lexical class id). Every nonterminal in d.NonTerminals is given
// its productions from d.Productions, in the order d.Productions lists
// them; a nonterminal named in d.NonTerminals with no entry in
// d.Productions ends up with an empty rule (Validate will reject it, same
// as building one by hand).
//
// ToGrammar does not itself validate the result; call Grammar.Validate (or
// Normalize, which calls it) on the return value.
func (d Descriptor) ToGrammar() Grammar {
	var g Grammar

	for _, id := range d.NonTerminals {
		// ensure declared even with no productions yet, so iteration order
		// follows the descriptor's own NonTerminals list rather than
		// Productions map iteration order (maps are unordered in Go and
		// Productions came from possibly non-deterministic JSON object key
		// order).
		g.SetProductions(id, nil)
	}
	for _, id := range d.Terminals {
		g.AddTerm(id, types.MakeDefaultClass(id))
	}

	for _, nt := range d.NonTerminals {
		alts := d.Productions[nt]
		prods := make([]Production, len(alts))
		for i, alt := range alts {
			if len(alt) == 0 {
				prods[i] = Epsilon
				continue
			}
			prods[i] = Production(alt)
		}
		g.SetProductions(nt, prods)
	}

	g.SetStart(d.StartSymbol)

	return g
}

// FromGrammar builds the Descriptor form of g, for serializing back out over
// the HTTP API or into a run's stored GrammarSource.
func FromGrammar(g Grammar) Descriptor {
	d := Descriptor{
		NonTerminals: g.NonTerminals(),
		Terminals:    g.Terminals(),
		StartSymbol:  g.StartSymbol(),
		Productions:  map[string][][]string{},
	}
	sort.Strings(d.Terminals)

	for _, nt := range d.NonTerminals {
		rule := g.Rule(nt)
		alts := make([][]string, len(rule.Productions))
		for i, p := range rule.Productions {
			if p.IsEpsilon() {
				alts[i] = []string{}
				continue
			}
			alts[i] = []string(p)
		}
		d.Productions[nt] = alts
	}

	return d
}
