package grammar

import (
	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/internal/util"
)

// GeneratingSet computes the set of generating nonterminals by least fixed
// point (§4.2 stage 1): A is generating iff some production A → α exists
// with every symbol of α either a terminal or an already-generating
// nonterminal (the epsilon production vacuously qualifies, since it has no
// nonterminal symbols to fail the check).
func (g Grammar) GeneratingSet() util.StringSet {
	generating := util.StringSet{}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if generating.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				if g.bodyGenerates(p, generating) {
					generating.Add(r.NonTerminal)
					changed = true
					break
				}
			}
		}
	}

	return generating
}

func (g Grammar) bodyGenerates(p Production, generating util.StringSet) bool {
	if p.IsEpsilon() {
		return true
	}
	for _, sym := range p {
		if g.IsTerminal(sym) {
			continue
		}
		if generating.Has(sym) {
			continue
		}
		return false
	}
	return true
}

// CheckNonEmpty reports icterrors.EmptyLanguage if the start symbol is not
// generating, i.e. the grammar's language is empty (§4.2 stage 1, §8 S1).
func (g Grammar) CheckNonEmpty() error {
	generating := g.GeneratingSet()
	if !generating.Has(g.start) {
		return icterrors.EmptyLanguage(g.start)
	}
	return nil
}

// RemoveNonGenerating returns a copy of g retaining only generating
// nonterminals, with any production referencing a non-generating
// nonterminal dropped (§4.2 stage 2). Establishes: every remaining
// nonterminal derives some terminal string.
func (g Grammar) RemoveNonGenerating() Grammar {
	generating := g.GeneratingSet()

	out := Grammar{start: g.start, terminals: copyTerminals(g.terminals)}
	for _, r := range g.rules {
		if !generating.Has(r.NonTerminal) {
			continue
		}
		var kept []Production
		for _, p := range r.Productions {
			if bodyOnlyReferences(g, p, generating) {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			out.SetProductions(r.NonTerminal, kept)
		}
	}
	out.RecomputeTerminals()
	return out
}

// bodyOnlyReferences returns whether every nonterminal symbol in p is a
// member of keep (terminals and ε are always fine).
func bodyOnlyReferences(g Grammar, p Production, keep util.StringSet) bool {
	if p.IsEpsilon() {
		return true
	}
	for _, sym := range p {
		if g.IsTerminal(sym) {
			continue
		}
		if !keep.Has(sym) {
			return false
		}
	}
	return true
}
