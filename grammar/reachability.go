package grammar

import "github.com/dekarrin/llcore/internal/util"

// ReachableSet computes R, the least fixed point of reachability from the
// start symbol (§4.2 stage 3): a nonterminal is reachable if it is the start
// symbol or appears in the body of a production of a reachable nonterminal.
func (g Grammar) ReachableSet() util.StringSet {
	reachable := util.StringSet{}
	if g.start == "" {
		return reachable
	}
	reachable.Add(g.start)

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if !reachable.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				for _, sym := range p {
					if g.IsNonTerminal(sym) && !reachable.Has(sym) {
						reachable.Add(sym)
						changed = true
					}
				}
			}
		}
	}

	return reachable
}

// RemoveUnreachable returns a copy of g retaining only nonterminals
// reachable from the start symbol, dropping any production that references
// a now-removed nonterminal (§4.2 stage 3). Establishes: every remaining
// symbol appears in some derivation from start.
func (g Grammar) RemoveUnreachable() Grammar {
	reachable := g.ReachableSet()

	out := Grammar{start: g.start, terminals: copyTerminals(g.terminals)}
	for _, r := range g.rules {
		if !reachable.Has(r.NonTerminal) {
			continue
		}
		out.SetProductions(r.NonTerminal, append([]Production(nil), r.Productions...))
	}
	out.RecomputeTerminals()
	return out
}
