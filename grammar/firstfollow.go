package grammar

import "github.com/dekarrin/llcore/internal/util"

// FIRST returns FIRST(symbol): the set of terminals that begin some string
// derivable from symbol, plus ε if symbol derives ε (§4.3, GLOSSARY). symbol
// may be a terminal, a nonterminal, or the empty/undeclared symbol (which is
// vacuously treated as ε, matching FIRST of the empty sequence).
func (g Grammar) FIRST(symbol string) util.StringSet {
	if symbol == "" || symbol == epsilonSymbol {
		return util.StringSet{epsilonSymbol: true}
	}
	if g.IsTerminal(symbol) {
		return util.StringSet{symbol: true}
	}
	sets := g.firstSets()
	if s, ok := sets[symbol]; ok {
		return s.Copy()
	}
	return util.StringSet{}
}

// FIRSTSequence returns FIRST(α) for a sequence of symbols α, the empty
// sequence's FIRST being {ε} (§4.3 "FIRST of a sequence").
func (g Grammar) FIRSTSequence(seq Production) util.StringSet {
	return firstOfSequence(g, seq, g.firstSets())
}

// firstSets computes FIRST[A] for every nonterminal A by least fixed point
// (§4.3 "FIRST computation").
func (g Grammar) firstSets() map[string]util.StringSet {
	first := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		first[nt] = util.StringSet{}
	}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			for _, p := range r.Productions {
				seqFirst := firstOfSequence(g, p, first)
				for t := range seqFirst {
					if !first[r.NonTerminal].Has(t) {
						first[r.NonTerminal].Add(t)
						changed = true
					}
				}
			}
		}
	}

	return first
}

// firstOfSequence computes FIRST over a symbol sequence given a (possibly
// partially computed, during fixed-point iteration) map of nonterminal FIRST
// sets.
func firstOfSequence(g Grammar, seq Production, first map[string]util.StringSet) util.StringSet {
	if len(seq) == 0 || seq.IsEpsilon() {
		return util.StringSet{epsilonSymbol: true}
	}

	result := util.StringSet{}
	for _, sym := range seq {
		var symFirst util.StringSet
		switch {
		case sym == epsilonSymbol:
			symFirst = util.StringSet{epsilonSymbol: true}
		case g.IsTerminal(sym):
			symFirst = util.StringSet{sym: true}
		default:
			symFirst = first[sym]
		}

		hasEpsilon := symFirst.Has(epsilonSymbol)
		for t := range symFirst {
			if t != epsilonSymbol {
				result.Add(t)
			}
		}
		if !hasEpsilon {
			return result
		}
	}

	result.Add(epsilonSymbol)
	return result
}

// FOLLOW returns FOLLOW(symbol): the set of terminals that can immediately
// follow some occurrence of symbol in a sentential form, plus $ if symbol
// can be last before end-of-input (§4.3 "FOLLOW computation", GLOSSARY).
// Although §4.3's fixed point is defined only over nonterminals (FOLLOW
// feeds directly into table construction for nonterminal rows), FOLLOW is
// exposed here for any symbol -- including terminals -- for diagnostic use,
// by scanning every literal occurrence of symbol in a production body.
func (g Grammar) FOLLOW(symbol string) util.StringSet {
	follow := g.followSets()

	if g.IsNonTerminal(symbol) {
		return follow[symbol].Copy()
	}

	result := util.StringSet{}
	for _, r := range g.rules {
		for _, p := range r.Productions {
			for i, sym := range p {
				if sym != symbol {
					continue
				}
				beta := p[i+1:]
				firstBeta := g.FIRSTSequence(beta)
				for t := range firstBeta {
					if t != epsilonSymbol {
						result.Add(t)
					}
				}
				if len(beta) == 0 || firstBeta.Has(epsilonSymbol) {
					result.AddAll(follow[r.NonTerminal])
				}
			}
		}
	}
	return result
}

func (g Grammar) followSets() map[string]util.StringSet {
	follow := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		follow[nt] = util.StringSet{}
	}
	if g.start != "" && g.IsNonTerminal(g.start) {
		follow[g.start].Add(endOfInputSymbol)
	}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			for _, p := range r.Productions {
				for i, B := range p {
					if !g.IsNonTerminal(B) {
						continue
					}
					beta := p[i+1:]
					firstBeta := g.FIRSTSequence(beta)

					for t := range firstBeta {
						if t == epsilonSymbol {
							continue
						}
						if !follow[B].Has(t) {
							follow[B].Add(t)
							changed = true
						}
					}
					if len(beta) == 0 || firstBeta.Has(epsilonSymbol) {
						for t := range follow[r.NonTerminal] {
							if !follow[B].Has(t) {
								follow[B].Add(t)
								changed = true
							}
						}
					}
				}
			}
		}
	}

	return follow
}
