package grammar

import "github.com/dekarrin/llcore/internal/util"

// NullableSet computes N, the set of nullable nonterminals, by least fixed
// point (§4.2 stage 4): A ∈ N if it has an ε-production, or some production
// whose body is entirely made up of symbols already in N.
func (g Grammar) NullableSet() util.StringSet {
	nullable := util.StringSet{}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if nullable.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				if p.IsEpsilon() {
					nullable.Add(r.NonTerminal)
					changed = true
					break
				}
				allNullable := true
				for _, sym := range p {
					if !nullable.Has(sym) {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable.Add(r.NonTerminal)
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

// RemoveEpsilons eliminates ε-productions (§4.2 stage 4). For every
// production A → X₁…Xₙ it emits every non-empty combination obtained by
// independently keeping or dropping each Xᵢ that is nullable, never emitting
// the empty combination. If start is nullable, start → ε is retained. Any
// nonterminal named in whitelist that is itself nullable also keeps its own
// ε-production explicitly -- the §9 "nullable-list preservation" relaxation
// for list-tail nonterminals, which the caller opts into per nonterminal
// rather than globally.
func (g Grammar) RemoveEpsilons(whitelist ...string) Grammar {
	nullable := g.NullableSet()
	whitelisted := util.StringSetOf(whitelist)

	out := Grammar{start: g.start, terminals: copyTerminals(g.terminals)}

	for _, r := range g.rules {
		var newProds []Production
		seen := map[string]bool{}

		add := func(p Production) {
			key := p.String()
			if seen[key] {
				return
			}
			seen[key] = true
			newProds = append(newProds, p)
		}

		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}
			for _, combo := range nonEmptyCombinations(p, nullable) {
				add(combo)
			}
		}

		if r.NonTerminal == g.start && nullable.Has(g.start) {
			add(Epsilon)
		} else if whitelisted.Has(r.NonTerminal) && nullable.Has(r.NonTerminal) {
			add(Epsilon)
		}

		out.SetProductions(r.NonTerminal, newProds)
	}

	out.RecomputeTerminals()
	return out
}

// nonEmptyCombinations returns, in the order described at §4.2 stage 4, every
// production obtained from p by independently keeping or dropping each
// nullable symbol, excluding the all-dropped (empty) combination. Symbols of
// p that are not nullable are always kept.
func nonEmptyCombinations(p Production, nullable util.StringSet) []Production {
	var nullablePositions []int
	for i, sym := range p {
		if nullable.Has(sym) {
			nullablePositions = append(nullablePositions, i)
		}
	}

	if len(nullablePositions) == 0 {
		return []Production{p.Copy()}
	}

	n := len(nullablePositions)
	total := 1 << n

	var out []Production
	for mask := 0; mask < total; mask++ {
		dropped := make(map[int]bool, n)
		for bit := 0; bit < n; bit++ {
			if mask&(1<<bit) != 0 {
				dropped[nullablePositions[bit]] = true
			}
		}

		var body Production
		for i, sym := range p {
			if dropped[i] {
				continue
			}
			body = append(body, sym)
		}
		if len(body) == 0 {
			continue // never emit ε here; start/whitelist retention handled by the caller
		}
		out = append(out, body)
	}

	return out
}
