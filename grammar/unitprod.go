package grammar

// isChainProduction returns whether p is a chain rule body: a single
// nonterminal symbol (§4.2 stage 5, "a chain rule is A → B where B is a
// single nonterminal").
func (g Grammar) isChainProduction(p Production) bool {
	return len(p) == 1 && g.IsNonTerminal(p[0]) && p[0] != epsilonSymbol
}

// RemoveUnitProductions eliminates chain rules (§4.2 stage 5, named here
// after the classic "unit production" terminology used throughout the
// grounding literature). For each nonterminal A, its productions are
// replaced by A's own non-chain productions plus, recursively in place of
// every chain production A → B, B's resolved (chain-free) productions --
// the reflexive-transitive chain closure N_A of the specification, computed
// via in-place substitution rather than a two-phase set-then-collect so
// that result order matches the original left-to-right production order.
// Cycles in the chain graph (mutual A → B → A) are broken by refusing to
// re-descend into a nonterminal already being expanded on the current path;
// the already-collected contributions of that nonterminal still appear via
// its own non-chain productions.
func (g Grammar) RemoveUnitProductions() Grammar {
	out := Grammar{start: g.start, terminals: copyTerminals(g.terminals)}

	for _, r := range g.rules {
		resolved := g.resolveChain(r.NonTerminal, map[string]bool{r.NonTerminal: true})
		out.SetProductions(r.NonTerminal, resolved)
	}

	out.RecomputeTerminals()
	return out
}

func (g Grammar) resolveChain(nt string, visiting map[string]bool) []Production {
	var out []Production
	seen := map[string]bool{}

	add := func(p Production) {
		key := p.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	for _, p := range g.Rule(nt).Productions {
		if g.isChainProduction(p) {
			target := p[0]
			if visiting[target] {
				continue
			}
			nextVisiting := make(map[string]bool, len(visiting)+1)
			for k := range visiting {
				nextVisiting[k] = true
			}
			nextVisiting[target] = true

			for _, sub := range g.resolveChain(target, nextVisiting) {
				add(sub)
			}
			continue
		}
		add(p)
	}

	return out
}
