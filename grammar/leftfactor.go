package grammar

import "github.com/dekarrin/llcore/internal/util"

// LeftFactor repeatedly factors out the longest common prefix shared by a
// group of a nonterminal's productions (§4.2 stage 6), until no nonterminal
// has two productions sharing a non-empty leftmost prefix. Each step
// strictly reduces the number of (nonterminal, common-prefix-group) pairs,
// so the loop terminates.
func (g Grammar) LeftFactor() Grammar {
	out := g.Copy()

	for {
		nt, group, prefix, found := out.findFactorableGroup()
		if !found {
			break
		}
		out = out.factorGroup(nt, group, prefix)
	}

	return out
}

// factorableGroup names the productions of nt (by index into its current
// production list) that share leading symbol first.
type factorableGroup struct {
	indices []int
}

// findFactorableGroup scans nonterminals in declared order and, within each,
// first-symbol groups in order of first appearance, returning the first
// group of 2+ productions whose members share a non-empty common prefix.
func (g Grammar) findFactorableGroup() (nt string, indices []int, prefix Production, found bool) {
	for _, name := range g.NonTerminals() {
		prods := g.Rule(name).Productions

		var order []string
		byFirst := map[string][]int{}
		for i, p := range prods {
			if p.IsEpsilon() {
				continue
			}
			key := p[0]
			if _, ok := byFirst[key]; !ok {
				order = append(order, key)
			}
			byFirst[key] = append(byFirst[key], i)
		}

		for _, key := range order {
			idxs := byFirst[key]
			if len(idxs) < 2 {
				continue
			}
			lcp := prods[idxs[0]].Copy()
			for _, idx := range idxs[1:] {
				lcp = util.LongestCommonPrefix(lcp, prods[idx])
			}
			if len(lcp) == 0 {
				continue
			}
			return name, idxs, lcp, true
		}
	}
	return "", nil, nil, false
}

// factorGroup rewrites nt's productions: the first production at indices
// becomes prefix + freshNT, every other production at indices is dropped,
// and freshNT receives one production per group member's suffix (an empty
// suffix becomes an ε-production, appended last regardless of its position
// in the original group).
func (g Grammar) factorGroup(nt string, indices []int, prefix Production) Grammar {
	out := g.Copy()
	fresh := freshName(out, nt)

	inGroup := map[int]bool{}
	for _, i := range indices {
		inGroup[i] = true
	}
	firstIdx := indices[0]

	old := g.Rule(nt).Productions
	var newProds []Production
	for i, p := range old {
		if !inGroup[i] {
			newProds = append(newProds, p)
			continue
		}
		if i == firstIdx {
			factored := append(prefix.Copy(), fresh)
			newProds = append(newProds, factored)
		}
		// other group members are dropped; their suffixes go to fresh.
	}
	out.SetProductions(nt, newProds)

	var suffixProds []Production
	hasEpsilon := false
	for _, i := range indices {
		suffix := old[i][len(prefix):]
		if len(suffix) == 0 {
			hasEpsilon = true
			continue
		}
		suffixProds = append(suffixProds, Production(append([]string(nil), suffix...)))
	}
	if hasEpsilon {
		suffixProds = append(suffixProds, Epsilon)
	}
	out.SetProductions(fresh, suffixProds)

	return out
}
