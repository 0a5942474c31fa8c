package grammar

import "github.com/dekarrin/llcore/icterrors"

// beginsWith returns every nonterminal that nt can derive at the leftmost
// position in one production step: B such that some production of nt is
// B α (B a nonterminal).
func (g Grammar) beginsWith(nt string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range g.Rule(nt).Productions {
		if p.IsEpsilon() || len(p) == 0 {
			continue
		}
		first := p[0]
		if g.IsNonTerminal(first) && !seen[first] {
			seen[first] = true
			out = append(out, first)
		}
	}
	return out
}

// CheckLeftRecursionForm builds the "A begins with B" relation over every
// nonterminal and fails with icterrors.IndirectLeftRecursion if it contains
// a cycle spanning more than one nonterminal (§7, §9 "Indirect left
// recursion"). A self-loop (A begins with A, i.e. direct left recursion) is
// not reported here; RemoveLeftRecursion handles it.
func (g Grammar) CheckLeftRecursionForm() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var path []string

	var visit func(nt string) error
	visit = func(nt string) error {
		color[nt] = gray
		path = append(path, nt)

		for _, next := range g.beginsWith(nt) {
			if next == nt {
				continue // direct left recursion, out of scope for this check
			}
			switch color[next] {
			case white:
				if err := visit(next); err != nil {
					return err
				}
			case gray:
				// found a cycle back to `next`; extract it from path.
				cycle := cycleFrom(path, next)
				if len(cycle) > 1 {
					return icterrors.IndirectLeftRecursion(cycle)
				}
			}
		}

		path = path[:len(path)-1]
		color[nt] = black
		return nil
	}

	for _, nt := range g.NonTerminals() {
		if color[nt] == white {
			if err := visit(nt); err != nil {
				return err
			}
		}
	}
	return nil
}

func cycleFrom(path []string, start string) []string {
	for i, v := range path {
		if v == start {
			return append(append([]string{}, path[i:]...), start)
		}
	}
	return []string{start}
}

// RemoveLeftRecursion eliminates immediate (direct) left recursion (§4.2
// stage 7). For each nonterminal A, productions are partitioned into
// recursive (A → A α) and non-recursive (A → β, β not starting with A). If A
// has no recursive productions, it is left unchanged. If it does and also
// has at least one non-recursive production, the classic rewrite applies: a
// fresh A′ is introduced, A → β A′ for each non-recursive β, and
// A′ → α A′ | ε for each recursive α. If A has ONLY recursive productions
// (no non-recursive base case -- a form that stage 4.2 non-generating
// elimination would already have removed in a full pipeline run, but which
// this method tolerates when invoked standalone), the rewrite folds directly
// into A itself as A → α A | ε without minting a new nonterminal, since
// there is no β to pair a fresh A′ with.
//
// Indirect left recursion is out of scope; callers MUST run
// CheckLeftRecursionForm first in a full pipeline (Normalize does this).
func (g Grammar) RemoveLeftRecursion() Grammar {
	out := g.Copy()

	for _, nt := range g.NonTerminals() {
		prods := out.Rule(nt).Productions

		var recursive, nonRecursive []Production
		for _, p := range prods {
			if len(p) > 0 && !p.IsEpsilon() && p[0] == nt {
				recursive = append(recursive, p)
			} else {
				nonRecursive = append(nonRecursive, p)
			}
		}

		if len(recursive) == 0 {
			continue
		}

		if len(nonRecursive) == 0 {
			var newA []Production
			for _, r := range recursive {
				alpha := r[1:]
				newA = append(newA, append(alpha.Copy(), nt))
			}
			newA = append(newA, Epsilon)
			out.SetProductions(nt, newA)
			continue
		}

		aPrime := freshName(out, nt)

		var newA []Production
		for _, beta := range nonRecursive {
			if beta.IsEpsilon() {
				newA = append(newA, Production{aPrime})
			} else {
				newA = append(newA, append(beta.Copy(), aPrime))
			}
		}
		out.SetProductions(nt, newA)

		var newAPrime []Production
		for _, r := range recursive {
			alpha := r[1:]
			newAPrime = append(newAPrime, append(alpha.Copy(), aPrime))
		}
		newAPrime = append(newAPrime, Epsilon)
		out.SetProductions(aPrime, newAPrime)
	}

	return out
}
