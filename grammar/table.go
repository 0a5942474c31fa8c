package grammar

import (
	"strings"

	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/internal/util"
)

// LL1Table is a predictive parsing table: cell [nt][lookahead] holds the
// production to select, or is absent if there is none (§4.3 "LL(1) parse
// table"). It is a plain map rather than a wrapping struct so that test
// fixtures and other hand-built tables can be constructed as map literals
// and compared directly.
type LL1Table map[string]map[string]Production

// Get returns the production selected for (nt, lookahead), or Error (a nil
// Production) if the cell is empty -- "no production" is a parse error, not
// a panic (§7 NoProduction).
func (t LL1Table) Get(nt, lookahead string) Production {
	row, ok := t[nt]
	if !ok {
		return Error
	}
	p, ok := row[lookahead]
	if !ok {
		return Error
	}
	return p
}

func (t LL1Table) set(nt, lookahead string, p Production) {
	if t[nt] == nil {
		t[nt] = map[string]Production{}
	}
	t[nt][lookahead] = p
}

// NonTerminals returns the table's row labels, sorted (§5 determinism).
func (t LL1Table) NonTerminals() []string {
	return util.OrderedKeys(t)
}

// Terminals returns every column label appearing in any row, sorted, "$"
// included when present.
func (t LL1Table) Terminals() []string {
	seen := util.StringSet{}
	for _, row := range t {
		for term := range row {
			seen.Add(term)
		}
	}
	return util.Alphabetized(seen)
}

// String renders the table as a tab-separated grid, one row per nonterminal,
// one column per terminal plus $.
func (t LL1Table) String() string {
	nts := t.NonTerminals()
	terms := t.Terminals()

	var sb strings.Builder
	sb.WriteString(strings.Join(append([]string{""}, terms...), "\t"))
	for _, nt := range nts {
		sb.WriteRune('\n')
		row := make([]string, 0, len(terms)+1)
		row = append(row, nt)
		for _, term := range terms {
			p := t.Get(nt, term)
			if p == nil {
				row = append(row, "-")
			} else {
				row = append(row, p.String())
			}
		}
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}

// IsLL1 reports whether LLParseTable would succeed.
func (g Grammar) IsLL1() bool {
	_, err := g.LLParseTable()
	return err == nil
}

// LLParseTable builds the LL(1) parse table of §4.3: for each nonterminal A
// and production A → α, add α to M[A, a] for every terminal a in FIRST(α);
// if ε ∈ FIRST(α), also add α to M[A, b] for every b in FOLLOW(A), including
// the end-of-input marker $. The first cell that would be written twice (two
// productions of the same nonterminal both claiming it) fails the whole call
// with icterrors.NotLL1 (§7).
func (g Grammar) LLParseTable() (LL1Table, error) {
	t, collisions := g.buildTable(CollisionAbort)
	if len(collisions) > 0 {
		return LL1Table{}, collisions[0]
	}
	return t, nil
}

// CollisionMode controls what buildTable does when two productions of the
// same nonterminal both claim a table cell.
type CollisionMode int

const (
	// CollisionAbort stops at the first collision found.
	CollisionAbort CollisionMode = iota

	// CollisionDiagnose keeps building past every collision (later
	// production wins the cell, deterministically by rule/production
	// order), returning all of them -- used by diagnostic tooling that wants
	// to report every conflict in one pass instead of fixing them one at a
	// time.
	CollisionDiagnose
)

// LLParseTableDiagnostic builds the table in CollisionDiagnose mode,
// returning the (possibly ambiguous) table alongside every collision found,
// for callers that want to report every conflict rather than stop at the
// first (the diagnostic API's table-conflict report).
func (g Grammar) LLParseTableDiagnostic() (LL1Table, []error) {
	return g.buildTable(CollisionDiagnose)
}

func (g Grammar) buildTable(mode CollisionMode) (LL1Table, []error) {
	t := LL1Table{}
	var collisions []error

	for _, r := range g.rules {
		follow := g.FOLLOW(r.NonTerminal)
		for _, p := range r.Productions {
			first := g.FIRSTSequence(p)

			place := func(term string) bool {
				existing := t.Get(r.NonTerminal, term)
				if existing != nil && !existing.Equal(p) {
					err := icterrors.NotLL1(r.NonTerminal, term, existing, p)
					collisions = append(collisions, err)
					if mode == CollisionAbort {
						return false
					}
				}
				t.set(r.NonTerminal, term, p)
				return true
			}

			for _, term := range util.Alphabetized(first) {
				if term == epsilonSymbol {
					continue
				}
				if !place(term) {
					return LL1Table{}, collisions
				}
			}
			if first.Has(epsilonSymbol) {
				for _, term := range util.Alphabetized(follow) {
					if !place(term) {
						return LL1Table{}, collisions
					}
				}
			}
		}
	}

	return t, collisions
}
