// Package grammar implements the mutable context-free-grammar data model,
// the seven-stage normalization pipeline that rewrites an arbitrary CFG into
// one suitable for predictive top-down parsing, and the LL(1) table builder
// that turns a normalized grammar into a parse table.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/internal/util"
	"github.com/dekarrin/llcore/types"
)

// epsilonSymbol is the distinguished symbol denoting the empty string. It
// never appears in terminals or nonterminals sets; it is only a marker used
// within Production bodies and FIRST sets.
const epsilonSymbol = "ε"

// endOfInputSymbol is the distinguished end-of-input sentinel used only
// during LL(1) analysis; it never appears in productions.
const endOfInputSymbol = "$"

// Epsilon is the production body representing ε: a single element holding
// the epsilon symbol. It is distinct from Production{} (also length 0 in the
// "no body at all" sense is not used here -- an empty production IS the
// epsilon production, represented with exactly one symbol so that it prints
// and compares the same way non-epsilon productions do).
var Epsilon = Production{epsilonSymbol}

// Error is the zero-value sentinel Production returned by table lookups that
// miss, so callers can compare against it without an extra bool return in
// contexts (like the generated test fixtures) that expect a Production.
var Error = Production(nil)

// Production is an ordered sequence of symbols making up the right-hand side
// of a rule. The epsilon production is represented as Epsilon, a
// single-element slice holding epsilonSymbol, never as a nil or empty slice,
// so that every production has a non-empty String().
type Production []string

// Equal returns whether p and o name the same sequence of symbols.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// IsEpsilon returns whether p is the epsilon production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == epsilonSymbol
}

// String renders p as space-separated symbols, e.g. "A b C".
func (p Production) String() string {
	return strings.Join(p, " ")
}

// Copy returns a duplicate of p.
func (p Production) Copy() Production {
	cp := make(Production, len(p))
	copy(cp, p)
	return cp
}

// Rule is every production of a single nonterminal, in priority order
// (insertion order; only significant for deterministic output, §5).
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a duplicate of r.
func (r Rule) Copy() Rule {
	cp := Rule{NonTerminal: r.NonTerminal, Productions: make([]Production, len(r.Productions))}
	for i := range r.Productions {
		cp.Productions[i] = r.Productions[i].Copy()
	}
	return cp
}

// Equal returns whether r and o have the same nonterminal and, in order, the
// same productions.
func (r Rule) Equal(o Rule) bool {
	if r.NonTerminal != o.NonTerminal {
		return false
	}
	if len(r.Productions) != len(o.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(o.Productions[i]) {
			return false
		}
	}
	return true
}

// HasProduction returns whether p already appears in r's productions.
func (r Rule) HasProduction(p Production) bool {
	for _, existing := range r.Productions {
		if existing.Equal(p) {
			return true
		}
	}
	return false
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Grammar is the mutable CFG data model of §3: a set of nonterminals
// (implied by the rules present), a set of terminals (each carrying its
// types.TokenClass so the table builder and parser can match against a
// lexer's token classes), a start symbol, and one Rule per nonterminal.
//
// The zero value is a usable empty grammar.
type Grammar struct {
	// rules holds one Rule per nonterminal, in first-declared order.
	rules []Rule

	// ruleIdx maps a nonterminal name to its index in rules, for O(1)
	// lookup/replace.
	ruleIdx map[string]int

	terminals map[string]types.TokenClass

	start string
}

// AddTerm declares a terminal with the given id and backing token class. If
// a terminal with the same id already exists its class is replaced.
func (g *Grammar) AddTerm(id string, cl types.TokenClass) {
	if g.terminals == nil {
		g.terminals = map[string]types.TokenClass{}
	}
	g.terminals[id] = cl
}

// AddRule appends production p to the rule for nt, creating the rule (and,
// if nt is the first nonterminal ever added, making it the start symbol) if
// it does not yet exist. Adding a production already present in nt's rule is
// an error per §4.1 ("adding a duplicate production").
func (g *Grammar) AddRule(nt string, p Production) error {
	if len(p) == 0 {
		p = Epsilon
	}

	if g.ruleIdx == nil {
		g.ruleIdx = map[string]int{}
	}

	idx, ok := g.ruleIdx[nt]
	if !ok {
		if g.start == "" {
			g.start = nt
		}
		g.ruleIdx[nt] = len(g.rules)
		g.rules = append(g.rules, Rule{NonTerminal: nt, Productions: []Production{p.Copy()}})
		return nil
	}

	if g.rules[idx].HasProduction(p) {
		return fmt.Errorf("grammar: %q already has production %q", nt, p)
	}
	g.rules[idx].Productions = append(g.rules[idx].Productions, p.Copy())
	return nil
}

// SetProductions atomically replaces the production list of nt, creating the
// rule if it does not exist. Used by the normalizer stages, which compute a
// whole new alternative list per nonterminal.
func (g *Grammar) SetProductions(nt string, prods []Production) {
	if g.ruleIdx == nil {
		g.ruleIdx = map[string]int{}
	}
	idx, ok := g.ruleIdx[nt]
	if !ok {
		if g.start == "" {
			g.start = nt
		}
		g.ruleIdx[nt] = len(g.rules)
		g.rules = append(g.rules, Rule{NonTerminal: nt, Productions: prods})
		return
	}
	g.rules[idx].Productions = prods
}

// RemoveRule deletes nt's rule entirely (used once a nonterminal has been
// eliminated by non-generating/unreachable/chain-rule removal).
func (g *Grammar) RemoveRule(nt string) {
	idx, ok := g.ruleIdx[nt]
	if !ok {
		return
	}
	g.rules = append(g.rules[:idx], g.rules[idx+1:]...)
	delete(g.ruleIdx, nt)
	for name, i := range g.ruleIdx {
		if i > idx {
			g.ruleIdx[name] = i - 1
		}
	}
}

// Rule returns the Rule for nt, or a zero-value Rule (no productions) if nt
// is not a declared nonterminal.
func (g Grammar) Rule(nt string) Rule {
	idx, ok := g.ruleIdx[nt]
	if !ok {
		return Rule{NonTerminal: nt}
	}
	return g.rules[idx]
}

// NonTerminals returns every declared nonterminal, in first-declared order.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i := range g.rules {
		names[i] = g.rules[i].NonTerminal
	}
	return names
}

// IsNonTerminal returns whether sym names a declared nonterminal.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.ruleIdx[sym]
	return ok
}

// IsTerminal returns whether sym names a declared terminal.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// Term returns the token class registered for terminal id, or
// types.TokenUndefined if id is not a declared terminal.
func (g Grammar) Term(id string) types.TokenClass {
	cl, ok := g.terminals[id]
	if !ok {
		return types.TokenUndefined
	}
	return cl
}

// TermFor returns the terminal id registered for the given token class, or
// "" if no terminal uses that class.
func (g Grammar) TermFor(cl types.TokenClass) string {
	for id, c := range g.terminals {
		if c.Equal(cl) || c.ID() == cl.ID() {
			return id
		}
	}
	return ""
}

// Terminals returns the declared terminal ids in sorted order (§9
// determinism).
func (g Grammar) Terminals() []string {
	return util.OrderedKeys(g.terminals)
}

// StartSymbol returns the grammar's start symbol.
func (g Grammar) StartSymbol() string {
	return g.start
}

// SetStart declares which nonterminal is the start symbol.
func (g *Grammar) SetStart(nt string) {
	g.start = nt
}

// RecomputeTerminals drops any declared terminal that no longer appears in
// any production body, per §4.1 ("recompute the terminals set ... used after
// any stage that may have removed productions"). It never adds new
// terminals: normalization stages only remove or rewrite symbols, they never
// introduce a terminal that wasn't already declared.
func (g *Grammar) RecomputeTerminals() {
	used := util.StringSet{}
	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == epsilonSymbol {
					continue
				}
				if _, ok := g.terminals[sym]; ok {
					used.Add(sym)
				}
			}
		}
	}
	for id := range g.terminals {
		if !used.Has(id) {
			delete(g.terminals, id)
		}
	}
}

// copyTerminals returns a duplicate of a terminals map, for stages that
// build a fresh Grammar from scratch but keep the same terminal alphabet.
func copyTerminals(terminals map[string]types.TokenClass) map[string]types.TokenClass {
	cp := make(map[string]types.TokenClass, len(terminals))
	for id, cl := range terminals {
		cp[id] = cl
	}
	return cp
}

// Copy returns a deep duplicate of g.
func (g Grammar) Copy() Grammar {
	cp := Grammar{
		start:     g.start,
		terminals: make(map[string]types.TokenClass, len(g.terminals)),
		ruleIdx:   make(map[string]int, len(g.ruleIdx)),
		rules:     make([]Rule, len(g.rules)),
	}
	for id, cl := range g.terminals {
		cp.terminals[id] = cl
	}
	for name, idx := range g.ruleIdx {
		cp.ruleIdx[name] = idx
	}
	for i := range g.rules {
		cp.rules[i] = g.rules[i].Copy()
	}
	return cp
}

// Validate checks the invariants of §3: at least one nonterminal, at least
// one terminal, a start symbol that is a declared nonterminal with at least
// one production, and every symbol in every production body declared as
// either a terminal or a nonterminal.
func (g Grammar) Validate() error {
	if len(g.rules) == 0 {
		return fmt.Errorf("grammar has no nonterminals")
	}
	if len(g.terminals) == 0 {
		return fmt.Errorf("grammar has no terminals")
	}
	if g.start == "" || !g.IsNonTerminal(g.start) {
		return icterrors.StartSymbolMissing(g.start)
	}
	if len(g.Rule(g.start).Productions) == 0 {
		return icterrors.StartSymbolMissing(g.start)
	}

	for _, r := range g.rules {
		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}
			for _, sym := range p {
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return icterrors.UndefinedSymbol(r.NonTerminal, sym)
				}
			}
		}
	}
	return nil
}

// String renders every rule, one per line, sorted by nonterminal name (§5
// "Output of productions for printing must be in a deterministic order").
func (g Grammar) String() string {
	sortedNames := util.OrderedKeys(g.ruleIdx)

	var sb strings.Builder
	for i, name := range sortedNames {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(g.Rule(name).String())
	}
	return sb.String()
}
