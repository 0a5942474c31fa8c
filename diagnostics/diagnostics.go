// Package diagnostics records the intermediate state of the normalization
// pipeline (§6 "Diagnostic stream") as a sequence of entries, one per stage,
// rendered as text tables in the teacher's style
// (internal/tunascript/grammar.go's LL1Table.String, internal/game/debug.go's
// ListFlags/ListNPCs) rather than left as opaque internal state.
package diagnostics

import (
	"fmt"

	"github.com/dekarrin/llcore/grammar"
	"github.com/dekarrin/llcore/internal/util"
	"github.com/dekarrin/rosed"
)

// Stage names one step of the normalization pipeline an Entry reports on.
type Stage string

const (
	StageValidate      Stage = "validate"
	StageNonGenerating Stage = "non_generating"
	StageUnreachable   Stage = "unreachable"
	StageEpsilon       Stage = "epsilon"
	StageUnitProd      Stage = "unit_production"
	StageLeftFactor    Stage = "left_factor"
	StageLeftRecursion Stage = "left_recursion"
	StageFirstFollow   Stage = "first_follow"
	StageTable         Stage = "table"
)

// Entry is one recorded observation: which stage produced it, a one-line
// summary suitable for a progress log, and an optional multi-line Detail
// (usually a rosed table) for verbose output.
type Entry struct {
	Stage   Stage
	Summary string
	Detail  string
}

func (e Entry) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("[%s] %s", e.Stage, e.Summary)
	}
	return fmt.Sprintf("[%s] %s\n%s", e.Stage, e.Summary, e.Detail)
}

// Log accumulates diagnostic entries for a single pipeline run. Verbosity
// controls how much Detail is attached: 0 records summaries only, 1 and
// above attaches rendered set/table Detail to every entry that has one to
// offer.
type Log struct {
	Verbosity int
	entries   []Entry
}

// NewLog creates a Log at the given verbosity.
func NewLog(verbosity int) *Log {
	return &Log{Verbosity: verbosity}
}

// Record appends an entry. detail is discarded unless l.Verbosity > 0.
func (l *Log) Record(stage Stage, summary string, detail string) {
	e := Entry{Stage: stage, Summary: summary}
	if l.Verbosity > 0 {
		e.Detail = detail
	}
	l.entries = append(l.entries, e)
}

// Entries returns every entry recorded so far, in recording order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// String renders every entry, one after another, separated by blank lines.
func (l *Log) String() string {
	var out string
	for i, e := range l.entries {
		if i > 0 {
			out += "\n\n"
		}
		out += e.String()
	}
	return out
}

// setTable renders a util.StringSet as a one-column rosed table, sorted, for
// Entry.Detail (§9 "deterministic output" applies to diagnostics too).
func setTable(header string, s util.StringSet) string {
	data := [][]string{{header}}
	for _, v := range util.Alphabetized(s) {
		data = append(data, []string{v})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}).
		String()
}

// RunNormalize drives the same seven stages as Grammar.Normalize, but
// records one Entry per stage to log instead of only returning the final
// result. Stage order and failure behavior matches Grammar.Normalize
// exactly; the first stage to fail stops the pipeline, and the Log still
// holds whatever entries were recorded before the failure.
func RunNormalize(g grammar.Grammar, log *Log, whitelist ...string) (grammar.Grammar, error) {
	if err := g.Validate(); err != nil {
		log.Record(StageValidate, "validation failed: "+err.Error(), "")
		return grammar.Grammar{}, err
	}
	log.Record(StageValidate, "grammar is well-formed", g.String())

	if err := g.CheckNonEmpty(); err != nil {
		log.Record(StageNonGenerating, "start symbol is non-generating", "")
		return grammar.Grammar{}, err
	}
	generating := g.GeneratingSet()
	log.Record(StageNonGenerating,
		fmt.Sprintf("%d of %d nonterminals generate a terminal string", len(generating), len(g.NonTerminals())),
		setTable("generating", generating))

	out := g.RemoveNonGenerating()

	reachable := out.ReachableSet()
	out = out.RemoveUnreachable()
	log.Record(StageUnreachable,
		fmt.Sprintf("%d nonterminals reachable from start", len(reachable)),
		setTable("reachable", reachable))

	nullable := out.NullableSet()
	out = out.RemoveEpsilons(whitelist...)
	log.Record(StageEpsilon,
		fmt.Sprintf("%d nullable nonterminals eliminated (whitelist: %v)", len(nullable), whitelist),
		setTable("nullable", nullable))

	out = out.RemoveUnitProductions()
	log.Record(StageUnitProd, "chain productions eliminated", out.String())

	out = out.LeftFactor()
	log.Record(StageLeftFactor, "common prefixes factored out", out.String())

	if err := out.CheckLeftRecursionForm(); err != nil {
		log.Record(StageLeftRecursion, "indirect left recursion detected: "+err.Error(), "")
		return grammar.Grammar{}, err
	}
	out = out.RemoveLeftRecursion()
	log.Record(StageLeftRecursion, "direct left recursion eliminated", out.String())

	return out, nil
}

// RunTable builds the LL(1) parse table in diagnostic mode (collecting every
// conflict rather than aborting at the first) and records the result and any
// conflicts found, then the FIRST/FOLLOW sets behind it.
func RunTable(g grammar.Grammar, log *Log) (grammar.LL1Table, []error) {
	for _, nt := range g.NonTerminals() {
		first := g.FIRST(nt)
		follow := g.FOLLOW(nt)
		log.Record(StageFirstFollow,
			fmt.Sprintf("FIRST(%s)=%v FOLLOW(%s)=%v", nt, util.Alphabetized(first), nt, util.Alphabetized(follow)),
			"")
	}

	table, conflicts := g.LLParseTableDiagnostic()
	summary := "parse table built with no conflicts"
	if len(conflicts) > 0 {
		summary = fmt.Sprintf("parse table built with %d conflict(s)", len(conflicts))
	}
	log.Record(StageTable, summary, table.String())

	return table, conflicts
}
