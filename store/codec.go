package store

import (
	"fmt"

	"github.com/dekarrin/llcore/grammar"
	"github.com/dekarrin/llcore/types"
	"github.com/dekarrin/rezi"
)

// grammarSnapshot is a rezi-friendly, exported-fields-only mirror of
// grammar.Grammar: Grammar itself keeps its rules/terminals/start fields
// unexported (deliberately -- it is a mutable data model with invariants
// the normalizer stages rely on), so a snapshot is taken via its public
// accessors before encoding and rebuilt through AddTerm/SetProductions/
// SetStart on the way back, the same boundary server/dao/sqlite crosses
// with its convertToDB_*/convertFromDB_* helper pairs.
type grammarSnapshot struct {
	Rules     []grammar.Rule
	Terminals []string
	Start     string
}

func snapshotOf(g grammar.Grammar) grammarSnapshot {
	snap := grammarSnapshot{Start: g.StartSymbol(), Terminals: g.Terminals()}
	for _, nt := range g.NonTerminals() {
		snap.Rules = append(snap.Rules, g.Rule(nt))
	}
	return snap
}

func (snap grammarSnapshot) toGrammar() grammar.Grammar {
	var g grammar.Grammar
	for _, id := range snap.Terminals {
		g.AddTerm(id, types.MakeDefaultClass(id))
	}
	for _, r := range snap.Rules {
		g.SetProductions(r.NonTerminal, r.Productions)
	}
	g.SetStart(snap.Start)
	return g
}

// EncodeGrammar rezi-encodes g's snapshot to binary for storage in
// Run.NormalizedGrammar, the same rezi.EncBinary call shape
// server/dao/sqlite/sqlite.go uses to persist a *game.State.
//
// Terminal token classes are reconstructed on decode via
// types.MakeDefaultClass(id), which is faithful for any grammar built the
// way grammar.Sample and the JSON descriptor loader build theirs (AddTerm
// called with the id itself as the class's backing name); a caller that
// registered a terminal under a custom types.TokenClass with a different
// Human() will lose that distinction across a round trip through storage.
func EncodeGrammar(g grammar.Grammar) []byte {
	return rezi.EncBinary(snapshotOf(g))
}

// DecodeGrammar is the inverse of EncodeGrammar.
func DecodeGrammar(data []byte) (grammar.Grammar, error) {
	var snap grammarSnapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("rezi decode: %w", err)
	}
	if n != len(data) {
		return grammar.Grammar{}, fmt.Errorf("rezi decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return snap.toGrammar(), nil
}

// EncodeTable rezi-encodes an LL1Table to binary for storage in Run.Table.
// LL1Table is already a plain exported map type (map[string]map[string]
// Production), so no snapshot indirection is needed here.
func EncodeTable(t grammar.LL1Table) []byte {
	return rezi.EncBinary(t)
}

// DecodeTable is the inverse of EncodeTable.
func DecodeTable(data []byte) (grammar.LL1Table, error) {
	t := grammar.LL1Table{}
	n, err := rezi.DecBinary(data, &t)
	if err != nil {
		return nil, fmt.Errorf("rezi decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("rezi decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return t, nil
}
