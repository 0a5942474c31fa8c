// Package store persists normalization/parse runs, grounded on the
// teacher's server/dao package: a narrow repository interface with an
// in-memory implementation (server/dao/inmem) and a SQLite-backed one
// (server/dao/sqlite) behind it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound mirrors dao.ErrNotFound: the requested run does not exist.
var ErrNotFound = errors.New("the requested run could not be found")

// Run is everything persisted about one normalization+parse session (§3
// "Run persistence"): the original grammar descriptor as given by the
// caller, the frozen (post-normalization) grammar and its LL(1) table
// rezi-encoded to binary, the diagnostic entries collected along the way,
// and -- once a parse has been run against it -- the derivation trace.
type Run struct {
	ID      uuid.UUID
	Created time.Time

	// GrammarSource is the caller's original descriptor (§6), kept verbatim
	// so a run can be re-displayed or re-parsed without reconstructing it.
	GrammarSource []byte

	// NormalizedGrammar and Table are rezi.EncBinary-encoded
	// grammar.Grammar and grammar.LL1Table values.
	NormalizedGrammar []byte
	Table             []byte

	// Diagnostics is the JSON-encoded list of diagnostics.Entry recorded
	// while building this run.
	Diagnostics []byte

	// Derivation is the JSON-encoded []parse.DerivationStep from the most
	// recent successful parse against this run, or nil if none has been run
	// yet.
	Derivation []byte
}

// Repository is the persistence boundary a run is stored through (dao.Store
// narrowed to the one entity this module has).
type Repository interface {
	Create(ctx context.Context, run Run) (Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (Run, error)
	Update(ctx context.Context, id uuid.UUID, run Run) (Run, error)
	Close() error
}
