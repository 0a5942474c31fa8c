package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// NewSQLiteDatastore opens (creating if necessary) a SQLite database under
// dataDir and returns a Repository backed by it, grounded on
// server/dao/sqlite's NewGameDatasDBConn/GameDatasDB pair: one file, one
// table, base64-encoded blob columns for anything that isn't already a
// plain scalar.
func NewSQLiteDatastore(dataDir string) (Repository, error) {
	file := filepath.Join(dataDir, "runs.db")

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	repo := &sqliteRepo{db: db}
	if err := repo.init(); err != nil {
		return nil, err
	}
	return repo, nil
}

type sqliteRepo struct {
	db *sql.DB
}

func (repo *sqliteRepo) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		created INTEGER NOT NULL,
		grammar_source TEXT NOT NULL,
		normalized_grammar TEXT NOT NULL,
		parse_table TEXT NOT NULL,
		diagnostics TEXT NOT NULL,
		derivation TEXT
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *sqliteRepo) Create(ctx context.Context, run Run) (Run, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return Run{}, fmt.Errorf("could not generate ID: %w", err)
	}
	run.ID = newID
	run.Created = time.Now()

	stmt, err := repo.db.Prepare(`INSERT INTO runs
		(id, created, grammar_source, normalized_grammar, parse_table, diagnostics, derivation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, wrapDBError(err)
	}

	_, err = stmt.ExecContext(ctx,
		run.ID.String(),
		run.Created.Unix(),
		encodeBytes(run.GrammarSource),
		encodeBytes(run.NormalizedGrammar),
		encodeBytes(run.Table),
		encodeBytes(run.Diagnostics),
		encodeBytes(run.Derivation),
	)
	if err != nil {
		return Run{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, run.ID)
}

func (repo *sqliteRepo) Update(ctx context.Context, id uuid.UUID, run Run) (Run, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE runs SET
		grammar_source=?, normalized_grammar=?, parse_table=?, diagnostics=?, derivation=?
		WHERE id=?`,
		encodeBytes(run.GrammarSource),
		encodeBytes(run.NormalizedGrammar),
		encodeBytes(run.Table),
		encodeBytes(run.Diagnostics),
		encodeBytes(run.Derivation),
		id.String(),
	)
	if err != nil {
		return Run{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return Run{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return Run{}, ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *sqliteRepo) GetByID(ctx context.Context, id uuid.UUID) (Run, error) {
	run := Run{ID: id}
	var createdUnix int64
	var grammarSource, normalizedGrammar, table, diag, derivation string

	row := repo.db.QueryRowContext(ctx,
		`SELECT created, grammar_source, normalized_grammar, parse_table, diagnostics, derivation
		 FROM runs WHERE id = ?`, id.String())

	err := row.Scan(&createdUnix, &grammarSource, &normalizedGrammar, &table, &diag, &derivation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, wrapDBError(err)
	}

	run.Created = time.Unix(createdUnix, 0)
	if run.GrammarSource, err = decodeBytes(grammarSource); err != nil {
		return Run{}, fmt.Errorf("decode grammar_source: %w", err)
	}
	if run.NormalizedGrammar, err = decodeBytes(normalizedGrammar); err != nil {
		return Run{}, fmt.Errorf("decode normalized_grammar: %w", err)
	}
	if run.Table, err = decodeBytes(table); err != nil {
		return Run{}, fmt.Errorf("decode parse_table: %w", err)
	}
	if run.Diagnostics, err = decodeBytes(diag); err != nil {
		return Run{}, fmt.Errorf("decode diagnostics: %w", err)
	}
	if run.Derivation, err = decodeBytes(derivation); err != nil {
		return Run{}, fmt.Errorf("decode derivation: %w", err)
	}

	return run, nil
}

func (repo *sqliteRepo) Close() error {
	return repo.db.Close()
}

func encodeBytes(b []byte) string {
	if b == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(s)
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("db: %w", err)
}
