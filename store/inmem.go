package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewInMemory creates a Repository backed by a plain map, grounded on
// server/dao/inmem's InMemoryGameDatasRepository. Used as the default store
// when config.Store.DataDir is unset, and in tests that don't want a real
// SQLite file.
func NewInMemory() Repository {
	return &inMemoryRepo{runs: make(map[uuid.UUID]Run)}
}

type inMemoryRepo struct {
	runs map[uuid.UUID]Run
}

func (r *inMemoryRepo) Create(ctx context.Context, run Run) (Run, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return Run{}, fmt.Errorf("could not generate ID: %w", err)
	}
	run.ID = newID
	run.Created = time.Now()

	r.runs[run.ID] = run
	return run, nil
}

func (r *inMemoryRepo) GetByID(ctx context.Context, id uuid.UUID) (Run, error) {
	run, ok := r.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func (r *inMemoryRepo) Update(ctx context.Context, id uuid.UUID, run Run) (Run, error) {
	if _, ok := r.runs[id]; !ok {
		return Run{}, ErrNotFound
	}
	run.ID = id
	r.runs[id] = run
	return run, nil
}

func (r *inMemoryRepo) Close() error {
	return nil
}
