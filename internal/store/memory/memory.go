package memory

import (
	"context"
	"sync"

	"budget/internal/core"
	"budget/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps the dataset in process memory. Load and Save copy the data
// so callers never share slices with the store.
type Store struct {
	mu    sync.Mutex
	data  core.Dataset
	saves int
}

func New() *Store {
	return &Store{data: core.EmptyDataset()}
}

// NewWithDataset seeds the store with a copy of ds.
func NewWithDataset(ds core.Dataset) *Store {
	ds = ds.Clone()
	ds.Normalize()
	return &Store{data: ds}
}

func (s *Store) Load(_ context.Context) (core.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone(), nil
}

func (s *Store) Save(_ context.Context, ds core.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ds.Clone()
	s.data.Normalize()
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
