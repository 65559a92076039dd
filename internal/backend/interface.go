package backend

import (
	"context"
	"slices"

	"budget/internal/store"
)

// CleanupFunc releases whatever the backend opened.
type CleanupFunc func() error

// BackendResult is a ready store plus its optional cleanup.
type BackendResult struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config selects a store and carries the settings it needs. Only the
// path matching Type is read.
type Config struct {
	Type         BackendType
	BudgetFile   string
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid reports whether a factory can build bt.
func (bt BackendType) IsValid() bool {
	return slices.Contains(backendTypes, bt)
}
