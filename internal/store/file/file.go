package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/store"
)

const (
	DefaultPath     = "budget.json"
	FilePermissions = 0o644
)

var _ store.Store = (*Store)(nil)

// Store keeps the dataset in a single pretty-printed JSON file.
// Writes are plain overwrites, not atomic renames.
type Store struct {
	path string
}

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the dataset. A missing file or invalid content yields an
// empty dataset; any other read failure is returned.
func (s *Store) Load(ctx context.Context) (core.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.EmptyDataset(), nil
		}
		return core.Dataset{}, fmt.Errorf("open budget file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("read budget file: %w", err)
	}

	var ds core.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		slog.WarnContext(ctx, "Budget file is not valid JSON, starting from an empty dataset",
			"path", s.path, "error", err)
		return core.EmptyDataset(), nil
	}
	ds.Normalize()
	return ds, nil
}

// Save overwrites the file with the full dataset.
func (s *Store) Save(ctx context.Context, ds core.Dataset) error {
	ds.Normalize()
	data, err := json.MarshalIndent(ds, "", "    ")
	if err != nil {
		return fmt.Errorf("encode budget: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create budget directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, FilePermissions); err != nil {
		return fmt.Errorf("write budget file: %w", err)
	}

	slog.DebugContext(ctx, "Budget saved", "path", s.path, "events", len(ds.Events))
	return nil
}
