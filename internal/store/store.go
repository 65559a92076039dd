// Package store defines the persistence boundary for the budget dataset.
//
// Every backend reads and writes the whole Dataset. Load never fails on a
// missing or unparsable source; it returns an empty dataset instead.
package store

import (
	"context"

	"budget/internal/core"
)

type Store interface {
	Load(ctx context.Context) (core.Dataset, error)
	Save(ctx context.Context, ds core.Dataset) error
}
