package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"
	"budget/internal/store"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schemaVersionTable = "budget_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ store.Store = (*Repository)(nil)

// Repository stores the dataset in two tables keyed by position, so the
// insertion order of events and expenses survives a round trip. Amounts
// are kept as decimal text.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// migrateSchema brings db up to the newest embedded migration. The migrate
// instance is not closed since that would close db; only the source is.
func migrateSchema(db *sql.DB) error {
	driver, err := msqlite.WithInstance(db, &msqlite.Config{MigrationsTable: schemaVersionTable})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements store.Store.
func (r *Repository) Load(ctx context.Context) (core.Dataset, error) {
	ds := core.EmptyDataset()

	rows, err := r.db.QueryContext(ctx, `SELECT position, name, event_date FROM events ORDER BY position`)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("query events: %w", err)
	}
	byPosition := map[int64]int{}
	for rows.Next() {
		var pos int64
		ev := core.Event{Expenses: []core.Expense{}}
		if err := rows.Scan(&pos, &ev.Name, &ev.Date); err != nil {
			rows.Close()
			return core.Dataset{}, fmt.Errorf("scan event: %w", err)
		}
		byPosition[pos] = len(ds.Events)
		ds.Events = append(ds.Events, ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return core.Dataset{}, fmt.Errorf("iterate events: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT event_position, id, category, particular, quantity, description, price, total_cost
		FROM expenses ORDER BY event_position, position`)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventPos         int64
			e                core.Expense
			price, totalCost string
		)
		if err := rows.Scan(&eventPos, &e.ID, &e.Category, &e.Particular, &e.Quantity, &e.Description, &price, &totalCost); err != nil {
			return core.Dataset{}, fmt.Errorf("scan expense: %w", err)
		}
		if e.Price, err = decimal.NewFromString(price); err != nil {
			slog.WarnContext(ctx, "Stored price is not a decimal, starting from an empty dataset", "id", e.ID, "price", price)
			return core.EmptyDataset(), nil
		}
		if e.TotalCost, err = decimal.NewFromString(totalCost); err != nil {
			slog.WarnContext(ctx, "Stored total is not a decimal, starting from an empty dataset", "id", e.ID, "total_cost", totalCost)
			return core.EmptyDataset(), nil
		}
		idx, ok := byPosition[eventPos]
		if !ok {
			continue
		}
		ds.Events[idx].Expenses = append(ds.Events[idx].Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return core.Dataset{}, fmt.Errorf("iterate expenses: %w", err)
	}

	return ds, nil
}

// Save implements store.Store. The previous content is replaced inside a
// single transaction.
func (r *Repository) Save(ctx context.Context, ds core.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	for i, ev := range ds.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (position, name, event_date) VALUES (?, ?, ?)`,
			i, ev.Name, ev.Date); err != nil {
			return fmt.Errorf("insert event %q: %w", ev.Name, err)
		}
		for j, e := range ev.Expenses {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO expenses (event_position, position, id, category, particular, quantity, description, price, total_cost)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				i, j, e.ID, e.Category, e.Particular, e.Quantity, e.Description,
				e.Price.String(), e.TotalCost.String()); err != nil {
				return fmt.Errorf("insert expense %s: %w", e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.DebugContext(ctx, "Budget saved to SQLite", "events", len(ds.Events))
	return nil
}
