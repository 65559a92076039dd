// Package services exposes the operations the user interface calls.
//
// BudgetService keeps no state between calls: each operation loads the
// dataset from the store, and mutations save it back before returning.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/store"

	"github.com/shopspring/decimal"
)

// Export target names accepted by ExportEvent.
const (
	TargetXLSX   = "xlsx"
	TargetSheets = "sheets"
)

var ErrUnknownExportTarget = errors.New("unknown export target")

// ChangePublisher is notified after a mutation has been saved.
type ChangePublisher interface {
	PublishExpenseAdded(ctx context.Context, eventName string, e core.Expense) error
	PublishExpenseDeleted(ctx context.Context, eventName, expenseID string) error
}

// EventSummary is the read model shown next to an event's expense table.
type EventSummary struct {
	Event      core.Event           `json:"event"`
	Total      decimal.Decimal      `json:"total"`
	Categories []core.CategoryCount `json:"categories"`
}

type BudgetService struct {
	store     store.Store
	ledger    *ledger.Ledger
	exporters map[string]export.Exporter
	publisher ChangePublisher
	logger    *log.Logger
	ledgerOpt []ledger.Option
}

type Option func(*BudgetService)

// WithExporter registers an exporter under a target name such as "xlsx".
func WithExporter(target string, e export.Exporter) Option {
	return func(s *BudgetService) {
		if e != nil {
			s.exporters[target] = e
		}
	}
}

func WithPublisher(p ChangePublisher) Option {
	return func(s *BudgetService) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *BudgetService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator makes expense ids deterministic, mostly for tests.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(s *BudgetService) {
		s.ledgerOpt = append(s.ledgerOpt, ledger.WithIDGenerator(gen))
	}
}

func NewBudgetService(st store.Store, opts ...Option) *BudgetService {
	s := &BudgetService{
		store:     st,
		exporters: make(map[string]export.Exporter),
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ledger = ledger.New(st, s.ledgerOpt...)
	return s
}

// LoadDataset returns the persisted dataset.
func (s *BudgetService) LoadDataset(ctx context.Context) (core.Dataset, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("load budget: %w", err)
	}
	return ds, nil
}

// ListEventNames returns the names of all events in dataset order.
func (s *BudgetService) ListEventNames(ctx context.Context) ([]string, error) {
	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.EventNames(ds), nil
}

// Summary returns an event with its grand total and category distribution.
func (s *BudgetService) Summary(ctx context.Context, eventName string) (EventSummary, bool, error) {
	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return EventSummary{}, false, err
	}
	ev, ok := ledger.FindEvent(ds, eventName)
	if !ok {
		return EventSummary{}, false, nil
	}
	return EventSummary{
		Event:      ev,
		Total:      ledger.TotalForEvent(ev),
		Categories: ledger.CategoryCounts(ev),
	}, true, nil
}

// AddExpense validates the input, records it and announces the change.
func (s *BudgetService) AddExpense(ctx context.Context, in core.NewExpense) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	_, exp, err := s.ledger.AddExpense(ctx, ds, in)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add expense",
			log.FieldOperation, log.OpCreate,
			log.FieldEventName, in.EventName,
			log.FieldError, err)
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense added",
		log.FieldOperation, log.OpCreate,
		log.FieldEventName, in.EventName,
		log.FieldExpenseID, exp.ID,
		log.FieldTotalCost, exp.TotalCost.String())

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseAdded(ctx, in.EventName, exp); err != nil {
			// The expense is saved; a lost notification does not fail the action.
			s.logger.WarnContext(ctx, "Failed to publish expense added message",
				log.FieldExpenseID, exp.ID, log.FieldError, err)
		}
	}
	return exp, nil
}

// DeleteExpense removes the expense with the given id from an event and
// reports how many items were removed. Unknown events or ids remove nothing
// and are not errors.
func (s *BudgetService) DeleteExpense(ctx context.Context, eventName, expenseID string) (int, error) {
	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return 0, err
	}

	out, err := s.ledger.DeleteExpense(ctx, ds, eventName, expenseID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete expense",
			log.FieldOperation, log.OpDelete,
			log.FieldEventName, eventName,
			log.FieldExpenseID, expenseID,
			log.FieldError, err)
		return 0, err
	}

	removed := countExpenses(ds, eventName) - countExpenses(out, eventName)
	s.logger.InfoContext(ctx, "Expense delete processed",
		log.FieldOperation, log.OpDelete,
		log.FieldEventName, eventName,
		log.FieldExpenseID, expenseID,
		"removed", removed)

	if removed > 0 && s.publisher != nil {
		if err := s.publisher.PublishExpenseDeleted(ctx, eventName, expenseID); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish expense deleted message",
				log.FieldExpenseID, expenseID, log.FieldError, err)
		}
	}
	return removed, nil
}

// ExportEvent writes the given records with the exporter registered for
// target. An empty target means xlsx.
func (s *BudgetService) ExportEvent(ctx context.Context, records []core.Expense, eventName, target string) (string, error) {
	if target == "" {
		target = TargetXLSX
	}
	exp, ok := s.exporters[target]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownExportTarget, target)
	}

	ref, err := exp.Export(ctx, eventName, records)
	if err != nil {
		s.logger.ErrorContext(ctx, "Export failed",
			log.FieldOperation, log.OpExport,
			log.FieldEventName, eventName,
			log.FieldExportTarget, target,
			log.FieldError, err)
		return "", fmt.Errorf("export %s: %w", target, err)
	}
	return ref, nil
}

// ExportStoredEvent loads the event and exports its current expenses.
func (s *BudgetService) ExportStoredEvent(ctx context.Context, eventName, target string) (string, error) {
	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return "", err
	}
	ev, _ := ledger.FindEvent(ds, eventName)
	return s.ExportEvent(ctx, ev.Expenses, eventName, target)
}

// ExportTargets lists the registered export targets.
func (s *BudgetService) ExportTargets() []string {
	out := make([]string, 0, len(s.exporters))
	for t := range s.exporters {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func countExpenses(ds core.Dataset, eventName string) int {
	if ev, ok := ledger.FindEvent(ds, eventName); ok {
		return len(ev.Expenses)
	}
	return 0
}
