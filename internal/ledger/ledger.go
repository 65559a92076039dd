// Package ledger mutates and aggregates a budget Dataset.
//
// The Ledger holds no dataset between calls: every operation receives a
// Dataset, works on a copy, persists the result through the Store and
// returns it.
package ledger

import (
	"context"
	"fmt"

	"budget/internal/core"
	"budget/internal/store"
)

type Ledger struct {
	store store.Store
	newID core.IDGenerator
}

type Option func(*Ledger)

// WithIDGenerator replaces the random expense id source.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(l *Ledger) {
		if gen != nil {
			l.newID = gen
		}
	}
}

func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{store: s, newID: core.RandomID}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddExpense appends a new line item to the event named in.EventName,
// creating the event when it does not exist yet, and saves the dataset.
// Calling it twice with the same input records two items.
//
// Input is not validated here; callers enforce quantity >= 1 and price >= 0.
func (l *Ledger) AddExpense(ctx context.Context, ds core.Dataset, in core.NewExpense) (core.Dataset, core.Expense, error) {
	out := ds.Clone()
	out.Normalize()

	idx := out.FindEvent(in.EventName)
	if idx < 0 {
		out.Events = append(out.Events, core.Event{
			Name:     in.EventName,
			Date:     in.EventDate,
			Expenses: []core.Expense{},
		})
		idx = len(out.Events) - 1
	}

	price := core.RoundPrice(in.Price)
	exp := core.Expense{
		ID:          l.newID(),
		Category:    in.Category,
		Particular:  in.Particular,
		Quantity:    in.Quantity,
		Description: in.Description,
		Price:       price,
		TotalCost:   core.LineTotal(in.Quantity, price),
	}
	out.Events[idx].Expenses = append(out.Events[idx].Expenses, exp)

	if err := l.store.Save(ctx, out); err != nil {
		return ds, core.Expense{}, fmt.Errorf("save budget: %w", err)
	}
	return out, exp, nil
}

// DeleteExpense removes every expense with the given id from the named
// event and saves the dataset. An unknown event is a no-op and nothing is
// written; an unknown id leaves the content unchanged.
func (l *Ledger) DeleteExpense(ctx context.Context, ds core.Dataset, eventName, expenseID string) (core.Dataset, error) {
	idx := ds.FindEvent(eventName)
	if idx < 0 {
		return ds, nil
	}

	out := ds.Clone()
	out.Normalize()
	kept := make([]core.Expense, 0, len(out.Events[idx].Expenses))
	for _, e := range out.Events[idx].Expenses {
		if e.ID != expenseID {
			kept = append(kept, e)
		}
	}
	out.Events[idx].Expenses = kept

	if err := l.store.Save(ctx, out); err != nil {
		return ds, fmt.Errorf("save budget: %w", err)
	}
	return out, nil
}
