package ledger

import (
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// EventNames lists event names in dataset order.
func EventNames(ds core.Dataset) []string {
	names := make([]string, 0, len(ds.Events))
	for _, ev := range ds.Events {
		names = append(names, ev.Name)
	}
	return names
}

// FindEvent returns the first event named name.
func FindEvent(ds core.Dataset, name string) (core.Event, bool) {
	idx := ds.FindEvent(name)
	if idx < 0 {
		return core.Event{}, false
	}
	return ds.Events[idx], true
}

// TotalForEvent sums the line totals of an event, rounded to cents.
func TotalForEvent(ev core.Event) decimal.Decimal {
	return TotalOf(ev.Expenses)
}

// TotalOf sums total_cost over expenses, rounded to cents.
func TotalOf(expenses []core.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.TotalCost)
	}
	return sum.Round(2)
}

// CategoryCounts counts expenses per category. Only categories present in
// the event are listed, in the order they first appear.
func CategoryCounts(ev core.Event) []core.CategoryCount {
	var out []core.CategoryCount
	pos := map[string]int{}
	for _, e := range ev.Expenses {
		i, ok := pos[e.Category]
		if !ok {
			pos[e.Category] = len(out)
			out = append(out, core.CategoryCount{Category: e.Category, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}
