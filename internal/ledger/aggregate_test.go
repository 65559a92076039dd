package ledger

import (
	"reflect"
	"testing"

	"budget/internal/core"

	"github.com/shopspring/decimal"
)

func TestTotalForEvent(t *testing.T) {
	ev := core.Event{Name: "Picnic", Expenses: []core.Expense{
		{ID: "a1b2c3", TotalCost: decimal.RequireFromString("6.92")},
		{ID: "d4e5f6", TotalCost: decimal.RequireFromString("10.00")},
	}}
	if got := TotalForEvent(ev); got.String() != "16.92" {
		t.Fatalf("got %s, want 16.92", got)
	}
	if got := TotalForEvent(core.Event{}); !got.IsZero() {
		t.Fatalf("empty event total should be zero, got %s", got)
	}
}

func TestCategoryCounts(t *testing.T) {
	ev := core.Event{Expenses: []core.Expense{
		{Category: "Food"}, {Category: "Food"}, {Category: "Transportation"},
	}}
	got := CategoryCounts(ev)
	want := []core.CategoryCount{{Category: "Food", Count: 2}, {Category: "Transportation", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	custom := core.Event{Expenses: []core.Expense{{Category: "Gifts"}}}
	if got := CategoryCounts(custom); len(got) != 1 || got[0].Category != "Gifts" {
		t.Fatalf("categories outside the predefined list should be counted, got %+v", got)
	}
	if got := CategoryCounts(core.Event{}); len(got) != 0 {
		t.Fatalf("expected no buckets, got %+v", got)
	}
}

func TestEventNamesAndFind(t *testing.T) {
	ds := core.Dataset{Events: []core.Event{{Name: "B"}, {Name: "A", Date: "first"}, {Name: "A", Date: "second"}}}
	if got := EventNames(ds); !reflect.DeepEqual(got, []string{"B", "A", "A"}) {
		t.Fatalf("unexpected names %v", got)
	}
	ev, ok := FindEvent(ds, "A")
	if !ok || ev.Date != "first" {
		t.Fatalf("first match should win, got %+v ok=%v", ev, ok)
	}
	if _, ok := FindEvent(ds, "C"); ok {
		t.Fatalf("expected miss")
	}
	if names := EventNames(core.EmptyDataset()); names == nil || len(names) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", names)
	}
}
