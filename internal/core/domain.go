package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Categories offered to the user when recording an expense. The data layer
// accepts any label; this list only seeds input widgets.
var Categories = []string{"Food", "Transportation", "Accommodation", "Entertainment", "Miscellaneous"}

type (
	// Dataset is the whole persisted budget: every event in insertion order.
	Dataset struct {
		Events []Event `json:"events"`
	}

	// Event is a named occasion. EventName is the key inside a Dataset.
	Event struct {
		Name     string    `json:"event_name"`
		Date     string    `json:"event_date"`
		Expenses []Expense `json:"expenses"`
	}

	Expense struct {
		ID          string          `json:"id"`
		Category    string          `json:"category"`
		Particular  string          `json:"particular"`
		Quantity    int             `json:"quantity"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		TotalCost   decimal.Decimal `json:"total_cost"`
	}

	// NewExpense carries the user input for a line item, before an id and
	// total are assigned.
	NewExpense struct {
		EventName   string
		EventDate   string
		Category    string
		Particular  string
		Quantity    int
		Description string
		Price       decimal.Decimal
	}

	// CategoryCount is one bucket of the category distribution of an event.
	CategoryCount struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
)

var (
	ErrEmptyEventName  = errors.New("empty event name")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrNothingToExport = errors.New("no expenses to export")
)

// EmptyDataset returns a dataset with a non-nil, empty event list.
func EmptyDataset() Dataset {
	return Dataset{Events: []Event{}}
}

// Normalize replaces missing lists with empty ones so that a dataset read
// from an older or hand-edited file always serializes arrays.
func (d *Dataset) Normalize() {
	if d.Events == nil {
		d.Events = []Event{}
	}
	for i := range d.Events {
		if d.Events[i].Expenses == nil {
			d.Events[i].Expenses = []Expense{}
		}
	}
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	out := Dataset{Events: make([]Event, len(d.Events))}
	for i, ev := range d.Events {
		out.Events[i] = ev.Clone()
	}
	return out
}

// FindEvent returns the index of the first event named name, or -1.
func (d Dataset) FindEvent(name string) int {
	for i, ev := range d.Events {
		if ev.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the event with its own expense slice.
func (e Event) Clone() Event {
	e.Expenses = append(make([]Expense, 0, len(e.Expenses)), e.Expenses...)
	return e
}

func (n NewExpense) Validate() error {
	if strings.TrimSpace(n.EventName) == "" {
		return ErrEmptyEventName
	}
	if n.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if n.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
