// Package export turns the expenses of one event into a spreadsheet.
package export

import (
	"context"
	"strconv"

	"budget/internal/core"
)

// SheetName is the worksheet (or tab prefix) every exporter writes to.
const SheetName = "Expenses"

// Headers are the column titles, in output order.
var Headers = []string{"ID", "Category", "Particular", "Quantity", "Description", "Price", "Total Cost"}

// Exporter writes one event's expenses somewhere and returns a reference
// to the artifact (a file path, a sheet range).
type Exporter interface {
	Export(ctx context.Context, eventName string, records []core.Expense) (string, error)
}

// RowValues returns the cells of one expense row, aligned with Headers.
// Amounts are float64 so spreadsheets treat them as numbers.
func RowValues(e core.Expense) []any {
	return []any{
		e.ID,
		e.Category,
		e.Particular,
		e.Quantity,
		e.Description,
		e.Price.InexactFloat64(),
		e.TotalCost.InexactFloat64(),
	}
}

// displayValues returns the text form of each cell, used for sizing.
func displayValues(e core.Expense) []string {
	return []string{
		e.ID,
		e.Category,
		e.Particular,
		strconv.Itoa(e.Quantity),
		e.Description,
		core.FormatAmount(e.Price),
		core.FormatAmount(e.TotalCost),
	}
}

// ColumnWidths sizes each column to the longer of its longest value and
// the header length plus 5.
func ColumnWidths(records []core.Expense) []int {
	widths := make([]int, len(Headers))
	for i, h := range Headers {
		widths[i] = len(h) + 5
	}
	for _, e := range records {
		for i, v := range displayValues(e) {
			if n := len([]rune(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}
