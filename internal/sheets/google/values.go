package google

import (
	"fmt"
	"strings"

	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/ledger"
)

// BuildValues lays out the header, one row per expense and a final row
// holding only the grand total under the last column.
func BuildValues(records []core.Expense) [][]any {
	values := make([][]any, 0, len(records)+2)

	header := make([]any, len(export.Headers))
	for i, h := range export.Headers {
		header[i] = h
	}
	values = append(values, header)

	for _, e := range records {
		values = append(values, export.RowValues(e))
	}

	total := make([]any, len(export.Headers))
	for i := range total {
		total[i] = ""
	}
	total[len(total)-1] = ledger.TotalOf(records).InexactFloat64()
	return append(values, total)
}

// TabName derives a valid sheet title from an event name.
func TabName(eventName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.TrimSpace(eventName))
	if name == "" {
		name = export.SheetName
	}
	if r := []rune(name); len(r) > maxTabTitle {
		name = string(r[:maxTabTitle])
	}
	return name
}

// quoteSheet quotes a sheet title for use in A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func lastColumn() string {
	return fmt.Sprintf("%c", 'A'+len(export.Headers)-1)
}
