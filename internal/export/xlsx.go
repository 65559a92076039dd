package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"budget/internal/core"
	"budget/internal/ledger"

	"github.com/xuri/excelize/v2"
)

const (
	FileSuffix  = "_expenses.xlsx"
	tableName   = "ExpenseTable"
	chartAnchor = "H2"
	headerFill  = "0000FF"
	headerFont  = "FFFFFF"
)

var _ Exporter = (*XLSXExporter)(nil)

// XLSXExporter writes "<event>_expenses.xlsx" files into a directory.
type XLSXExporter struct {
	dir string
}

func NewXLSXExporter(dir string) *XLSXExporter {
	if dir == "" {
		dir = "."
	}
	return &XLSXExporter{dir: dir}
}

// FileName returns the export file name for an event. Path separators are
// replaced so the file always lands in the export directory.
func FileName(eventName string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(eventName)
	return safe + FileSuffix
}

// Export writes the workbook and returns its path. A failed write may
// leave a partial file behind.
func (x *XLSXExporter) Export(ctx context.Context, eventName string, records []core.Expense) (string, error) {
	if len(records) == 0 {
		return "", core.ErrNothingToExport
	}

	f, err := buildWorkbook(records)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(x.dir, FileName(eventName))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Exported expenses to spreadsheet",
		"event", eventName, "rows", len(records), "path", path)
	return path, nil
}

func buildWorkbook(records []core.Expense) (*excelize.File, error) {
	f := excelize.NewFile()
	fail := func(step string, err error) (*excelize.File, error) {
		f.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fail("rename sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFont},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fail("header style", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fail("cell style", err)
	}

	lastCol := len(Headers)
	lastRow := len(records) + 1

	for i, h := range Headers {
		if err := f.SetCellValue(SheetName, cellName(i+1, 1), h); err != nil {
			return fail("write header", err)
		}
	}
	if err := f.SetCellStyle(SheetName, cellName(1, 1), cellName(lastCol, 1), headerStyle); err != nil {
		return fail("style header", err)
	}

	for r, e := range records {
		for c, v := range RowValues(e) {
			if err := f.SetCellValue(SheetName, cellName(c+1, r+2), v); err != nil {
				return fail("write row", err)
			}
		}
	}
	if err := f.SetCellStyle(SheetName, cellName(1, 2), cellName(lastCol, lastRow), cellStyle); err != nil {
		return fail("style rows", err)
	}

	for i, w := range ColumnWidths(records) {
		col := columnName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, float64(w)); err != nil {
			return fail("column width", err)
		}
	}

	if err := f.AddTable(SheetName, &excelize.Table{
		Range:     cellName(1, 1) + ":" + cellName(lastCol, lastRow),
		Name:      tableName,
		StyleName: "TableStyleMedium2",
	}); err != nil {
		return fail("add table", err)
	}

	if err := f.AddChart(SheetName, chartAnchor, columnChart(lastCol, lastRow)); err != nil {
		return fail("add chart", err)
	}

	total := ledger.TotalOf(records)
	totalCell := cellName(lastCol, lastRow+1)
	if err := f.SetCellValue(SheetName, totalCell, total.InexactFloat64()); err != nil {
		return fail("write total", err)
	}
	if err := f.SetCellStyle(SheetName, totalCell, totalCell, headerStyle); err != nil {
		return fail("style total", err)
	}

	return f, nil
}

// columnChart plots every column after ID as its own series, using the ID
// column as categories.
func columnChart(lastCol, lastRow int) *excelize.Chart {
	categories := fmt.Sprintf("%s!$A$2:$A$%d", SheetName, lastRow)
	series := make([]excelize.ChartSeries, 0, lastCol-1)
	for c := 2; c <= lastCol; c++ {
		col := columnName(c)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetName, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetName, col, col, lastRow),
		})
	}
	return &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
