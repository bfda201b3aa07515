// Package export renders an analysis report as an XLSX workbook.
package export

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"spendview/internal/analysis"
	"spendview/internal/core"
)

const (
	sheetSummary    = "Summary"
	sheetMonthly    = "Monthly"
	sheetCategories = "Categories"
)

// ReportXLSX returns an XLSX workbook with one sheet each for the summary,
// the monthly series and the category totals.
func ReportXLSX(report *analysis.Report) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeSummary(f, report); err != nil {
		return nil, err
	}
	if err := writeMonthly(f, report); err != nil {
		return nil, err
	}
	if err := writeCategories(f, report); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Summary.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheetSummary)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, report *analysis.Report) error {
	s := report.Summary
	rows := [][]any{
		{"Metric", "Value"},
		{"Total spend", s.Total.Dollars()},
		{"Average monthly spend", s.AvgMonthly.Dollars()},
		{"Median monthly spend", s.MedianMonthly.Dollars()},
		{"Transactions", s.Transactions},
		{"Months covered", s.Months},
		{"From", s.From.Format("2006-01-02")},
		{"To", s.To.Format("2006-01-02")},
		{"Generated at", report.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	if err := writeRows(f, "Sheet1", rows); err != nil {
		return err
	}
	_ = f.SetColWidth("Sheet1", "A", "A", 24)
	_ = f.SetColWidth("Sheet1", "B", "B", 22)

	// Insights below the metrics, separated by a blank row.
	row := 11
	_ = setCell(f, "Sheet1", 1, row, "Insights")
	for i, bullet := range report.Insights {
		if err := setCell(f, "Sheet1", 1, row+1+i, bullet); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthly(f *excelize.File, report *analysis.Report) error {
	if _, err := f.NewSheet(sheetMonthly); err != nil {
		return err
	}

	rows := [][]any{{"Month", "Spend", "Change", "Change %"}}
	for _, p := range report.Monthly {
		row := []any{p.Month.Format("2006-01"), p.Spend.Dollars()}
		if p.HasChange {
			row = append(row, p.Change.Dollars())
		} else {
			row = append(row, "")
		}
		if p.HasPct && !math.IsNaN(p.ChangePct) {
			row = append(row, fmt.Sprintf("%.1f%%", p.ChangePct))
		} else {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, sheetMonthly, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetMonthly, "A", "A", 12)
	_ = f.SetColWidth(sheetMonthly, "B", "D", 14)
	return nil
}

func writeCategories(f *excelize.File, report *analysis.Report) error {
	if _, err := f.NewSheet(sheetCategories); err != nil {
		return err
	}

	rows := [][]any{{"Category", "Spend", "Share"}}
	for _, c := range report.Categories {
		rows = append(rows, []any{
			c.Name,
			c.Spend.Dollars(),
			fmt.Sprintf("%.1f%%", c.Share*100),
		})
	}
	if err := writeRows(f, sheetCategories, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetCategories, "A", "A", 26)
	_ = f.SetColWidth(sheetCategories, "B", "C", 14)
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			if err := setCell(f, sheet, j+1, i+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if m, ok := v.(core.Money); ok {
		v = m.Dollars()
	}
	return f.SetCellValue(sheet, cell, v)
}
