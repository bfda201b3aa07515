package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"spendview/internal/analysis"
	"spendview/internal/core"
)

func buildTestReport(t *testing.T) *analysis.Report {
	t.Helper()
	rows := []core.Expense{
		{Date: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), Category: "groceries", Amount: core.Money{Cents: -10000}, Type: core.Debit},
		{Date: time.Date(2025, time.January, 28, 0, 0, 0, 0, time.UTC), Category: "dining", Amount: core.Money{Cents: -5000}, Type: core.Debit},
		{Date: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), Category: "groceries", Amount: core.Money{Cents: -20000}, Type: core.Debit},
		{Date: time.Date(2025, time.February, 26, 0, 0, 0, 0, time.UTC), Category: "dining", Amount: core.Money{Cents: -2500}, Type: core.Debit},
	}
	report, err := analysis.Build(core.Clean(rows))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return report
}

func TestReportXLSX(t *testing.T) {
	data, err := ReportXLSX(buildTestReport(t))
	if err != nil {
		t.Fatalf("ReportXLSX: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{sheetSummary, sheetMonthly, sheetCategories} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
			t.Errorf("missing sheet %q (idx=%d, err=%v)", sheet, idx, err)
		}
	}

	got, err := f.GetCellValue(sheetMonthly, "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "2025-01" {
		t.Errorf("Monthly!A2 = %q, want 2025-01", got)
	}

	cat, err := f.GetCellValue(sheetCategories, "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if cat != "groceries" {
		t.Errorf("Categories!A2 = %q, want groceries", cat)
	}
}
