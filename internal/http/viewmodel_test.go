package http

import (
	"fmt"
	"testing"
	"time"

	"spendview/internal/analysis"
	"spendview/internal/core"
)

func TestDashboardViewCapsCategoryBars(t *testing.T) {
	var rows []core.Expense
	for i := 0; i < analysis.TopBarCategories+3; i++ {
		rows = append(rows, core.Expense{
			Date:     time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
			Category: fmt.Sprintf("cat%02d", i),
			Amount:   core.Money{Cents: -int64(i+1) * 100_00},
			Type:     core.Debit,
		})
	}
	report, err := analysis.Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	v := buildDashboardView(report)
	if len(v.Categories) != analysis.TopBarCategories {
		t.Fatalf("category bars = %d, want %d", len(v.Categories), analysis.TopBarCategories)
	}
	// Biggest spender leads and gets the full bar.
	if v.Categories[0].Name != fmt.Sprintf("cat%02d", analysis.TopBarCategories+2) {
		t.Errorf("first bar = %q", v.Categories[0].Name)
	}
	if v.Categories[0].Width != 100 {
		t.Errorf("first bar width = %d, want 100", v.Categories[0].Width)
	}
}
