package analysis

import (
	"testing"
	"time"

	"spendview/internal/core"
)

func spend(y int, m time.Month, d int, cat string, cents int64) core.Expense {
	return core.Expense{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Category: cat,
		Amount:   core.Money{Cents: -cents},
		Type:     core.Debit,
	}
}

func TestBuildEmptyDataset(t *testing.T) {
	if _, err := Build(nil); err != core.ErrEmptyDataset {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestBuildSummary(t *testing.T) {
	rows := []core.Expense{
		spend(2025, time.January, 5, "groceries", 100_00),
		spend(2025, time.January, 20, "dining", 300_00),
		spend(2025, time.February, 5, "groceries", 200_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Summary.Total.Cents != 600_00 {
		t.Fatalf("total = %d", r.Summary.Total.Cents)
	}
	if r.Summary.Transactions != 3 {
		t.Fatalf("transactions = %d", r.Summary.Transactions)
	}
	if r.Summary.Months != 2 {
		t.Fatalf("months = %d", r.Summary.Months)
	}
	// January 400, February 200 -> avg 300, median 300
	if r.Summary.AvgMonthly.Cents != 300_00 {
		t.Fatalf("avg monthly = %d", r.Summary.AvgMonthly.Cents)
	}
	if r.Summary.MedianMonthly.Cents != 300_00 {
		t.Fatalf("median monthly = %d", r.Summary.MedianMonthly.Cents)
	}
}

func TestMonthlySeriesChanges(t *testing.T) {
	rows := []core.Expense{
		spend(2025, time.January, 5, "a", 100_00),
		spend(2025, time.February, 5, "a", 150_00),
		spend(2025, time.March, 5, "a", 75_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(r.Monthly) != 3 {
		t.Fatalf("months = %d", len(r.Monthly))
	}
	first := r.Monthly[0]
	if first.HasChange || first.HasPct {
		t.Fatal("first month should have no deltas")
	}
	feb := r.Monthly[1]
	if !feb.HasChange || feb.Change.Cents != 50_00 {
		t.Fatalf("feb change = %+v", feb)
	}
	if !feb.HasPct || !almostEqual(feb.ChangePct, 50) {
		t.Fatalf("feb pct = %v", feb.ChangePct)
	}
	mar := r.Monthly[2]
	if mar.Change.Cents != -75_00 || !almostEqual(mar.ChangePct, -50) {
		t.Fatalf("mar deltas = %+v", mar)
	}
}

func TestCategoryTotalsSortedWithShare(t *testing.T) {
	rows := []core.Expense{
		spend(2025, time.January, 5, "rent", 1000_00),
		spend(2025, time.January, 6, "groceries", 250_00),
		spend(2025, time.January, 7, "groceries", 250_00),
		spend(2025, time.January, 8, "dining", 500_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"rent", "dining", "groceries"}
	for i, name := range want {
		if r.Categories[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, r.Categories[i].Name, name)
		}
	}
	if !almostEqual(r.Categories[0].Share, 0.5) {
		t.Fatalf("rent share = %v", r.Categories[0].Share)
	}
}

func TestHistogramBinsAlignedToBinSize(t *testing.T) {
	// Monthly spends: 1500, 2500, 8100 dollars
	rows := []core.Expense{
		spend(2025, time.January, 5, "a", 1500_00),
		spend(2025, time.February, 5, "a", 2500_00),
		spend(2025, time.March, 5, "a", 8100_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// min 1500 -> bin floor 0; max 8100 -> upper edge 10000
	bins := r.Histogram
	if len(bins) != 5 {
		t.Fatalf("bins = %d", len(bins))
	}
	if bins[0].Low.Cents != 0 || bins[len(bins)-1].High.Cents != 10_000_00 {
		t.Fatalf("edges = %d..%d", bins[0].Low.Cents, bins[len(bins)-1].High.Cents)
	}
	counts := []int{1, 1, 0, 0, 1}
	for i, want := range counts {
		if bins[i].Count != want {
			t.Fatalf("bin %d count = %d, want %d", i, bins[i].Count, want)
		}
	}
}

func TestRangeStatsQuartiles(t *testing.T) {
	rows := []core.Expense{
		spend(2025, time.January, 5, "a", 100_00),
		spend(2025, time.February, 5, "a", 200_00),
		spend(2025, time.March, 5, "a", 300_00),
		spend(2025, time.April, 5, "a", 400_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(r.Ranges) != 1 {
		t.Fatalf("ranges = %d", len(r.Ranges))
	}
	rs := r.Ranges[0]
	if rs.Min.Cents != 100_00 || rs.Max.Cents != 400_00 {
		t.Fatalf("min/max = %d/%d", rs.Min.Cents, rs.Max.Cents)
	}
	if rs.Median.Cents != 250_00 {
		t.Fatalf("median = %d", rs.Median.Cents)
	}
	if rs.Q1.Cents != 175_00 || rs.Q3.Cents != 325_00 {
		t.Fatalf("q1/q3 = %d/%d", rs.Q1.Cents, rs.Q3.Cents)
	}
}

func TestRangeStatsCountMissingMonthsAsZero(t *testing.T) {
	rows := []core.Expense{
		spend(2025, time.January, 5, "a", 100_00),
		spend(2025, time.February, 5, "a", 100_00),
		spend(2025, time.March, 5, "a", 100_00),
		spend(2025, time.April, 5, "a", 100_00),
		spend(2025, time.February, 10, "b", 500_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var b *RangeStat
	for i := range r.Ranges {
		if r.Ranges[i].Name == "b" {
			b = &r.Ranges[i]
		}
	}
	if b == nil {
		t.Fatalf("no range stats for b: %+v", r.Ranges)
	}
	// b appears in 1 of 4 covered months; the other three count as $0.
	if b.Months != 4 {
		t.Fatalf("months = %d, want 4", b.Months)
	}
	if b.Min.Cents != 0 || b.Median.Cents != 0 {
		t.Fatalf("min/median = %d/%d, want 0/0", b.Min.Cents, b.Median.Cents)
	}
	if b.Max.Cents != 500_00 {
		t.Fatalf("max = %d", b.Max.Cents)
	}
}

func TestStackedPivotFillsZero(t *testing.T) {
	rows := []core.Expense{
		spend(2025, time.January, 5, "a", 100_00),
		spend(2025, time.January, 6, "b", 50_00),
		spend(2025, time.February, 5, "a", 200_00),
	}
	r, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st := r.Stacked
	if len(st.Months) != 2 || len(st.Categories) != 2 {
		t.Fatalf("dims = %dx%d", len(st.Months), len(st.Categories))
	}
	// Categories ordered by total spend: a (300), b (50)
	if st.Categories[0] != "a" || st.Categories[1] != "b" {
		t.Fatalf("categories = %v", st.Categories)
	}
	if st.Cells[1][1] != 0 {
		t.Fatalf("missing cell should be zero, got %d", st.Cells[1][1])
	}
	if st.Cells[1][0] != 200_00 {
		t.Fatalf("cell = %d", st.Cells[1][0])
	}
}
