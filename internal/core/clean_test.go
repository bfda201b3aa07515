package core

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func debit(t time.Time, cat string, cents int64) Expense {
	return Expense{Date: t, Category: cat, Amount: Money{Cents: -cents}, Type: Debit}
}

func TestCleanDropsPartialMonths(t *testing.T) {
	rows := []Expense{
		debit(day(2025, time.January, 5), "groceries", 1000),
		debit(day(2025, time.January, 28), "groceries", 2000),
		// February stops on the 10th: the whole month must go.
		debit(day(2025, time.February, 3), "groceries", 1500),
		debit(day(2025, time.February, 10), "dining", 500),
	}
	got := Clean(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, e := range got {
		if e.Date.Month() != time.January {
			t.Fatalf("unexpected month %v", e.Date.Month())
		}
	}
}

func TestCleanKeepsOnlyDebits(t *testing.T) {
	rows := []Expense{
		debit(day(2025, time.March, 26), "groceries", 1000),
		{Date: day(2025, time.March, 26), Category: "salary", Amount: Money{Cents: 500000}, Type: Credit},
		{Date: day(2025, time.March, 27), Category: "dining", Amount: Money{Cents: -800}, Type: "debit"},
	}
	got := Clean(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, e := range got {
		if !e.IsDebit() {
			t.Fatalf("non-debit row survived: %+v", e)
		}
	}
}

func TestCleanExcludesTransferCategories(t *testing.T) {
	rows := []Expense{
		debit(day(2025, time.April, 27), " Transfer/PMT ", 10000),
		debit(day(2025, time.April, 27), "Investment", 20000),
		debit(day(2025, time.April, 27), "rental inc", 30000),
		debit(day(2025, time.April, 27), "Groceries", 4000),
	}
	got := Clean(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].Category != "groceries" {
		t.Fatalf("category not normalized: %q", got[0].Category)
	}
}

func TestCleanNormalizesEmptyCategory(t *testing.T) {
	rows := []Expense{
		debit(day(2025, time.May, 30), "  ", 4000),
	}
	got := Clean(rows)
	if len(got) != 1 || got[0].Category != UncategorizedLabel {
		t.Fatalf("got %+v", got)
	}
}

func TestCleanSortsByDate(t *testing.T) {
	rows := []Expense{
		debit(day(2025, time.June, 28), "b", 100),
		debit(day(2025, time.June, 2), "a", 100),
		debit(day(2025, time.June, 15), "c", 100),
	}
	got := Clean(rows)
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("not sorted at %d", i)
		}
	}
}

func TestSpendIsPositiveForDebits(t *testing.T) {
	e := debit(day(2025, time.June, 28), "a", 4250)
	if e.Spend().Cents != 4250 {
		t.Fatalf("got %d", e.Spend().Cents)
	}
}
