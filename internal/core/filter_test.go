package core

import (
	"testing"
	"time"
)

func TestFilterApply(t *testing.T) {
	rows := []Expense{
		debit(day(2025, time.January, 10), "groceries", 100),
		debit(day(2025, time.February, 10), "dining", 200),
		debit(day(2025, time.March, 10), "groceries", 300),
	}

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"zero filter keeps all", Filter{}, 3},
		{"from bound inclusive", Filter{From: day(2025, time.February, 10)}, 2},
		{"to bound inclusive", Filter{To: day(2025, time.February, 10)}, 2},
		{"range", Filter{From: day(2025, time.February, 1), To: day(2025, time.February, 28)}, 1},
		{"category subset", Filter{Categories: []string{"groceries"}}, 2},
		{"category normalized", Filter{Categories: []string{" Groceries "}}, 2},
		{"no match", Filter{Categories: []string{"travel"}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Apply(rows); len(got) != tc.want {
				t.Fatalf("got %d rows, want %d", len(got), tc.want)
			}
		})
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Fatal("empty filter should be zero")
	}
	if (Filter{Categories: []string{"a"}}).IsZero() {
		t.Fatal("category filter should not be zero")
	}
}
