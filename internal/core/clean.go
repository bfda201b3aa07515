package core

import (
	"sort"
	"strings"
	"time"
)

// CoverageDay is the minimum day-of-month the latest transaction of a month
// must reach for the month to count as fully tracked. Months that stopped
// earlier are dropped so partial months do not skew monthly statistics.
const CoverageDay = 25

// ExcludedCategories are internal transfers and non-spending rows that are
// filtered out of every analysis.
var ExcludedCategories = map[string]struct{}{
	"transfer/pmt": {},
	"investment":   {},
	"rental inc":   {},
}

// Clean applies the dataset rules to raw export rows, in order:
//
//  1. keep only months with data through at least CoverageDay
//  2. keep only DEBIT rows
//  3. drop excluded categories
//  4. normalize category labels
//
// The returned slice is sorted by date ascending.
func Clean(rows []Expense) []Expense {
	covered := coverageMonths(rows)

	out := make([]Expense, 0, len(rows))
	for _, e := range rows {
		if e.Date.IsZero() {
			continue
		}
		if _, ok := covered[MonthOf(e.Date)]; !ok {
			continue
		}
		if !e.IsDebit() {
			continue
		}
		cat := NormalizeCategory(e.Category)
		if _, excluded := ExcludedCategories[cat]; excluded {
			continue
		}
		e.Category = cat
		e.Description = strings.TrimSpace(e.Description)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// coverageMonths returns the set of month starts whose latest row date is on
// or after CoverageDay.
func coverageMonths(rows []Expense) map[time.Time]struct{} {
	latest := map[time.Time]time.Time{}
	for _, e := range rows {
		if e.Date.IsZero() {
			continue
		}
		m := MonthOf(e.Date)
		if e.Date.After(latest[m]) {
			latest[m] = e.Date
		}
	}
	covered := make(map[time.Time]struct{}, len(latest))
	for m, d := range latest {
		if d.Day() >= CoverageDay {
			covered[m] = struct{}{}
		}
	}
	return covered
}
