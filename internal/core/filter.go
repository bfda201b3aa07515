package core

import "time"

// Filter restricts a cleaned dataset to a date range and category subset.
// Zero From/To mean open-ended; empty Categories means all.
type Filter struct {
	From       time.Time
	To         time.Time
	Categories []string
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && len(f.Categories) == 0
}

// Apply returns the rows matching the filter. Range bounds are inclusive and
// compared at date precision.
func (f Filter) Apply(rows []Expense) []Expense {
	var cats map[string]struct{}
	if len(f.Categories) > 0 {
		cats = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			cats[NormalizeCategory(c)] = struct{}{}
		}
	}

	out := make([]Expense, 0, len(rows))
	for _, e := range rows {
		if !f.From.IsZero() && dateOf(e.Date).Before(dateOf(f.From)) {
			continue
		}
		if !f.To.IsZero() && dateOf(e.Date).After(dateOf(f.To)) {
			continue
		}
		if cats != nil {
			if _, ok := cats[e.Category]; !ok {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
