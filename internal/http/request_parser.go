package http

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"spendview/internal/core"
)

const filterDateLayout = "2006-01-02"

// ParseFilter extracts the dashboard filter from query parameters. Dates use
// YYYY-MM-DD; the category parameter repeats for multi-select. Bad values
// fail rather than being silently dropped so the UI can show the problem.
func ParseFilter(query url.Values) (core.Filter, error) {
	var f core.Filter

	if v := strings.TrimSpace(query.Get("from")); v != "" {
		t, err := time.Parse(filterDateLayout, v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid from date %q: use YYYY-MM-DD", v)
		}
		f.From = t
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		t, err := time.Parse(filterDateLayout, v)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid to date %q: use YYYY-MM-DD", v)
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return core.Filter{}, fmt.Errorf("to date %s is before from date %s",
			f.To.Format(filterDateLayout), f.From.Format(filterDateLayout))
	}

	for _, v := range query["category"] {
		if strings.TrimSpace(v) == "" {
			continue
		}
		f.Categories = append(f.Categories, core.NormalizeCategory(v))
	}

	return f, nil
}

// filterCacheKey produces a stable cache key for a filter.
func filterCacheKey(f core.Filter) string {
	cats := make([]string, len(f.Categories))
	copy(cats, f.Categories)
	sort.Strings(cats)

	var b strings.Builder
	if !f.From.IsZero() {
		b.WriteString(f.From.Format(filterDateLayout))
	}
	b.WriteByte('|')
	if !f.To.IsZero() {
		b.WriteString(f.To.Format(filterDateLayout))
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(cats, ","))
	return b.String()
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
