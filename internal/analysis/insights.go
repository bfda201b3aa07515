package analysis

import (
	"fmt"
	"math"
	"sort"

	"spendview/internal/core"
)

// insights renders the bullet list shown under the dashboard charts. The
// order is fixed; correlation bullets are appended last and the total is
// capped at MaxInsights.
func insights(r *Report, p pivot) []string {
	var out []string

	out = append(out, fmt.Sprintf("Date range: %s to %s across %d months.",
		r.Summary.From.Format("2006-01-02"), r.Summary.To.Format("2006-01-02"), r.Summary.Months))

	if r.Summary.Months > 0 {
		out = append(out, fmt.Sprintf("Median monthly spend: %s.", core.FormatUSD(r.Summary.MedianMonthly.Cents)))
	}

	if len(r.Categories) > 0 && r.Summary.Total.Cents > 0 {
		top := r.Categories[0]
		out = append(out, fmt.Sprintf("Top category is '%s' at %s (%.0f%% of spend).",
			top.Name, core.FormatUSD(top.Spend.Cents), top.Share*100))
	}

	if stable, variable, ok := spreadInsights(p); ok {
		out = append(out, stable, variable)
	}

	var corr []string
	if c := r.Correlations; c != nil {
		if c.StrongestNegative != nil {
			corr = append(corr, fmt.Sprintf("Strongest negative correlation: %s vs %s (%.2f).",
				c.StrongestNegative.A, c.StrongestNegative.B, c.StrongestNegative.R))
		}
		if c.StrongestPositive != nil {
			corr = append(corr, fmt.Sprintf("Strongest positive correlation: %s vs %s (%.2f).",
				c.StrongestPositive.A, c.StrongestPositive.B, c.StrongestPositive.R))
		}
	}

	if len(corr) > 0 {
		remaining := MaxInsights - len(corr)
		if remaining < 0 {
			remaining = 0
		}
		if len(out) > remaining {
			out = out[:remaining]
		}
		out = append(out, corr...)
	} else if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

// spreadInsights finds the most stable and most variable categories by
// monthly spend range, among categories with at least two months of data.
func spreadInsights(p pivot) (stable, variable string, ok bool) {
	type spread struct {
		name  string
		cents int64
	}
	var minS, maxS *spread
	var maxPctName string
	maxPct := math.Inf(-1)

	names := make([]string, 0, len(p.cells))
	for name := range p.cells {
		names = append(names, name)
	}
	// Deterministic tie-breaking
	sort.Strings(names)

	for _, name := range names {
		vals := p.series(name)
		if len(vals) < 2 {
			continue
		}
		lo, hi := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		rng := int64(hi - lo)
		if minS == nil || rng < minS.cents {
			minS = &spread{name: name, cents: rng}
		}
		if maxS == nil || rng > maxS.cents {
			maxS = &spread{name: name, cents: rng}
		}
		// Largest absolute month-over-month percent change, skipping
		// zero-spend previous months.
		for i := 1; i < len(vals); i++ {
			if vals[i-1] == 0 {
				continue
			}
			pct := math.Abs((vals[i] - vals[i-1]) / vals[i-1] * 100)
			if pct > maxPct {
				maxPct = pct
				maxPctName = name
			}
		}
	}
	if minS == nil || maxS == nil {
		return "", "", false
	}

	stable = fmt.Sprintf("Most stable category: '%s' with a %s monthly range.",
		minS.name, core.FormatUSD(minS.cents))
	if maxPctName != "" {
		variable = fmt.Sprintf("Most variable category: '%s' with a %s range; largest MoM %% change in '%s' at %.0f%%.",
			maxS.name, core.FormatUSD(maxS.cents), maxPctName, maxPct)
	} else {
		variable = fmt.Sprintf("Most variable category: '%s' with a %s range.",
			maxS.name, core.FormatUSD(maxS.cents))
	}
	return stable, variable, true
}
