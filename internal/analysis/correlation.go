package analysis

import (
	"math"
	"sort"
	"time"

	"spendview/internal/core"
)

// pivot is the sparse month x category spend table every cross-category
// statistic is derived from. A missing entry means the category had no rows
// that month, which is distinct from zero spend.
type pivot struct {
	months []time.Time
	cells  map[string]map[time.Time]int64 // category -> month -> spend cents
}

func pivotMonthly(rows []core.Expense) pivot {
	p := pivot{cells: map[string]map[time.Time]int64{}}
	seen := map[time.Time]struct{}{}
	for _, e := range rows {
		m := core.MonthOf(e.Date)
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			p.months = append(p.months, m)
		}
		byMonth := p.cells[e.Category]
		if byMonth == nil {
			byMonth = map[time.Time]int64{}
			p.cells[e.Category] = byMonth
		}
		byMonth[m] += e.Spend().Cents
	}
	sort.Slice(p.months, func(i, j int) bool { return p.months[i].Before(p.months[j]) })
	return p
}

// series returns the monthly spend values of one category, months without
// data omitted, ordered by month.
func (p pivot) series(category string) []float64 {
	byMonth := p.cells[category]
	if len(byMonth) == 0 {
		return nil
	}
	out := make([]float64, 0, len(byMonth))
	for _, m := range p.months {
		if v, ok := byMonth[m]; ok {
			out = append(out, float64(v))
		}
	}
	return out
}

// denseSeries returns the monthly spend values of one category across every
// covered month, zero for months without data. Nil when the category never
// appears.
func (p pivot) denseSeries(category string) []float64 {
	if len(p.cells[category]) == 0 {
		return nil
	}
	out := make([]float64, len(p.months))
	for i, m := range p.months {
		out[i] = float64(p.cells[category][m])
	}
	return out
}

// subset materializes the dense pivot for the given categories, filling
// missing months with zero. Used by the stacked monthly view.
func (p pivot) subset(names []string) CategoryMonthly {
	cm := CategoryMonthly{Months: p.months, Categories: names}
	cm.Cells = make([][]int64, len(p.months))
	for i, m := range p.months {
		row := make([]int64, len(names))
		for j, name := range names {
			row[j] = p.cells[name][m]
		}
		cm.Cells[i] = row
	}
	return cm
}

type (
	// CorrelationPair names two categories and their Pearson coefficient.
	CorrelationPair struct {
		A, B string
		R    float64
	}

	// CorrelationMatrix holds pairwise Pearson correlations of monthly
	// spend between categories with at least MinCorrelationMonths months
	// of data. Values[i][j] is NaN on the diagonal and for pairs without
	// enough overlapping months.
	CorrelationMatrix struct {
		Categories []string
		Values     [][]float64
		Months     int

		StrongestPositive *CorrelationPair
		StrongestNegative *CorrelationPair
	}
)

// correlations builds the correlation matrix, or nil when fewer than two
// categories have enough history.
func correlations(p pivot) *CorrelationMatrix {
	var eligible []string
	for name, byMonth := range p.cells {
		if len(byMonth) >= MinCorrelationMonths {
			eligible = append(eligible, name)
		}
	}
	if len(eligible) < 2 {
		return nil
	}
	sort.Strings(eligible)

	m := &CorrelationMatrix{
		Categories: eligible,
		Values:     make([][]float64, len(eligible)),
		Months:     len(p.months),
	}
	for i := range eligible {
		m.Values[i] = make([]float64, len(eligible))
		for j := range eligible {
			m.Values[i][j] = math.NaN()
		}
	}

	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			r := pairwisePearson(p, eligible[i], eligible[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
			if math.IsNaN(r) {
				continue
			}
			if m.StrongestPositive == nil || r > m.StrongestPositive.R {
				m.StrongestPositive = &CorrelationPair{A: eligible[i], B: eligible[j], R: r}
			}
			if m.StrongestNegative == nil || r < m.StrongestNegative.R {
				m.StrongestNegative = &CorrelationPair{A: eligible[i], B: eligible[j], R: r}
			}
		}
	}
	return m
}

// pairwisePearson correlates two categories over the months where both have
// data, so sparse categories do not drag the coefficient toward zero.
func pairwisePearson(p pivot, a, b string) float64 {
	am, bm := p.cells[a], p.cells[b]
	var xs, ys []float64
	for _, month := range p.months {
		av, aok := am[month]
		bv, bok := bm[month]
		if aok && bok {
			xs = append(xs, float64(av))
			ys = append(ys, float64(bv))
		}
	}
	return pearson(xs, ys)
}
