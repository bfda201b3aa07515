// Package analysis computes the descriptive statistics behind the expense
// dashboard and report: monthly spend series, category breakdowns,
// distributions, correlations, and plain-text insights.
package analysis

import (
	"math"
	"sort"
	"time"

	"spendview/internal/core"
)

const (
	// HistogramBinCents is the fixed width of the monthly-spend
	// distribution bins ($2,000).
	HistogramBinCents = 200_000

	// TopBarCategories is how many categories the horizontal bar list shows.
	TopBarCategories = 12
	// TopStackedCategories is how many categories the stacked monthly view shows.
	TopStackedCategories = 6
	// TopRangeCategories is how many categories the range/box table shows.
	TopRangeCategories = 10

	// MinCorrelationMonths is the minimum number of months of data a
	// category needs to participate in the correlation matrix.
	MinCorrelationMonths = 4

	// MaxInsights caps the insight bullet list.
	MaxInsights = 7
)

type (
	// Summary holds the headline metric tiles.
	Summary struct {
		Total         core.Money
		AvgMonthly    core.Money
		MedianMonthly core.Money
		Transactions  int
		Months        int
		From          time.Time
		To            time.Time
	}

	// MonthlyPoint is one month of the spend series with month-over-month
	// deltas. HasChange is false for the first month; HasPct is false when
	// the previous month's spend was zero.
	MonthlyPoint struct {
		Month     time.Time
		Spend     core.Money
		Change    core.Money
		ChangePct float64
		HasChange bool
		HasPct    bool
	}

	// CategoryTotal is the aggregate spend of one category over the whole
	// filtered window. Share is the fraction of total spend in [0,1].
	CategoryTotal struct {
		Name  string
		Spend core.Money
		Share float64
	}

	// CategoryMonthly is the month x category pivot used for the stacked
	// view. Cells[i][j] is the spend of Categories[j] in Months[i], zero
	// when the category had no rows that month.
	CategoryMonthly struct {
		Months     []time.Time
		Categories []string
		Cells      [][]int64
	}

	// HistogramBin is one fixed-width bucket of the monthly spend
	// distribution. The upper bound is exclusive except for the last bin.
	HistogramBin struct {
		Low   core.Money
		High  core.Money
		Count int
	}

	// RangeStat summarizes the spread of one category's monthly spend.
	RangeStat struct {
		Name   string
		Months int
		Min    core.Money
		Q1     core.Money
		Median core.Money
		Q3     core.Money
		Max    core.Money
	}

	// Report is everything the dashboard and the report CLI render.
	Report struct {
		Summary       Summary
		Monthly       []MonthlyPoint
		Categories    []CategoryTotal
		Stacked       CategoryMonthly
		Histogram     []HistogramBin
		Ranges        []RangeStat
		Correlations  *CorrelationMatrix
		Insights      []string
		GeneratedAt   time.Time
	}
)

// Build computes the full report over a cleaned, filtered dataset. It
// returns core.ErrEmptyDataset when no rows remain.
func Build(rows []core.Expense) (*Report, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	monthly := monthlySeries(rows)
	cats := categoryTotals(rows)
	pivot := pivotMonthly(rows)

	r := &Report{
		Summary:      buildSummary(rows, monthly),
		Monthly:      monthly,
		Categories:   cats,
		Stacked:      pivot.subset(topNames(cats, TopStackedCategories)),
		Histogram:    histogram(monthly),
		Ranges:       rangeStats(pivot, topNames(cats, TopRangeCategories)),
		Correlations: correlations(pivot),
		GeneratedAt:  time.Now().UTC(),
	}
	r.Insights = insights(r, pivot)
	return r, nil
}

func buildSummary(rows []core.Expense, monthly []MonthlyPoint) Summary {
	var total int64
	for _, e := range rows {
		total += e.Spend().Cents
	}
	spends := make([]float64, len(monthly))
	for i, m := range monthly {
		spends[i] = float64(m.Spend.Cents)
	}
	return Summary{
		Total:         core.Money{Cents: total},
		AvgMonthly:    core.Money{Cents: int64(math.Round(mean(spends)))},
		MedianMonthly: core.Money{Cents: int64(math.Round(median(spends)))},
		Transactions:  len(rows),
		Months:        len(monthly),
		From:          rows[0].Date,
		To:            rows[len(rows)-1].Date,
	}
}

func monthlySeries(rows []core.Expense) []MonthlyPoint {
	byMonth := map[time.Time]int64{}
	for _, e := range rows {
		byMonth[core.MonthOf(e.Date)] += e.Spend().Cents
	}
	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]MonthlyPoint, len(months))
	for i, m := range months {
		p := MonthlyPoint{Month: m, Spend: core.Money{Cents: byMonth[m]}}
		if i > 0 {
			prev := byMonth[months[i-1]]
			p.Change = core.Money{Cents: p.Spend.Cents - prev}
			p.HasChange = true
			if prev != 0 {
				p.ChangePct = float64(p.Spend.Cents-prev) / float64(prev) * 100
				p.HasPct = true
			}
		}
		out[i] = p
	}
	return out
}

func categoryTotals(rows []core.Expense) []CategoryTotal {
	byCat := map[string]int64{}
	var total int64
	for _, e := range rows {
		byCat[e.Category] += e.Spend().Cents
		total += e.Spend().Cents
	}
	out := make([]CategoryTotal, 0, len(byCat))
	for name, cents := range byCat {
		ct := CategoryTotal{Name: name, Spend: core.Money{Cents: cents}}
		if total != 0 {
			ct.Share = float64(cents) / float64(total)
		}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend.Cents != out[j].Spend.Cents {
			return out[i].Spend.Cents > out[j].Spend.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func topNames(cats []CategoryTotal, n int) []string {
	if n > len(cats) {
		n = len(cats)
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = cats[i].Name
	}
	return names
}

// histogram buckets the monthly spend values into fixed $2,000-wide bins
// aligned to bin-size multiples, covering min..max inclusive.
func histogram(monthly []MonthlyPoint) []HistogramBin {
	if len(monthly) == 0 {
		return nil
	}
	minV, maxV := monthly[0].Spend.Cents, monthly[0].Spend.Cents
	for _, m := range monthly[1:] {
		if m.Spend.Cents < minV {
			minV = m.Spend.Cents
		}
		if m.Spend.Cents > maxV {
			maxV = m.Spend.Cents
		}
	}
	low := floorDiv(minV, HistogramBinCents) * HistogramBinCents
	high := (floorDiv(maxV, HistogramBinCents) + 1) * HistogramBinCents

	n := int((high - low) / HistogramBinCents)
	bins := make([]HistogramBin, n)
	for i := range bins {
		bins[i] = HistogramBin{
			Low:  core.Money{Cents: low + int64(i)*HistogramBinCents},
			High: core.Money{Cents: low + int64(i+1)*HistogramBinCents},
		}
	}
	for _, m := range monthly {
		idx := int((m.Spend.Cents - low) / HistogramBinCents)
		if idx >= n {
			idx = n - 1
		}
		bins[idx].Count++
	}
	return bins
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// rangeStats computes min/quartile/max of monthly spend for the given
// categories over every covered month. A month without spend counts as
// zero, so sparse categories show a zero floor rather than a shrunken
// window.
func rangeStats(p pivot, names []string) []RangeStat {
	out := make([]RangeStat, 0, len(names))
	for _, name := range names {
		vals := p.denseSeries(name)
		if len(vals) == 0 {
			continue
		}
		out = append(out, RangeStat{
			Name:   name,
			Months: len(vals),
			Min:    core.Money{Cents: int64(math.Round(quantile(vals, 0)))},
			Q1:     core.Money{Cents: int64(math.Round(quantile(vals, 0.25)))},
			Median: core.Money{Cents: int64(math.Round(quantile(vals, 0.5)))},
			Q3:     core.Money{Cents: int64(math.Round(quantile(vals, 0.75)))},
			Max:    core.Money{Cents: int64(math.Round(quantile(vals, 1)))},
		})
	}
	return out
}
