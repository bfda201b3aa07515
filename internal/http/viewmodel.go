package http

import (
	"fmt"
	"math"
	"time"

	"spendview/internal/analysis"
	"spendview/internal/core"
)

// dashboardView is the template data for the dashboard partial.
type dashboardView struct {
	Summary      summaryView
	Monthly      []monthlyRow
	Categories   []categoryRow
	Stacked      stackedView
	Histogram    []histogramRow
	Ranges       []rangeRow
	Correlations *correlationView
	Insights     []string
	GeneratedAt  string
}

type summaryView struct {
	Total        string
	AvgMonthly   string
	Median       string
	Transactions int
	Months       int
	From         string
	To           string
}

type monthlyRow struct {
	Month  string
	Spend  string
	Change string
	Pct    string
	Width  int
}

type categoryRow struct {
	Name  string
	Spend string
	Share string
	Width int
}

type stackedView struct {
	Categories []string
	Rows       []stackedRow
}

type stackedRow struct {
	Month    string
	Segments []stackedSegment
}

type stackedSegment struct {
	Name  string
	Spend string
	Width int
}

type histogramRow struct {
	Label string
	Count int
	Width int
}

type rangeRow struct {
	Name   string
	Months int
	Min    string
	Q1     string
	Median string
	Q3     string
	Max    string
}

type correlationView struct {
	Categories []string
	Rows       [][]string
	Months     int
	Strongest  []string
}

// buildDashboardView formats a report for the dashboard templates.
func buildDashboardView(report *analysis.Report) dashboardView {
	v := dashboardView{
		Summary: summaryView{
			Total:        core.FormatUSD(report.Summary.Total.Cents),
			AvgMonthly:   core.FormatUSD(report.Summary.AvgMonthly.Cents),
			Median:       core.FormatUSD(report.Summary.MedianMonthly.Cents),
			Transactions: report.Summary.Transactions,
			Months:       report.Summary.Months,
			From:         report.Summary.From.Format("2006-01-02"),
			To:           report.Summary.To.Format("2006-01-02"),
		},
		Insights:    report.Insights,
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
	}

	var maxMonthly int64
	for _, p := range report.Monthly {
		if p.Spend.Cents > maxMonthly {
			maxMonthly = p.Spend.Cents
		}
	}
	for _, p := range report.Monthly {
		row := monthlyRow{
			Month: p.Month.Format("Jan 2006"),
			Spend: core.FormatUSD(p.Spend.Cents),
			Width: barWidth(p.Spend.Cents, maxMonthly),
		}
		if p.HasChange {
			row.Change = signedUSD(p.Change.Cents)
		}
		if p.HasPct && !math.IsNaN(p.ChangePct) {
			row.Pct = fmt.Sprintf("%+.1f%%", p.ChangePct)
		}
		v.Monthly = append(v.Monthly, row)
	}

	topCats := report.Categories
	if len(topCats) > analysis.TopBarCategories {
		topCats = topCats[:analysis.TopBarCategories]
	}
	var maxCategory int64
	for _, c := range topCats {
		if c.Spend.Cents > maxCategory {
			maxCategory = c.Spend.Cents
		}
	}
	for _, c := range topCats {
		v.Categories = append(v.Categories, categoryRow{
			Name:  c.Name,
			Spend: core.FormatUSD(c.Spend.Cents),
			Share: fmt.Sprintf("%.1f%%", c.Share*100),
			Width: barWidth(c.Spend.Cents, maxCategory),
		})
	}

	v.Stacked = buildStackedView(report.Stacked)

	maxCount := 0
	for _, b := range report.Histogram {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for _, b := range report.Histogram {
		v.Histogram = append(v.Histogram, histogramRow{
			Label: fmt.Sprintf("%s to %s", core.FormatUSD(b.Low.Cents), core.FormatUSD(b.High.Cents)),
			Count: b.Count,
			Width: barWidth(int64(b.Count), int64(maxCount)),
		})
	}

	for _, r := range report.Ranges {
		v.Ranges = append(v.Ranges, rangeRow{
			Name:   r.Name,
			Months: r.Months,
			Min:    core.FormatUSD(r.Min.Cents),
			Q1:     core.FormatUSD(r.Q1.Cents),
			Median: core.FormatUSD(r.Median.Cents),
			Q3:     core.FormatUSD(r.Q3.Cents),
			Max:    core.FormatUSD(r.Max.Cents),
		})
	}

	if report.Correlations != nil {
		v.Correlations = buildCorrelationView(report.Correlations)
	}

	return v
}

func buildStackedView(cm analysis.CategoryMonthly) stackedView {
	sv := stackedView{Categories: cm.Categories}

	var maxTotal int64
	totals := make([]int64, len(cm.Months))
	for i := range cm.Months {
		var total int64
		for j := range cm.Categories {
			total += cm.Cells[i][j]
		}
		totals[i] = total
		if total > maxTotal {
			maxTotal = total
		}
	}

	for i, month := range cm.Months {
		row := stackedRow{Month: month.Format("Jan 2006")}
		for j, name := range cm.Categories {
			cents := cm.Cells[i][j]
			if cents == 0 {
				continue
			}
			row.Segments = append(row.Segments, stackedSegment{
				Name:  name,
				Spend: core.FormatUSD(cents),
				Width: barWidth(cents, maxTotal),
			})
		}
		sv.Rows = append(sv.Rows, row)
	}
	return sv
}

func buildCorrelationView(m *analysis.CorrelationMatrix) *correlationView {
	cv := &correlationView{
		Categories: m.Categories,
		Months:     m.Months,
	}
	for i := range m.Categories {
		row := make([]string, len(m.Categories))
		for j := range m.Categories {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				row[j] = "-"
			} else {
				row[j] = fmt.Sprintf("%.2f", r)
			}
		}
		cv.Rows = append(cv.Rows, row)
	}
	if p := m.StrongestPositive; p != nil {
		cv.Strongest = append(cv.Strongest, fmt.Sprintf("%s and %s move together (r=%.2f)", p.A, p.B, p.R))
	}
	if p := m.StrongestNegative; p != nil {
		cv.Strongest = append(cv.Strongest, fmt.Sprintf("%s and %s trade off (r=%.2f)", p.A, p.B, p.R))
	}
	return cv
}

// barWidth scales a value to a 0-100 percent width, keeping tiny non-zero
// values visible.
func barWidth(value, max int64) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	width := int((value*100 + max/2) / max)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func signedUSD(cents int64) string {
	if cents < 0 {
		return "-" + core.FormatUSD(-cents)
	}
	return "+" + core.FormatUSD(cents)
}
