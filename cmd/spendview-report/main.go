// Command spendview-report prints the expense report to stdout, or writes
// it as an XLSX workbook with -xlsx.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"spendview/internal/analysis"
	"spendview/internal/cli"
	"spendview/internal/core"
	"spendview/internal/export"
	"spendview/internal/log"
)

func main() {
	var (
		fromFlag = flag.String("from", "", "start date (YYYY-MM-DD)")
		toFlag   = flag.String("to", "", "end date (YYYY-MM-DD)")
		catsFlag = flag.String("categories", "", "comma-separated category filter")
		xlsxFlag = flag.String("xlsx", "", "write the report to this XLSX file instead of stdout")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)
	loader := cli.SelectLoader(logger, cfg)

	filter, err := buildFilter(*fromFlag, *toFlag, *catsFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := loader.LoadExpenses(ctx)
	if err != nil {
		logger.Error("Failed to load expenses", "error", err)
		os.Exit(1)
	}

	report, err := analysis.Build(filter.Apply(core.Clean(rows)))
	if err != nil {
		logger.Error("Failed to build report", "error", err)
		os.Exit(1)
	}

	if *xlsxFlag != "" {
		data, err := export.ReportXLSX(report)
		if err != nil {
			logger.Error("Failed to write workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxFlag, data, 0644); err != nil {
			logger.Error("Failed to write file", "error", err, "path", *xlsxFlag)
			os.Exit(1)
		}
		logger.Info("Report written", "path", *xlsxFlag)
		return
	}

	printReport(report)
}

func buildFilter(from, to, cats string) (core.Filter, error) {
	var f core.Filter
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid -from date %q: use YYYY-MM-DD", from)
		}
		f.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return core.Filter{}, fmt.Errorf("invalid -to date %q: use YYYY-MM-DD", to)
		}
		f.To = t
	}
	for _, c := range strings.Split(cats, ",") {
		if strings.TrimSpace(c) == "" {
			continue
		}
		f.Categories = append(f.Categories, core.NormalizeCategory(c))
	}
	return f, nil
}

func printReport(r *analysis.Report) {
	s := r.Summary
	fmt.Printf("Expense report %s to %s (%d months, %d transactions)\n",
		s.From.Format("2006-01-02"), s.To.Format("2006-01-02"), s.Months, s.Transactions)
	fmt.Printf("Total %s | avg monthly %s | median monthly %s\n\n",
		core.FormatUSD(s.Total.Cents), core.FormatUSD(s.AvgMonthly.Cents), core.FormatUSD(s.MedianMonthly.Cents))

	fmt.Println("Monthly spend:")
	for _, p := range r.Monthly {
		line := fmt.Sprintf("  %s  %12s", p.Month.Format("2006-01"), core.FormatUSD(p.Spend.Cents))
		if p.HasPct && !math.IsNaN(p.ChangePct) {
			line += fmt.Sprintf("  (%+.1f%%)", p.ChangePct)
		}
		fmt.Println(line)
	}

	cats := r.Categories
	if len(cats) > analysis.TopBarCategories {
		cats = cats[:analysis.TopBarCategories]
	}
	fmt.Println("\nTop categories:")
	for _, c := range cats {
		fmt.Printf("  %-24s %12s  %5.1f%%\n", c.Name, core.FormatUSD(c.Spend.Cents), c.Share*100)
	}

	if len(r.Ranges) > 0 {
		fmt.Println("\nCategory monthly ranges (min / median / max):")
		for _, rs := range r.Ranges {
			fmt.Printf("  %-24s %10s / %10s / %10s over %d months\n",
				rs.Name, core.FormatUSD(rs.Min.Cents), core.FormatUSD(rs.Median.Cents), core.FormatUSD(rs.Max.Cents), rs.Months)
		}
	}

	if m := r.Correlations; m != nil {
		fmt.Printf("\nCorrelations across %d months:\n", m.Months)
		if p := m.StrongestPositive; p != nil {
			fmt.Printf("  strongest positive: %s vs %s (%.2f)\n", p.A, p.B, p.R)
		}
		if p := m.StrongestNegative; p != nil {
			fmt.Printf("  strongest negative: %s vs %s (%.2f)\n", p.A, p.B, p.R)
		}
	}

	if len(r.Insights) > 0 {
		fmt.Println("\nInsights:")
		for _, bullet := range r.Insights {
			fmt.Println("  - " + bullet)
		}
	}
}
