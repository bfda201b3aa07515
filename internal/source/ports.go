// Package source defines the port for loading raw expense rows from a data
// source, with adapters for CSV files, Google Sheets, and in-memory data.
package source

import (
	"context"

	"spendview/internal/core"
)

// ExpenseLoader loads the raw (uncleaned) expense rows from a data source.
// Rows that cannot be parsed are skipped by the adapter; callers apply
// core.Clean before analysis.
type ExpenseLoader interface {
	LoadExpenses(ctx context.Context) ([]core.Expense, error)
}

// Describer optionally names a loader's origin for logging and the
// dashboard header.
type Describer interface {
	Describe() string
}
