package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Debit  TxType = "DEBIT"
	Credit TxType = "CREDIT"
)

// UncategorizedLabel is assigned to rows without a category.
const UncategorizedLabel = "(uncategorized)"

type (
	// TxType is the transaction row type from the bank export.
	TxType string

	Money struct {
		Cents int64
	}

	// Expense is one row of the tracked export. Amount keeps the export's
	// sign convention: debits are negative.
	Expense struct {
		Date        time.Time
		Description string
		Category    string
		Amount      Money
		Type        TxType
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyDataset  = errors.New("empty dataset")
)

// Spend returns the positive spend value for a debit row.
func (e Expense) Spend() Money {
	return Money{Cents: -e.Amount.Cents}
}

// IsDebit reports whether the row type is DEBIT, case-insensitively.
func (e Expense) IsDebit() bool {
	return strings.EqualFold(strings.TrimSpace(string(e.Type)), string(Debit))
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NormalizeCategory trims and lowercases a category label, falling back to
// UncategorizedLabel when empty.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UncategorizedLabel
	}
	return s
}

// MonthOf truncates a date to the first day of its calendar month (UTC).
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
