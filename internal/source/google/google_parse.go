package google

import (
	"fmt"
	"strings"

	"spendview/internal/core"
	"spendview/internal/source"
)

// ParseValues converts a raw Sheets values response into expense rows. The
// first row is the header; rows whose date or amount cannot be parsed are
// skipped and counted.
func ParseValues(values [][]any) ([]core.Expense, int, error) {
	if len(values) == 0 {
		return nil, 0, nil
	}
	header := toStrings(values[0])
	idx := headerIndex(header)
	if idx.date == -1 || idx.amount == -1 {
		return nil, 0, fmt.Errorf("unexpected sheet header %v (need date and amount columns)", header)
	}

	var out []core.Expense
	skipped := 0
	for _, raw := range values[1:] {
		cols := toStrings(raw)
		e, ok := parseRow(cols, idx)
		if !ok {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

type headerIdx struct {
	date, description, category, amount, txType int
}

func headerIndex(header []string) headerIdx {
	idx := headerIdx{date: -1, description: -1, category: -1, amount: -1, txType: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			idx.date = i
		case "description", "memo":
			idx.description = i
		case "category":
			idx.category = i
		case "amount":
			idx.amount = i
		case "type", "transaction type":
			idx.txType = i
		}
	}
	return idx
}

func parseRow(cols []string, idx headerIdx) (core.Expense, bool) {
	date, ok := source.ParseDate(safeGet(cols, idx.date))
	if !ok {
		return core.Expense{}, false
	}
	cents, err := core.ParseAmountCents(safeGet(cols, idx.amount))
	if err != nil {
		return core.Expense{}, false
	}
	return core.Expense{
		Date:        date,
		Description: safeGet(cols, idx.description),
		Category:    safeGet(cols, idx.category),
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(strings.ToUpper(safeGet(cols, idx.txType))),
	}, true
}

// headerAndCount splits a values response into the header row and the
// number of data rows beneath it.
func headerAndCount(values [][]any) ([]string, int) {
	if len(values) == 0 {
		return nil, 0
	}
	return toStrings(values[0]), len(values) - 1
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
