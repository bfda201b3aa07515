// Package csv loads expense rows from a bank CSV export.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"spendview/internal/core"
	"spendview/internal/source"
)

// utf8BOM is prepended by spreadsheet tools exporting "utf-8-sig" CSVs.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads an expense CSV with a header row. Column names are matched
// case-insensitively after trimming; unknown columns are ignored.
type Loader struct {
	Path string
}

func New(path string) *Loader {
	return &Loader{Path: path}
}

func (l *Loader) Describe() string {
	return "csv:" + l.Path
}

// LoadExpenses reads the whole file. Rows with an unparseable date or
// amount are skipped and counted; only a fully unreadable file is an error.
func (l *Loader) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// Parse decodes expense rows from r. Exposed separately so uploads and
// tests can reuse the same decoding path as file loads.
func Parse(ctx context.Context, r io.Reader) ([]core.Expense, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var out []core.Expense
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		e, ok := cols.parseRow(record)
		if !ok {
			skipped++
			continue
		}
		out = append(out, e)
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed csv rows", "skipped", skipped, "loaded", len(out))
	}
	return out, nil
}

// columnMap holds the index of each recognized column, -1 when absent.
type columnMap struct {
	date, description, category, amount, txType int
}

func mapHeader(header []string) (columnMap, error) {
	cols := columnMap{date: -1, description: -1, category: -1, amount: -1, txType: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "description", "memo":
			cols.description = i
		case "category":
			cols.category = i
		case "amount":
			cols.amount = i
		case "type", "transaction type":
			cols.txType = i
		}
	}
	if cols.date == -1 || cols.amount == -1 {
		return cols, fmt.Errorf("csv header missing required columns (have %v, need date and amount)", header)
	}
	return cols, nil
}

func (c columnMap) parseRow(record []string) (core.Expense, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, ok := source.ParseDate(get(c.date))
	if !ok {
		return core.Expense{}, false
	}
	cents, err := core.ParseAmountCents(get(c.amount))
	if err != nil {
		return core.Expense{}, false
	}
	return core.Expense{
		Date:        date,
		Description: get(c.description),
		Category:    get(c.category),
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(strings.ToUpper(get(c.txType))),
	}, true
}
