package csv

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestParseBasic(t *testing.T) {
	in := "date,description,category,amount,type\n" +
		"2025-01-05,COFFEE SHOP,Dining,-4.50,DEBIT\n" +
		"2025-01-06,PAYCHECK,Income,2500.00,CREDIT\n"
	rows, err := Parse(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	e := rows[0]
	if e.Date != time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("date = %v", e.Date)
	}
	if e.Amount.Cents != -450 {
		t.Fatalf("amount = %d", e.Amount.Cents)
	}
	if !e.IsDebit() {
		t.Fatal("expected debit")
	}
	if rows[1].IsDebit() {
		t.Fatal("credit row marked debit")
	}
}

func TestParseStripsBOM(t *testing.T) {
	in := "\xEF\xBB\xBFdate,amount,type,category\n2025-02-01,-10,DEBIT,misc\n"
	rows, err := Parse(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	in := "date,amount,type\n" +
		"2025-01-05,-4.50,DEBIT\n" +
		"not-a-date,-4.50,DEBIT\n" +
		"2025-01-07,not-a-number,DEBIT\n"
	rows, err := Parse(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	in := "Date, Amount ,Type\n01/15/2025,-1.00,debit\n"
	rows, err := Parse(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 1 || !rows[0].IsDebit() {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestParseMissingRequiredColumns(t *testing.T) {
	in := "description,category\nfoo,bar\n"
	if _, err := Parse(context.Background(), strings.NewReader(in)); err == nil {
		t.Fatal("expected header error")
	}
}

