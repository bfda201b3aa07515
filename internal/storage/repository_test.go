package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"spendview/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rows := []core.Expense{
		{
			Date:        time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
			Description: "COFFEE SHOP",
			Category:    "dining",
			Amount:      core.Money{Cents: -450},
			Type:        core.Debit,
		},
		{
			Date:     time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
			Category: "groceries",
			Amount:   core.Money{Cents: -12345},
			Type:     core.Debit,
		},
	}
	fetchedAt := time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.ReplaceSnapshot(ctx, rows, "csv:test", fetchedAt); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	got, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d", len(got))
	}
	// Ordered by date
	if got[0].Category != "groceries" || got[1].Category != "dining" {
		t.Fatalf("order = %q, %q", got[0].Category, got[1].Category)
	}
	if got[1].Amount.Cents != -450 || got[1].Description != "COFFEE SHOP" {
		t.Fatalf("row = %+v", got[1])
	}
	if !got[1].IsDebit() {
		t.Fatal("tx type lost")
	}

	info, err := repo.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.RowCount != 2 || info.Source != "csv:test" {
		t.Fatalf("info = %+v", info)
	}
	if !info.FetchedAt.Equal(fetchedAt) {
		t.Fatalf("fetched_at = %v", info.FetchedAt)
	}
}

func TestReplaceSnapshotSwapsFully(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.Expense{{
		Date:   time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		Amount: core.Money{Cents: -100},
		Type:   core.Debit,
	}}
	if err := repo.ReplaceSnapshot(ctx, first, "csv:a", time.Now()); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	second := []core.Expense{
		{Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Amount: core.Money{Cents: -200}, Type: core.Debit},
		{Date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), Amount: core.Money{Cents: -300}, Type: core.Debit},
	}
	if err := repo.ReplaceSnapshot(ctx, second, "csv:b", time.Now()); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	got, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("old rows not cleared, rows = %d", len(got))
	}
	info, _ := repo.Info(ctx)
	if info.Source != "csv:b" || info.RowCount != 2 {
		t.Fatalf("info = %+v", info)
	}
}

func TestInfoWithoutSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.Info(context.Background()); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if _, ok := repo.Age(context.Background()); ok {
		t.Fatal("Age should report no snapshot")
	}
}

func TestEmptySnapshotLoads(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.ReplaceSnapshot(ctx, nil, "memory", time.Now()); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}
	got, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rows = %d", len(got))
	}
}
