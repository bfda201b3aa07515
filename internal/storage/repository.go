// Package storage persists the most recently fetched expense dataset in
// SQLite so the dashboard keeps working when the upstream source is down.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendview/internal/core"
	"spendview/internal/source"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SnapshotInfo describes the stored snapshot.
type SnapshotInfo struct {
	Source    string
	RowCount  int
	FetchedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

var _ source.ExpenseLoader = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Describe() string {
	return "snapshot"
}

// ReplaceSnapshot swaps the whole expense table for the given rows in one
// transaction and records fetch metadata.
func (r *SQLiteRepository) ReplaceSnapshot(ctx context.Context, rows []core.Expense, src string, fetchedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (date, description, category, amount_cents, tx_type)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range rows {
		if _, err := stmt.ExecContext(ctx,
			e.Date.Format(dateLayout), e.Description, e.Category, e.Amount.Cents, string(e.Type)); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, source, row_count, fetched_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source = excluded.source,
			row_count = excluded.row_count,
			fetched_at = excluded.fetched_at`,
		src, len(rows), fetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("update snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot replaced",
		"rows", len(rows),
		"source", src,
		"fetched_at", fetchedAt.UTC().Format(time.RFC3339))
	return nil
}

// LoadExpenses implements source.ExpenseLoader from the stored snapshot.
func (r *SQLiteRepository) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, description, category, amount_cents, tx_type
		FROM expenses
		ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			dateStr string
			e       core.Expense
			txType  string
		)
		if err := rows.Scan(&dateStr, &e.Description, &e.Category, &e.Amount.Cents, &txType); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		e.Date = d
		e.Type = core.TxType(txType)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Info returns the snapshot metadata, or sql.ErrNoRows when no snapshot has
// been taken yet.
func (r *SQLiteRepository) Info(ctx context.Context) (SnapshotInfo, error) {
	var (
		info      SnapshotInfo
		fetchedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT source, row_count, fetched_at FROM snapshot_meta WHERE id = 1`).
		Scan(&info.Source, &info.RowCount, &fetchedAt)
	if err != nil {
		return SnapshotInfo{}, err
	}
	t, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
	}
	info.FetchedAt = t
	return info, nil
}

// Age returns how old the snapshot is, or false when none exists.
func (r *SQLiteRepository) Age(ctx context.Context) (time.Duration, bool) {
	info, err := r.Info(ctx)
	if err != nil {
		return 0, false
	}
	return time.Since(info.FetchedAt), true
}
