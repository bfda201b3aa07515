// Package memory provides an in-memory expense loader for tests and local
// development.
package memory

import (
	"context"
	"sync"

	"spendview/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows []core.Expense
}

func New(rows []core.Expense) *Store {
	return &Store{rows: append([]core.Expense(nil), rows...)}
}

func (s *Store) Describe() string {
	return "memory"
}

// LoadExpenses returns a copy of the stored rows.
func (s *Store) LoadExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.rows...), nil
}

// Replace swaps the stored rows.
func (s *Store) Replace(rows []core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.Expense(nil), rows...)
}
