// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/loan-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	loans map[string]store.LoanRecord
	now   func() time.Time
}

func New() *Memory {
	return &Memory{
		loans: make(map[string]store.LoanRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SaveLoan inserts or replaces a loan.
func (m *Memory) SaveLoan(_ context.Context, loan store.LoanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.loans[loan.ID]; ok {
		loan.Version = existing.Version + 1
		loan.CreatedAt = existing.CreatedAt
	} else {
		if loan.Version == 0 {
			loan.Version = 1
		}
		loan.CreatedAt = now
	}
	loan.UpdatedAt = now
	m.loans[loan.ID] = loan
	return nil
}

func (m *Memory) GetLoan(_ context.Context, id string) (*store.LoanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loan, ok := m.loans[id]
	if !ok {
		return nil, nil
	}
	return &loan, nil
}

func (m *Memory) ListLoans(_ context.Context) ([]store.LoanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]store.LoanRecord, 0, len(m.loans))
	for _, loan := range m.loans {
		result = append(result, loan)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *Memory) DeleteLoan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[id]; !ok {
		return store.ErrLoanNotFound
	}
	delete(m.loans, id)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans = make(map[string]store.LoanRecord)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
