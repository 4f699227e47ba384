package services

import (
	"context"
	"sync"
)

// MockLedgerService is an in-memory LedgerService for testing. It reuses
// the same row-scan helpers as the S3 implementation, so its first-match
// semantics are identical.
type MockLedgerService struct {
	mu       sync.Mutex
	rows     [][]string
	FailWith error // when set, every operation returns this error
}

// NewMockLedgerService creates a mock ledger containing only the header row
func NewMockLedgerService() *MockLedgerService {
	return &MockLedgerService{rows: [][]string{ledgerHeader}}
}

// SetAsMockForTesting sets this mock as the global ledger service instance for testing
func (m *MockLedgerService) SetAsMockForTesting() {
	SetLedgerService(m)
}

// AppendRow adds a fresh unconfirmed row
func (m *MockLedgerService) AppendRow(ctx context.Context, row LedgerRow) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	m.rows = appendLedgerRow(m.rows, row)
	m.mu.Unlock()
	return nil
}

// ConfirmRow marks the first non-cancelled row for the email as confirmed
func (m *MockLedgerService) ConfirmRow(ctx context.Context, email string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := findConfirmable(m.rows, email); i > 0 {
		m.rows[i][colConfirmed] = "YES"
	}
	return nil
}

// MarkDelivered marks the first confirmed, non-cancelled row as delivered
func (m *MockLedgerService) MarkDelivered(ctx context.Context, email string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findDeliverable(m.rows, email)
	if i < 1 {
		return ErrRowNotDeliverable
	}
	m.rows[i][colDelivered] = "YES"
	return nil
}

// MarkCancelled marks the first confirmed, undelivered, non-cancelled row
func (m *MockLedgerService) MarkCancelled(ctx context.Context, email string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := findCancellable(m.rows, email); i > 0 {
		m.rows[i][colStatus] = "CANCELLED"
	}
	return nil
}

// Rows returns a copy of the ledger contents including the header
// (for testing assertions)
func (m *MockLedgerService) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, row := range m.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// RowsFor returns copies of the data rows matching an email
func (m *MockLedgerService) RowsFor(email string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]string
	for i := 1; i < len(m.rows); i++ {
		if m.rows[i][colEmail] == email {
			out = append(out, append([]string(nil), m.rows[i]...))
		}
	}
	return out
}

// Clear resets the ledger to just the header row
func (m *MockLedgerService) Clear() {
	m.mu.Lock()
	m.rows = [][]string{ledgerHeader}
	m.mu.Unlock()
}
