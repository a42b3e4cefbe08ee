// Package memory is an in-process ledger mirror used by tests and local
// development when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bloomledger/internal/core"
)

type Mirror struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Mirror {
	return &Mirror{}
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (m *Mirror) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, t)
	return fmt.Sprintf("mem:%d", len(m.items)), nil
}

// UpdateTransactionStatus rewrites the status of a previously appended transaction.
func (m *Mirror) UpdateTransactionStatus(_ context.Context, id string, status core.TxStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("transaction %s not mirrored", id)
}

// Rows returns a copy of the mirrored transactions.
func (m *Mirror) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, len(m.items))
	copy(out, m.items)
	return out
}
