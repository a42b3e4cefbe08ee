package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bloomledger/internal/core"
	"bloomledger/internal/store"
)

// Store is a mutex-guarded in-memory transaction store. It backs local
// development and tests; the SQLite repository is the durable counterpart.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	pin   string
}

func New(pin string) *Store {
	return &Store{pin: pin}
}

// NewSeeded returns a store preloaded with a small demo ledger for the
// current month, mirroring a fresh deployment.
func NewSeeded(pin string) *Store {
	s := New(pin)
	now := time.Now().UTC()
	day := func(d int) core.Timestamp {
		return core.NewTimestamp(time.Date(now.Year(), now.Month(), d, 0, 0, 0, 0, time.UTC))
	}
	seed := []core.Transaction{
		{Type: core.Income, Category: core.CategoryStudio, Details: "Wedding Photoshoot", Amount: core.Money{Cents: 500000}, Date: day(1), Status: core.Confirmed, IsBusiness: true},
		{Type: core.Expense, Category: "Office Rent", Amount: core.Money{Cents: 150000}, Date: day(5), Status: core.Confirmed, IsBusiness: true},
		{Type: core.Income, Category: core.CategoryOutdoor, Details: "Corporate Event Coverage", Amount: core.Money{Cents: 120000}, Date: day(15), Status: core.Pending, User: "Kelvin", DueDate: day(25)},
		{Type: core.Expense, Category: "Software Subscription", Amount: core.Money{Cents: 15000}, Date: day(20), Status: core.Confirmed, User: "Brian"},
	}
	for _, t := range seed {
		t.ID = uuid.NewString()
		s.items = append(s.items, t)
	}
	return s
}

func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	s.items = append(s.items, t)
	return t.ID, nil
}

func (s *Store) UpdateStatus(_ context.Context, id string, status core.TxStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) PIN(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pin, nil
}
