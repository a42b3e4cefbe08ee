package core

import (
	"testing"
	"time"
)

func march(day int) Timestamp {
	return NewTimestamp(time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC))
}

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: "a", Type: Income, Category: CategoryStudio, Amount: Money{Cents: 500000}, Date: march(1), Status: Confirmed, IsBusiness: true},
		{ID: "b", Type: Expense, Category: "Office Rent", Amount: Money{Cents: 150000}, Date: march(5), Status: Confirmed, IsBusiness: true},
		{ID: "c", Type: Income, Category: CategoryOutdoor, Amount: Money{Cents: 120000}, Date: march(15), Status: Pending, User: "Kelvin"},
		{ID: "d", Type: Expense, Category: "Software", Amount: Money{Cents: 15000}, Date: NewTimestamp(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)), Status: Confirmed, User: "Brian"},
		{ID: "e", Type: Income, Category: CategoryStudio, Amount: Money{Cents: 30000}, Date: Timestamp{}, Status: Confirmed, IsBusiness: true},
	}
}

func ids(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func TestFilterByMonth(t *testing.T) {
	f := Filter{Year: 2024, Month: time.March, Scope: ScopeAll}
	got := f.Apply(sampleTransactions())
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("row %d: got %s, want %s (input order must be preserved)", i, id, want[i])
		}
	}
}

func TestFilterInvalidDateExcluded(t *testing.T) {
	f := Filter{Year: 2024, Month: time.March}
	for _, tx := range f.Apply(sampleTransactions()) {
		if tx.ID == "e" {
			t.Fatal("transaction with invalid date must not match any month")
		}
	}
}

func TestFilterByUserAndScope(t *testing.T) {
	txs := sampleTransactions()
	cases := []struct {
		name string
		f    Filter
		want []string
	}{
		{"user match", Filter{Year: 2024, Month: time.March, User: "Kelvin"}, []string{"c"}},
		{"user all", Filter{Year: 2024, Month: time.March, User: "all"}, []string{"a", "b", "c"}},
		{"business only", Filter{Year: 2024, Month: time.March, Scope: ScopeBusiness}, []string{"a", "b"}},
		{"personal only", Filter{Year: 2024, Month: time.March, Scope: ScopePersonal}, []string{"c"}},
		{"no match", Filter{Year: 2024, Month: time.March, User: "Namis"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(tc.f.Apply(txs))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestFilterComposability(t *testing.T) {
	// Applying disjoint criteria sequentially must equal applying them
	// jointly.
	txs := sampleTransactions()
	monthOnly := Filter{Year: 2024, Month: time.March}
	scopeOnly := Filter{Year: 2024, Month: time.March, Scope: ScopeBusiness}
	joint := Filter{Year: 2024, Month: time.March, Scope: ScopeBusiness}

	sequential := scopeOnly.Apply(monthOnly.Apply(txs))
	direct := joint.Apply(txs)
	if len(sequential) != len(direct) {
		t.Fatalf("sequential %v != joint %v", ids(sequential), ids(direct))
	}
	for i := range direct {
		if sequential[i].ID != direct[i].ID {
			t.Fatalf("sequential %v != joint %v", ids(sequential), ids(direct))
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	txs := sampleTransactions()
	before := ids(txs)
	Filter{Year: 2024, Month: time.March, Scope: ScopePersonal}.Apply(txs)
	after := ids(txs)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("input slice was mutated")
		}
	}
}
