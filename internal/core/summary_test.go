package core

import (
	"math/rand"
	"testing"
	"time"
)

// The March 2024 scenario used throughout the reports.
func marchScenario() []Transaction {
	return []Transaction{
		{Type: Income, Category: CategoryStudio, Amount: Money{Cents: 500000}, Date: march(1), Status: Confirmed, IsBusiness: true},
		{Type: Expense, Category: "Office Rent", Amount: Money{Cents: 150000}, Date: march(5), Status: Confirmed, IsBusiness: true},
		{Type: Income, Category: CategoryOutdoor, Amount: Money{Cents: 120000}, Date: march(15), Status: Pending, User: "Kelvin"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(marchScenario())
	if s.ConfirmedIncome.Cents != 500000 {
		t.Fatalf("confirmed income = %d", s.ConfirmedIncome.Cents)
	}
	if s.PendingIncome.Cents != 120000 {
		t.Fatalf("pending income = %d", s.PendingIncome.Cents)
	}
	if s.ConfirmedExpense.Cents != 150000 {
		t.Fatalf("confirmed expense = %d", s.ConfirmedExpense.Cents)
	}
	if s.PendingExpense.Cents != 0 {
		t.Fatalf("pending expense = %d", s.PendingExpense.Cents)
	}
	if s.NetBalance().Cents != 350000 {
		t.Fatalf("net balance = %d, want 350000", s.NetBalance().Cents)
	}
}

func TestSummarizeSkipsUnknownType(t *testing.T) {
	txs := append(marchScenario(), Transaction{
		Type: "transfer", Amount: Money{Cents: 999900}, Status: Confirmed,
	})
	if got, want := Summarize(txs), Summarize(marchScenario()); got != want {
		t.Fatalf("unknown type changed the summary: %+v != %+v", got, want)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	txs := marchScenario()
	want := Summarize(txs)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]Transaction(nil), txs...)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Summarize(shuffled); got != want {
			t.Fatalf("permutation %d: %+v != %+v", i, got, want)
		}
	}
}

func TestNetBalanceExcludesPending(t *testing.T) {
	s := Summary{
		ConfirmedIncome:  Money{Cents: 1000},
		PendingIncome:    Money{Cents: 5000},
		ConfirmedExpense: Money{Cents: 300},
		PendingExpense:   Money{Cents: 7000},
	}
	if s.NetBalance().Cents != 700 {
		t.Fatalf("net balance = %d, want 700", s.NetBalance().Cents)
	}
}

func TestDailyCashFlow(t *testing.T) {
	series := DailyCashFlow(2024, time.March, marchScenario())
	if len(series) != 31 {
		t.Fatalf("series length = %d, want 31", len(series))
	}
	for i, bucket := range series {
		if bucket.Day != i+1 {
			t.Fatalf("bucket %d has day %d", i, bucket.Day)
		}
	}
	if series[0].Income.Cents != 500000 {
		t.Fatalf("day 1 income = %d", series[0].Income.Cents)
	}
	if series[4].Expense.Cents != 150000 {
		t.Fatalf("day 5 expense = %d", series[4].Expense.Cents)
	}
	// The pending income on the 15th is projected, not realized.
	if series[14].Income.Cents != 0 {
		t.Fatalf("day 15 should exclude pending, got %d", series[14].Income.Cents)
	}
}

func TestDailyCashFlowMonthLengths(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.January, 31},
	}
	for _, tc := range cases {
		series := DailyCashFlow(tc.year, tc.month, nil)
		if len(series) != tc.want {
			t.Fatalf("%d-%v: length %d, want %d", tc.year, tc.month, len(series), tc.want)
		}
	}
}

func TestIncomeSourceComparison(t *testing.T) {
	rows := IncomeSourceComparison(marchScenario())
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	studio, outdoor := rows[0], rows[1]
	if studio.Name != "Studio" || studio.Confirmed.Cents != 500000 || studio.Pending.Cents != 0 {
		t.Fatalf("studio row %+v", studio)
	}
	if outdoor.Name != "Outdoor" || outdoor.Confirmed.Cents != 0 || outdoor.Pending.Cents != 120000 {
		t.Fatalf("outdoor row %+v", outdoor)
	}
}

func TestIncomeSourceComparisonEmitsEmptyRows(t *testing.T) {
	rows := IncomeSourceComparison(nil)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Confirmed.Cents != 0 || row.Pending.Cents != 0 {
			t.Fatalf("expected zero row, got %+v", row)
		}
	}
}

func TestIncomeSourceComparisonIgnoresOtherCategories(t *testing.T) {
	txs := []Transaction{
		{Type: Income, Category: "Merch Sales", Amount: Money{Cents: 5000}, Status: Confirmed},
		{Type: Expense, Category: CategoryStudio, Amount: Money{Cents: 2000}, Status: Confirmed},
	}
	for _, row := range IncomeSourceComparison(txs) {
		if row.Confirmed.Cents != 0 || row.Pending.Cents != 0 {
			t.Fatalf("row %+v should be empty", row)
		}
	}
}
