package core

import "time"

type (
	// Summary holds the four monthly accumulators. The reduction is
	// associative and commutative: any iteration order over the same
	// subset yields the same values.
	Summary struct {
		ConfirmedIncome  Money
		PendingIncome    Money
		ConfirmedExpense Money
		PendingExpense   Money
	}

	// DayFlow is one bucket of the daily cash-flow series.
	DayFlow struct {
		Day     int
		Income  Money
		Expense Money
	}

	// SourceSplit is one row of the income source comparison.
	SourceSplit struct {
		Name      string
		Confirmed Money
		Pending   Money
	}
)

// Summarize reduces a filtered subset into the four accumulators in a single
// pass. Unrecognized transaction types are skipped, not rejected.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case Income:
			if t.Status == Confirmed {
				s.ConfirmedIncome.Cents += t.Amount.Cents
			} else {
				s.PendingIncome.Cents += t.Amount.Cents
			}
		case Expense:
			if t.Status == Confirmed {
				s.ConfirmedExpense.Cents += t.Amount.Cents
			} else {
				s.PendingExpense.Cents += t.Amount.Cents
			}
		}
	}
	return s
}

// NetBalance is confirmed income minus confirmed expense. Pending amounts
// never count toward the balance.
func (s Summary) NetBalance() Money {
	return Money{Cents: s.ConfirmedIncome.Cents - s.ConfirmedExpense.Cents}
}

// TotalIncome is confirmed plus pending income. The public view reports this
// combined figure alongside the net balance.
func (s Summary) TotalIncome() Money {
	return Money{Cents: s.ConfirmedIncome.Cents + s.PendingIncome.Cents}
}

// TotalExpense is confirmed plus pending expense.
func (s Summary) TotalExpense() Money {
	return Money{Cents: s.ConfirmedExpense.Cents + s.PendingExpense.Cents}
}

// DailyCashFlow buckets confirmed transactions of one calendar month by day.
// The series is dense: every day 1..DaysIn(year, month) is present, in
// ascending order, with zero values where nothing happened. Pending rows are
// excluded; the series represents realized cash flow.
func DailyCashFlow(year int, month time.Month, txs []Transaction) []DayFlow {
	days := DaysIn(year, month)
	series := make([]DayFlow, days)
	for i := range series {
		series[i].Day = i + 1
	}
	for _, t := range txs {
		if t.Status != Confirmed || !t.Date.InMonth(year, month) {
			continue
		}
		day := t.Date.Time.Day()
		bucket := &series[day-1]
		switch t.Type {
		case Income:
			bucket.Income.Cents += t.Amount.Cents
		case Expense:
			bucket.Expense.Cents += t.Amount.Cents
		}
	}
	return series
}

// IncomeSourceComparison sums confirmed and pending income for the two fixed
// studio categories. Other categories and expense rows are excluded; both
// rows are emitted even when empty.
func IncomeSourceComparison(txs []Transaction) []SourceSplit {
	studio := SourceSplit{Name: "Studio"}
	outdoor := SourceSplit{Name: "Outdoor"}
	for _, t := range txs {
		if t.Type != Income {
			continue
		}
		var row *SourceSplit
		switch t.Category {
		case CategoryStudio:
			row = &studio
		case CategoryOutdoor:
			row = &outdoor
		default:
			continue
		}
		if t.Status == Confirmed {
			row.Confirmed.Cents += t.Amount.Cents
		} else {
			row.Pending.Cents += t.Amount.Cents
		}
	}
	return []SourceSplit{studio, outdoor}
}
