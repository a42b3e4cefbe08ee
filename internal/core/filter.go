package core

import "time"

const (
	ScopeAll      Scope = "all"
	ScopeBusiness Scope = "business"
	ScopePersonal Scope = "personal"
)

type (
	Scope string

	// Filter selects the transactions of one calendar month, optionally
	// narrowed to a single user or to business/personal rows. User "all"
	// (or empty) matches every row.
	Filter struct {
		Year  int
		Month time.Month
		User  string
		Scope Scope
	}
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeBusiness, ScopePersonal, "":
		return true
	}
	return false
}

func (f Filter) matches(t Transaction) bool {
	if !t.Date.InMonth(f.Year, f.Month) {
		return false
	}
	if f.User != "" && f.User != "all" && t.User != f.User {
		return false
	}
	switch f.Scope {
	case ScopeBusiness:
		return t.IsBusiness
	case ScopePersonal:
		return !t.IsBusiness
	}
	return true
}

// Apply returns the matching subset in input order. It is a pure function:
// the input slice is never mutated.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}
