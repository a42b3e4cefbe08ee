package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bloomledger/internal/core"
)

// transactionDTO is the wire shape of a transaction. Dates accept either an
// ISO-8601 string or a legacy {_seconds,_nanoseconds} object and serialize
// back as RFC 3339 or null.
type transactionDTO struct {
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type"`
	Category   string         `json:"category"`
	Details    string         `json:"details,omitempty"`
	Amount     float64        `json:"amount"`
	Date       core.Timestamp `json:"date"`
	Status     string         `json:"status"`
	User       string         `json:"user,omitempty"`
	IsBusiness bool           `json:"isBusiness"`
	DueDate    core.Timestamp `json:"dueDate"`
}

func toDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:         t.ID,
		Type:       string(t.Type),
		Category:   t.Category,
		Details:    t.Details,
		Amount:     t.Amount.Units(),
		Date:       t.Date,
		Status:     string(t.Status),
		User:       t.User,
		IsBusiness: t.IsBusiness,
		DueDate:    t.DueDate,
	}
}

func (d transactionDTO) toDomain() core.Transaction {
	return core.Transaction{
		ID:         d.ID,
		Type:       core.TxType(d.Type),
		Category:   strings.TrimSpace(d.Category),
		Details:    sanitizeInput(d.Details),
		Amount:     core.MoneyFromUnits(d.Amount),
		Date:       d.Date,
		Status:     core.TxStatus(d.Status),
		User:       strings.TrimSpace(d.User),
		IsBusiness: d.IsBusiness,
		DueDate:    d.DueDate,
	}
}

func toDTOs(txs []core.Transaction) []transactionDTO {
	out := make([]transactionDTO, len(txs))
	for i, t := range txs {
		out[i] = toDTO(t)
	}
	return out
}

type summaryDTO struct {
	ConfirmedIncome  float64 `json:"confirmedIncome"`
	PendingIncome    float64 `json:"pendingIncome"`
	ConfirmedExpense float64 `json:"confirmedExpense"`
	PendingExpense   float64 `json:"pendingExpense"`
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	NetBalance       float64 `json:"netBalance"`
}

func toSummaryDTO(s core.Summary) summaryDTO {
	return summaryDTO{
		ConfirmedIncome:  s.ConfirmedIncome.Units(),
		PendingIncome:    s.PendingIncome.Units(),
		ConfirmedExpense: s.ConfirmedExpense.Units(),
		PendingExpense:   s.PendingExpense.Units(),
		TotalIncome:      s.TotalIncome().Units(),
		TotalExpense:     s.TotalExpense().Units(),
		NetBalance:       s.NetBalance().Units(),
	}
}

type dayFlowDTO struct {
	Day     int     `json:"day"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type sourceSplitDTO struct {
	Name      string  `json:"name"`
	Confirmed float64 `json:"confirmed"`
	Pending   float64 `json:"pending"`
}

// hasFilterParams reports whether the request narrows the ledger at all.
// List endpoints return every transaction when no filter is given.
func hasFilterParams(r *http.Request) bool {
	q := r.URL.Query()
	for _, k := range []string{"year", "month", "user", "scope"} {
		if strings.TrimSpace(q.Get(k)) != "" {
			return true
		}
	}
	return false
}

// parseFilter extracts the month filter from query parameters. Year and
// month default to the current calendar month.
func parseFilter(r *http.Request) (core.Filter, error) {
	now := time.Now()
	f := core.Filter{
		Year:  now.Year(),
		Month: now.Month(),
		Scope: core.ScopeAll,
	}

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid year %q", v)
		}
		f.Year = y
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return f, fmt.Errorf("invalid month %q", v)
		}
		f.Month = time.Month(m)
	}
	if v := strings.TrimSpace(q.Get("user")); v != "" {
		f.User = v
	}
	if v := strings.TrimSpace(q.Get("scope")); v != "" {
		scope := core.Scope(v)
		if !scope.Valid() {
			return f, fmt.Errorf("invalid scope %q", v)
		}
		f.Scope = scope
	}

	return f, nil
}

// cacheKey identifies one filtered summary in the LRU cache.
func cacheKey(f core.Filter) string {
	return fmt.Sprintf("%d-%02d|%s|%s", f.Year, int(f.Month), f.User, f.Scope)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
