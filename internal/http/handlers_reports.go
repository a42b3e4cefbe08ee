package http

import (
	"net/http"

	"bloomledger/internal/core"
)

// handleReportSummary returns the four monthly accumulators for the
// management dashboard.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	txs, f, ok := s.reportInput(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toSummaryDTO(core.Summarize(f.Apply(txs))))
}

// handleReportDaily returns the dense daily cash-flow series for the month.
func (s *Server) handleReportDaily(w http.ResponseWriter, r *http.Request) {
	txs, f, ok := s.reportInput(w, r)
	if !ok {
		return
	}

	series := core.DailyCashFlow(f.Year, f.Month, f.Apply(txs))
	out := make([]dayFlowDTO, len(series))
	for i, d := range series {
		out[i] = dayFlowDTO{Day: d.Day, Income: d.Income.Units(), Expense: d.Expense.Units()}
	}
	respondJSON(w, http.StatusOK, out)
}

// handleReportSources returns the studio/outdoor income comparison.
func (s *Server) handleReportSources(w http.ResponseWriter, r *http.Request) {
	txs, f, ok := s.reportInput(w, r)
	if !ok {
		return
	}

	splits := core.IncomeSourceComparison(f.Apply(txs))
	out := make([]sourceSplitDTO, len(splits))
	for i, sp := range splits {
		out[i] = sourceSplitDTO{Name: sp.Name, Confirmed: sp.Confirmed.Units(), Pending: sp.Pending.Units()}
	}
	respondJSON(w, http.StatusOK, out)
}

// reportInput authenticates the request and resolves the month filter shared
// by every report endpoint.
func (s *Server) reportInput(w http.ResponseWriter, r *http.Request) ([]core.Transaction, core.Filter, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, core.Filter{}, false
	}

	txs, err := s.service.List(r.Context(), r.Header.Get(pinHeader))
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, core.Filter{}, false
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, core.Filter{}, false
	}

	return txs, f, true
}
