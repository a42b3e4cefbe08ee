package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"bloomledger/internal/core"
)

// handlePublicTransactions serves the public view: anyone can read the
// ledger or drop in a business transaction without a PIN.
func (s *Server) handlePublicTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPublicTransactions(w, r)
	case http.MethodPost:
		s.createPublicTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listPublicTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.service.ListPublic(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	if hasFilterParams(r) {
		f, err := parseFilter(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		txs = f.Apply(txs)
	}
	respondJSON(w, http.StatusOK, toDTOs(txs))
}

func (s *Server) createPublicTransaction(w http.ResponseWriter, r *http.Request) {
	var dto transactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := s.service.AddPublic(r.Context(), dto.toDomain())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	respondJSON(w, http.StatusCreated, toDTO(saved))
}

// handlePublicSummary reports the public monthly totals. Total income
// includes pending amounts; the net balance counts confirmed rows only.
func (s *Server) handlePublicSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.monthSummary(r, f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build summary", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	respondJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// monthSummary computes one filtered monthly summary, consulting the cache first.
func (s *Server) monthSummary(r *http.Request, f core.Filter) (core.Summary, error) {
	key := cacheKey(f)
	if cached, ok := s.summaryCache.Get(key); ok {
		return cached, nil
	}

	txs, err := s.service.ListPublic(r.Context())
	if err != nil {
		return core.Summary{}, err
	}

	summary := core.Summarize(f.Apply(txs))
	s.summaryCache.Set(key, summary)
	return summary, nil
}
