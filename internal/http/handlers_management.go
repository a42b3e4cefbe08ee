package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"bloomledger/internal/core"
	"bloomledger/internal/export"
	"bloomledger/internal/services"
	"bloomledger/internal/store"
)

// pinHeader carries the management credential on authenticated requests.
const pinHeader = "X-Dashboard-Pin"

// handleLogin verifies a PIN so the client can unlock the management view.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.VerifyPIN(r.Context(), req.PIN); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleTransactions serves the management ledger: full list on GET, new
// transaction on POST. Both require the PIN header.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.service.List(r.Context(), r.Header.Get(pinHeader))
	if err != nil {
		s.writeServiceError(w, r, err)
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

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var dto transactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx := dto.toDomain()
	if tx.Status == "" {
		tx.Status = core.Pending
	}

	saved, err := s.service.Add(r.Context(), r.Header.Get(pinHeader), tx)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	respondJSON(w, http.StatusCreated, toDTO(saved))
}

// handleConfirm flips a pending transaction to confirmed.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.Confirm(r.Context(), r.Header.Get(pinHeader), req.ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleExport downloads the filtered month as csv, pdf, or xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	txs, err := s.service.List(r.Context(), r.Header.Get(pinHeader))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}

	title := fmt.Sprintf("Transactions %d-%02d", f.Year, int(f.Month))
	body, err := export.Build(format, title, f.Apply(txs))
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build export", "error", err, "format", format)
		respondError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	filename := fmt.Sprintf("transactions-%d-%02d.%s", f.Year, int(f.Month), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeServiceError maps service and domain errors to HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		respondError(w, http.StatusUnauthorized, "access denied")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrBusinessHasUser):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
