package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type createTransactionRequest struct {
	Amount      *core.Money `json:"amount"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
}

type updateTransactionRequest struct {
	Amount      *core.Money `json:"amount"`
	Date        *string     `json:"date"`
	Description *string     `json:"description"`
	Category    *string     `json:"category"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, core.ErrInvalidAmount.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, core.ErrInvalidDate.Error())
		return
	}

	created, err := s.transactions.Create(r.Context(), core.Transaction{
		Amount:      *req.Amount,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.metrics.TransactionsTotal.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := storage.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, core.ErrInvalidDate.Error())
			return
		}
		patch.Date = &date
	}

	updated, err := s.transactions.Update(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.metrics.TransactionsTotal.WithLabelValues("update").Inc()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.metrics.TransactionsTotal.WithLabelValues("delete").Inc()
	writeJSON(w, http.StatusOK, messageBody{Message: "Transaction deleted"})
}

// parseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates, the two
// shapes browser form inputs produce.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
