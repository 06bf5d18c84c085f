package handlers

import (
	"net/http"

	"github.com/alextreichler/openmarket/internal/models"
)

type creditRequest struct {
	Amount int64 `json:"amount"`
}

func (h *LedgerHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	account := r.PathValue("identity")
	if err := h.Ledger.Credit(r.Context(), Caller(r.Context()), account, req.Amount); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeBalance(w, r, account)
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	h.writeBalance(w, r, r.PathValue("identity"))
}

func (h *LedgerHandler) writeBalance(w http.ResponseWriter, r *http.Request, identity string) {
	bal, err := h.Ledger.Balance(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"identity": identity, "balance": bal})
}

// Events pages through the persisted event log: ?after=SEQ&limit=N.
func (h *LedgerHandler) Events(w http.ResponseWriter, r *http.Request) {
	after, err := queryInt(r, "after")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	events, err := h.Ledger.Events(r.Context(), after, int(limit))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
