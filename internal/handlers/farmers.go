package handlers

import (
	"net/http"

	"github.com/alextreichler/openmarket/internal/ledger"
)

type LedgerHandler struct {
	Ledger *ledger.Ledger
	// UploadDir receives resized item images; they are served under /uploads/.
	UploadDir string
}

type registerRequest struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Barangay string `json:"barangay"`
}

func (h *LedgerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	caller := Caller(r.Context())
	if err := h.Ledger.Register(r.Context(), caller, req.Name, req.City, req.Barangay); err != nil {
		writeError(w, r, err)
		return
	}
	farmer, err := h.Ledger.Farmer(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, farmer)
}

func (h *LedgerHandler) Farmer(w http.ResponseWriter, r *http.Request) {
	farmer, err := h.Ledger.Farmer(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, farmer)
}
