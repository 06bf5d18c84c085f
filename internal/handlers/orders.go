package handlers

import (
	"net/http"

	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/models"
)

type buyRequest struct {
	BuyerAddress string `json:"buyer_address"`
	Phone        string `json:"phone"`
	PaidAmount   int64  `json:"paid_amount"`
}

func (h *LedgerHandler) Buy(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req buyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	buyer := Caller(r.Context())
	index, err := h.Ledger.Buy(r.Context(), buyer, ledger.Purchase{
		ItemID:       id,
		BuyerAddress: req.BuyerAddress,
		Phone:        req.Phone,
		PaidAmount:   req.PaidAmount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Ledger.Order(r.Context(), buyer, index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	buyer := r.PathValue("buyer")
	count, err := h.Ledger.OrderCount(r.Context(), buyer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := h.Ledger.History(r.Context(), buyer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count, "orders": orders})
}

func (h *LedgerHandler) Order(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.Ledger.Order(r.Context(), r.PathValue("buyer"), index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
