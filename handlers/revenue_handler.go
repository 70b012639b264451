package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/pedacin/services"
)

// RevenueHandler lida com requisições HTTP de receita: depósitos, consulta de
// valor sacável e saques.
type RevenueHandler struct {
	Service *services.RevenueService
}

func NewRevenueHandler(s *services.RevenueService) *RevenueHandler {
	return &RevenueHandler{Service: s}
}

// Request struct para o depósito de receita
type DepositRequest struct {
	Amount            int64  `json:"amount"` // Em lamports
	Caller            string `json:"caller"`
	SignedTransaction string `json:"signed_transaction"` // Transação assinada pelo administrador (Base64)
}

// Deposit credita receita ao pool de um imóvel.
// POST /properties/{id}/revenue/deposits
func (h *RevenueHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deposited, err := h.Service.Deposit(r.Context(), propertyID, req.Amount, req.Caller, req.SignedTransaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int64{"deposited": deposited})
}

// GetClaimable informa quanto um investidor pode sacar de um imóvel.
// GET /properties/{id}/revenue/claimable/{investorID}
func (h *RevenueHandler) GetClaimable(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}
	investorID := chi.URLParam(r, "investorID")
	if investorID == "" {
		http.Error(w, "ID do investidor é obrigatório", http.StatusBadRequest)
		return
	}

	claimable, err := h.Service.Claimable(r.Context(), propertyID, investorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"claimable": claimable})
}

// Request struct para o saque de receita
type WithdrawRequest struct {
	Caller string `json:"caller"`
}

// Withdraw liquida e paga a receita pendente do investidor.
// POST /properties/{id}/revenue/withdrawals
func (h *RevenueHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := h.Service.Withdraw(r.Context(), propertyID, req.Caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"amount_paid": amount})
}
