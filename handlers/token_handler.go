package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/pedacin/services"
)

// TokenHandler lida com requisições HTTP do ledger de unidades.
type TokenHandler struct {
	Service *services.TokenService
}

func NewTokenHandler(s *services.TokenService) *TokenHandler {
	return &TokenHandler{Service: s}
}

// Request struct para a preparação de uma cobrança
type PrepareCollectRequest struct {
	InvestorID string `json:"investor_id"`
	Amount     int64  `json:"amount"` // Em lamports
}

// Response struct para a preparação de uma cobrança
type PrepareCollectResponse struct {
	SerializedTransaction string `json:"serialized_transaction"` // Transação em Base64 para assinatura
}

// PrepareCollect prepara uma transação de cobrança para assinatura do investidor.
// POST /payments/prepare
func (h *TokenHandler) PrepareCollect(w http.ResponseWriter, r *http.Request) {
	var req PrepareCollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	serializedTx, err := h.Service.PrepareCollect(r.Context(), req.InvestorID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PrepareCollectResponse{SerializedTransaction: serializedTx})
}

// Request struct para a compra de unidades
type PurchaseRequest struct {
	Amount            int64  `json:"amount"`
	BuyerID           string `json:"buyer_id"`
	SignedTransaction string `json:"signed_transaction"` // Transação assinada pelo investidor (Base64)
}

// Purchase compra unidades de um imóvel com a transação de cobrança já assinada.
// POST /properties/{id}/purchase
func (h *TokenHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	units, err := h.Service.Purchase(r.Context(), propertyID, req.Amount, req.BuyerID, req.SignedTransaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"units_purchased": units})
}

// GetBalance informa o saldo de unidades de um investidor em um imóvel.
// GET /properties/{id}/balance/{investorID}
func (h *TokenHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
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

	balance, err := h.Service.BalanceOf(r.Context(), propertyID, investorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"balance": balance})
}
