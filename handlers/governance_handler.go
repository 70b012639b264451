package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ferreirogomes/pedacin/services"
)

// GovernanceHandler lida com requisições HTTP de governança dos imóveis.
type GovernanceHandler struct {
	Service *services.GovernanceService
}

func NewGovernanceHandler(s *services.GovernanceService) *GovernanceHandler {
	return &GovernanceHandler{Service: s}
}

// Request struct para a submissão de uma proposta
type SubmitProposalRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DurationSeconds int64  `json:"duration_seconds"`
	Caller          string `json:"caller"`
}

// SubmitProposal submete uma nova proposta de governança.
// POST /properties/{id}/proposals
func (h *GovernanceHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var req SubmitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	proposalID, err := h.Service.Submit(r.Context(), propertyID,
		req.Title, req.Description,
		time.Duration(req.DurationSeconds)*time.Second,
		req.Category, req.Caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int64{"proposal_id": proposalID})
}

// GetProposal obtém uma proposta pelo par (imóvel, proposta).
// GET /properties/{id}/proposals/{proposalID}
func (h *GovernanceHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}
	proposalID, err := urlParamInt64(r, "proposalID")
	if err != nil {
		http.Error(w, "ID da proposta inválido", http.StatusBadRequest)
		return
	}

	proposal, found, err := h.Service.GetProposal(r.Context(), propertyID, proposalID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Proposta não encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(proposal)
}

// Request struct para o registro de um voto
type CastVoteRequest struct {
	Support bool   `json:"support"`
	Caller  string `json:"caller"`
}

// CastVote registra (ou troca) o voto de um investidor.
// POST /properties/{id}/proposals/{proposalID}/votes
func (h *GovernanceHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}
	proposalID, err := urlParamInt64(r, "proposalID")
	if err != nil {
		http.Error(w, "ID da proposta inválido", http.StatusBadRequest)
		return
	}

	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.CastVote(r.Context(), propertyID, proposalID, req.Support, req.Caller); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Request struct para a execução de uma proposta
type ExecuteProposalRequest struct {
	Caller string `json:"caller"`
}

// ExecuteProposal executa uma proposta aprovada após o fim da votação.
// POST /properties/{id}/proposals/{proposalID}/execute
func (h *GovernanceHandler) ExecuteProposal(w http.ResponseWriter, r *http.Request) {
	propertyID, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}
	proposalID, err := urlParamInt64(r, "proposalID")
	if err != nil {
		http.Error(w, "ID da proposta inválido", http.StatusBadRequest)
		return
	}

	var req ExecuteProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.Execute(r.Context(), propertyID, proposalID, req.Caller); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
