package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/pedacin/services"
)

// PropertyHandler lida com requisições HTTP do cadastro de imóveis.
type PropertyHandler struct {
	Service *services.RegistryService
}

// NewPropertyHandler cria uma nova instância do handler de imóveis.
func NewPropertyHandler(s *services.RegistryService) *PropertyHandler {
	return &PropertyHandler{Service: s}
}

// RegisterProperty registra um novo imóvel fracionado.
// POST /properties
func (h *PropertyHandler) RegisterProperty(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name         string `json:"name"`
		Location     string `json:"location"`
		TotalSupply  int64  `json:"total_supply"`
		PricePerUnit int64  `json:"price_per_unit"`
		Caller       string `json:"caller"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.Service.Register(r.Context(),
		requestBody.Name, requestBody.Location,
		requestBody.TotalSupply, requestBody.PricePerUnit, requestBody.Caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int64{"property_id": id})
}

// GetPropertyByID obtém um imóvel pelo ID.
// GET /properties/{id}
func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	property, found, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Imóvel não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

// CountProperties informa o total de imóveis registrados.
// GET /properties/count
func (h *PropertyHandler) CountProperties(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.Count(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"count": count})
}

// DeactivateProperty desativa um imóvel em definitivo.
// POST /properties/{id}/deactivate
func (h *PropertyHandler) DeactivateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		http.Error(w, "ID do imóvel inválido", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		Caller string `json:"caller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.Deactivate(r.Context(), id, requestBody.Caller); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
