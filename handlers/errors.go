package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/pedacin/models"
)

// writeServiceError traduz os erros de negócio dos serviços para status HTTP.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInactiveProperty),
		errors.Is(err, models.ErrVotingEnded),
		errors.Is(err, models.ErrVotingInProgress),
		errors.Is(err, models.ErrAlreadyExecuted),
		errors.Is(err, models.ErrProposalFailed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrInsufficientCapacity),
		errors.Is(err, models.ErrNoIncomeAvailable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// urlParamInt64 lê um parâmetro numérico da rota.
func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
