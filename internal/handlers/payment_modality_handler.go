package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crediflow/backend/internal/services"
)

type PaymentModalityHandler struct {
	deps *Deps
}

func NewPaymentModalityHandler(deps *Deps) *PaymentModalityHandler {
	return &PaymentModalityHandler{deps: deps}
}

// List serves the tenant's payment modalities
// @Summary List payment modalities
// @Tags modalities
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include inactive modalities"
// @Success 200 {array} models.PaymentModality
// @Router /modalities [get]
func (h *PaymentModalityHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	activeOnly := r.URL.Query().Get("all") != "true"
	modalities, err := scope.modalities.FindAll(activeOnly)
	if err != nil {
		services.SendErrorResponse(w, "Failed to load payment modalities", http.StatusServiceUnavailable, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(modalities)
}
