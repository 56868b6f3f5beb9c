package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/services"
)

type InstallmentHandler struct {
	deps      *Deps
	validator *services.ValidationHelper
}

func NewInstallmentHandler(deps *Deps) *InstallmentHandler {
	return &InstallmentHandler{
		deps:      deps,
		validator: services.NewValidationHelper(),
	}
}

type payInstallmentRequest struct {
	PaymentDate string  `json:"payment_date" validate:"required"`
	ModalityID  string  `json:"modality_id" validate:"required"`
	Interest    float64 `json:"interest" validate:"gte=0"`
	Penalty     float64 `json:"penalty" validate:"gte=0"`
	Note        string  `json:"note" validate:"max=500"`
}

// Pay registers the payment of one installment
// @Summary Pay installment
// @Description Pay an installment, creating the linked ledger entry
// @Tags installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param installmentId path string true "Installment ID"
// @Param payment body payInstallmentRequest true "Payment data"
// @Success 200 {object} services.PaymentResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 412 {object} services.ErrorResponse
// @Router /installments/{installmentId}/pay [patch]
func (h *InstallmentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	var req payInstallmentRequest

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		services.SendErrorResponse(w, "Invalid payment_date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}

	result, err := scope.payments.Pay(r.Context(), services.PayInput{
		InstallmentID:  chi.URLParam(r, "installmentId"),
		PaymentDate:    paymentDate,
		ModalityID:     req.ModalityID,
		Interest:       decimal.NewFromFloat(req.Interest),
		Penalty:        decimal.NewFromFloat(req.Penalty),
		Note:           req.Note,
		RecordedByID:   scope.identity.UserID,
		RecordedByName: scope.identity.UserName,
	})
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Unpay reverses a paid installment
// @Summary Reverse installment payment
// @Description Undo a payment, removing the linked ledger entry
// @Tags installments
// @Produce json
// @Security BearerAuth
// @Param installmentId path string true "Installment ID"
// @Success 200 {object} models.CreditInstallment
// @Failure 404 {object} services.ErrorResponse
// @Failure 412 {object} services.ErrorResponse
// @Router /installments/{installmentId}/unpay [patch]
func (h *InstallmentHandler) Unpay(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	inst, err := scope.payments.Unpay(chi.URLParam(r, "installmentId"), scope.identity.UserID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inst)
}

// RefreshOverdue flips pending installments past due date to overdue
// @Summary Refresh overdue statuses
// @Description Batch status refresh; meant to be called by an external scheduler
// @Tags installments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{updated=int}
// @Router /installments/refresh-overdue [post]
func (h *InstallmentHandler) RefreshOverdue(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	count, err := scope.payments.RefreshOverdue()
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"updated": count})
}
