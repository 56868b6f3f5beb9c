package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/models"
	"github.com/crediflow/backend/internal/repository"
	"github.com/crediflow/backend/internal/services"
)

type CreditPurchaseHandler struct {
	deps      *Deps
	validator *services.ValidationHelper
}

func NewCreditPurchaseHandler(deps *Deps) *CreditPurchaseHandler {
	return &CreditPurchaseHandler{
		deps:      deps,
		validator: services.NewValidationHelper(),
	}
}

type createPurchaseRequest struct {
	PayerName     string  `json:"payer_name" validate:"required"`
	PayerDocument string  `json:"payer_document"`
	PayerPhone    string  `json:"payer_phone"`
	Description   string  `json:"description" validate:"required"`
	TotalValue    float64 `json:"total_value" validate:"required,gt=0"`
	DownPayment   float64 `json:"down_payment" validate:"gte=0"`
	Installments  int     `json:"installments" validate:"required,gte=1"`
	FirstDueDate  string  `json:"first_due_date" validate:"required"`
	IntervalDays  *int    `json:"interval_days" validate:"omitempty,gte=1"`
	MonthlyRate   float64 `json:"monthly_rate" validate:"gte=0"`
}

// Create registers a credit purchase and generates its installments
// @Summary Create credit purchase
// @Description Create a credit sale split into scheduled installments
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param purchase body createPurchaseRequest true "Purchase data"
// @Success 201 {object} services.PurchaseWithInstallments
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /purchases [post]
func (h *CreditPurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	var req createPurchaseRequest

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

	firstDueDate, err := parseDate(req.FirstDueDate)
	if err != nil {
		services.SendErrorResponse(w, "Invalid first_due_date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}

	result, err := scope.purchases.Create(services.CreatePurchaseInput{
		PayerName:     req.PayerName,
		PayerDocument: req.PayerDocument,
		PayerPhone:    req.PayerPhone,
		Description:   req.Description,
		TotalValue:    decimal.NewFromFloat(req.TotalValue),
		DownPayment:   decimal.NewFromFloat(req.DownPayment),
		Installments:  req.Installments,
		FirstDueDate:  firstDueDate,
		IntervalDays:  req.IntervalDays,
		MonthlyRate:   decimal.NewFromFloat(req.MonthlyRate),
		CreatedByID:   scope.identity.UserID,
		CreatedByName: scope.identity.UserName,
	})
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// List returns a page of credit purchases
// @Summary List credit purchases
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (active, canceled, completed)"
// @Param payer query string false "Filter by payer name"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset"
// @Success 200 {object} services.PurchaseList
// @Router /purchases [get]
func (h *CreditPurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	filter := repository.PurchaseFilter{
		Status: models.PurchaseStatus(r.URL.Query().Get("status")),
		Payer:  r.URL.Query().Get("payer"),
		Limit:  50,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	result, err := scope.purchases.List(filter)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Get returns one purchase with its installments
// @Summary Get credit purchase details
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param purchaseId path string true "Purchase ID"
// @Success 200 {object} services.PurchaseWithInstallments
// @Failure 404 {object} services.ErrorResponse
// @Router /purchases/{purchaseId} [get]
func (h *CreditPurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	result, err := scope.purchases.Get(chi.URLParam(r, "purchaseId"))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Cancel voids a purchase and its open installments
// @Summary Cancel credit purchase
// @Description Cancel the purchase; open installments are voided, paid ones kept as history
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param purchaseId path string true "Purchase ID"
// @Success 200 {object} services.CancelResult
// @Failure 404 {object} services.ErrorResponse
// @Failure 412 {object} services.ErrorResponse
// @Router /purchases/{purchaseId}/cancel [patch]
func (h *CreditPurchaseHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	result, err := scope.purchases.Cancel(chi.URLParam(r, "purchaseId"), scope.identity.UserID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Delete removes a purchase and its installments permanently
// @Summary Delete credit purchase
// @Description Irreversible; refused while any installment is paid
// @Tags purchases
// @Security BearerAuth
// @Param purchaseId path string true "Purchase ID"
// @Success 204 "deleted"
// @Failure 404 {object} services.ErrorResponse
// @Failure 412 {object} services.ErrorResponse
// @Router /purchases/{purchaseId} [delete]
func (h *CreditPurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	if err := scope.purchases.Delete(chi.URLParam(r, "purchaseId"), scope.identity.UserID); err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
