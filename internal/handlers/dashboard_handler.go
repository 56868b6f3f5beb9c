package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/crediflow/backend/internal/models"
	"github.com/crediflow/backend/internal/services"
)

type DashboardHandler struct {
	deps *Deps
}

func NewDashboardHandler(deps *Deps) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// installmentView is an installment enriched with data from its purchase
// for list screens that show both.
type installmentView struct {
	*models.CreditInstallment
	PayerName   string `json:"payer_name"`
	PayerPhone  string `json:"payer_phone,omitempty"`
	Description string `json:"description,omitempty"`
}

// ByDueDate serves installments grouped by due date
// @Summary Installments grouped by due date
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Param status query string false "Installment status filter"
// @Success 200 {object} services.DashboardByDate
// @Failure 400 {object} services.ErrorResponse
// @Router /dashboard/installments-by-date [get]
func (h *DashboardHandler) ByDueDate(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		services.SendErrorResponse(w, "Invalid start date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		services.SendErrorResponse(w, "Invalid end date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
		return
	}

	result, err := scope.dashboard.ByDueDate(start, end, models.InstallmentStatus(r.URL.Query().Get("status")))
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Totals serves aggregate counts, sums and the delinquency rate
// @Summary Installment totals
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} services.TotalsSummary
// @Failure 400 {object} services.ErrorResponse
// @Router /dashboard/totals [get]
func (h *DashboardHandler) Totals(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	var start, end *time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid start date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
			return
		}
		start = &t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid end date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
			return
		}
		end = &t
	}

	summary, err := scope.dashboard.Totals(start, end)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// Overdue serves all currently overdue installments with payer data
// @Summary Overdue installments
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} installmentView
// @Router /dashboard/overdue [get]
func (h *DashboardHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	installments, err := scope.dashboard.Overdue()
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.enrich(scope, installments))
}

// DueSoon serves open installments due within the next N days
// @Summary Installments due soon
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days" default(7)
// @Success 200 {array} installmentView
// @Failure 400 {object} services.ErrorResponse
// @Router /dashboard/due-soon [get]
func (h *DashboardHandler) DueSoon(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid days value", http.StatusBadRequest, nil)
			return
		}
		days = n
	}

	installments, err := scope.dashboard.DueSoon(days)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.enrich(scope, installments))
}

// DailySummary serves the per-day receivable-vs-received comparison
// @Summary Daily receivable summary
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD); defaults to 90 days ago"
// @Param end query string false "End date (YYYY-MM-DD); defaults to 30 days ahead"
// @Success 200 {array} services.DailySummaryRow
// @Failure 400 {object} services.ErrorResponse
// @Router /dashboard/daily-summary [get]
func (h *DashboardHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.deps.scope(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -90)
	end := now.AddDate(0, 0, 30)

	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid start date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
			return
		}
		start = t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			services.SendErrorResponse(w, "Invalid end date, expected YYYY-MM-DD", http.StatusBadRequest, nil)
			return
		}
		end = t
	}

	rows, err := scope.dashboard.DailySummary(start, end)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// enrich joins installments with payer data from their purchases,
// loading each purchase once.
func (h *DashboardHandler) enrich(sc *scope, installments []*models.CreditInstallment) []installmentView {
	purchases := make(map[string]*models.CreditPurchase)
	views := make([]installmentView, 0, len(installments))

	for _, inst := range installments {
		purchase, ok := purchases[inst.PurchaseID]
		if !ok {
			p, err := sc.purchaseRepo.FindByID(inst.PurchaseID)
			if err == nil {
				purchase = p
			}
			purchases[inst.PurchaseID] = purchase
		}

		view := installmentView{CreditInstallment: inst}
		if purchase != nil {
			view.PayerName = purchase.PayerName
			view.PayerPhone = purchase.PayerPhone
			view.Description = purchase.Description
		}
		views = append(views, view)
	}
	return views
}
