package handlers

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crediflow/backend/internal/audit"
	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/middleware"
	"github.com/crediflow/backend/internal/repository"
	"github.com/crediflow/backend/internal/services"
)

// Deps holds the process-wide collaborators the credit handlers share.
// Everything tenant-specific is built per request from the router.
type Deps struct {
	Router *database.TenantStoreRouter
	Redis  *redis.Client
	Audit  *audit.Logger
}

// scope is one request's tenant-bound view of the credit core.
type scope struct {
	identity  *middleware.Identity
	purchases *services.CreditPurchaseService
	payments  *services.InstallmentPaymentService
	dashboard *services.CreditDashboardService

	purchaseRepo repository.CreditPurchaseRepository
	modalities   repository.PaymentModalityLookup
}

// scope resolves the caller's tenant store and wires the repositories
// and services around it. Writes the error response itself on failure.
func (d *Deps) scope(w http.ResponseWriter, r *http.Request) (*scope, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return nil, false
	}

	store, err := d.Router.Provision(identity.TenantID, "")
	if err != nil {
		services.SendErrorResponse(w, "Tenant store unavailable", http.StatusServiceUnavailable, nil)
		return nil, false
	}

	purchaseRepo := repository.NewPQCreditPurchaseRepository(store)
	installmentRepo := repository.NewPQCreditInstallmentRepository(store)
	entryRepo := repository.NewPQFinancialEntryRepository(store)
	modalityRepo := repository.NewPQPaymentModalityRepository(store)

	return &scope{
		identity: identity,
		purchases: services.NewCreditPurchaseService(
			identity.TenantID, purchaseRepo, installmentRepo, d.Audit),
		payments: services.NewInstallmentPaymentService(
			identity.TenantID, installmentRepo, purchaseRepo, entryRepo, modalityRepo, d.Redis, d.Audit),
		dashboard:    services.NewCreditDashboardService(installmentRepo, entryRepo),
		purchaseRepo: purchaseRepo,
		modalities:   modalityRepo,
	}, true
}

// parseDate parses a YYYY-MM-DD query value.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
