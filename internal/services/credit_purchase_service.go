package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/audit"
	"github.com/crediflow/backend/internal/models"
	"github.com/crediflow/backend/internal/repository"
)

// CreditPurchaseService orchestrates the lifecycle of a credit purchase
// together with its installment set. One instance serves one tenant.
type CreditPurchaseService struct {
	tenantID     string
	purchases    repository.CreditPurchaseRepository
	installments repository.CreditInstallmentRepository
	audit        *audit.Logger
}

func NewCreditPurchaseService(
	tenantID string,
	purchases repository.CreditPurchaseRepository,
	installments repository.CreditInstallmentRepository,
	auditLogger *audit.Logger,
) *CreditPurchaseService {
	return &CreditPurchaseService{
		tenantID:     tenantID,
		purchases:    purchases,
		installments: installments,
		audit:        auditLogger,
	}
}

// CreatePurchaseInput carries the fields of a new credit sale.
type CreatePurchaseInput struct {
	PayerName     string
	PayerDocument string
	PayerPhone    string
	Description   string
	TotalValue    decimal.Decimal
	DownPayment   decimal.Decimal
	Installments  int
	FirstDueDate  time.Time
	IntervalDays  *int // nil keeps the monthly default
	MonthlyRate   decimal.Decimal
	CreatedByID   string
	CreatedByName string
}

// PurchaseWithInstallments is the result of Create and Get.
type PurchaseWithInstallments struct {
	Purchase     *models.CreditPurchase      `json:"purchase"`
	Installments []*models.CreditInstallment `json:"installments"`
	PaidCount    int                         `json:"paid_count"`
	OpenCount    int                         `json:"open_count"`
}

// Create validates, persists the purchase and its generated installment
// set. Nothing is written when validation fails; when the installment
// batch fails the purchase row is removed again so no purchase exists
// without its installments.
func (s *CreditPurchaseService) Create(in CreatePurchaseInput) (*PurchaseWithInstallments, error) {
	purchase := models.NewCreditPurchase()
	purchase.PayerName = in.PayerName
	purchase.PayerDocument = in.PayerDocument
	purchase.PayerPhone = in.PayerPhone
	purchase.Description = in.Description
	purchase.TotalValue = in.TotalValue
	purchase.DownPayment = in.DownPayment
	purchase.Installments = in.Installments
	purchase.FirstDueDate = in.FirstDueDate
	if in.IntervalDays != nil {
		// explicit values go through Validate untouched so a zero or
		// negative interval is rejected rather than replaced
		purchase.IntervalDays = *in.IntervalDays
	}
	purchase.MonthlyRate = in.MonthlyRate
	purchase.CreatedByID = in.CreatedByID
	purchase.CreatedByName = in.CreatedByName

	if err := purchase.Validate(); err != nil {
		return nil, validationError("%s", err.Error())
	}

	installments := ScheduleInstallments(purchase)

	if err := s.purchases.Create(purchase); err != nil {
		return nil, unavailableError("creating credit purchase", err)
	}

	if err := s.installments.CreateBatch(installments); err != nil {
		// keep the store consistent: a purchase must never exist
		// without its installment set
		if _, delErr := s.purchases.Delete(purchase.ID); delErr != nil {
			s.audit.LogError(s.tenantID, purchase.ID, "PURCHASE_CREATE_ROLLBACK", delErr)
		}
		return nil, unavailableError("creating installments", err)
	}

	s.audit.LogPurchase(s.tenantID, purchase.CreatedByID, purchase.ID, "PURCHASE_CREATED")

	return &PurchaseWithInstallments{
		Purchase:     purchase,
		Installments: installments,
		OpenCount:    len(installments),
	}, nil
}

// CancelResult reports a cancellation outcome.
type CancelResult struct {
	Purchase             *models.CreditPurchase `json:"purchase"`
	CanceledInstallments int64                  `json:"canceled_installments"`
}

// Cancel voids a purchase and every open installment; paid installments
// stay untouched as history.
func (s *CreditPurchaseService) Cancel(purchaseID, userID string) (*CancelResult, error) {
	purchase, err := s.purchases.FindByID(purchaseID)
	if err != nil {
		return nil, unavailableError("loading credit purchase", err)
	}
	if purchase == nil {
		return nil, notFoundError("credit purchase")
	}
	if purchase.Status == models.PurchaseStatusCanceled {
		return nil, conflictError("credit purchase is already canceled")
	}

	purchase.Cancel()
	if err := s.purchases.Update(purchase); err != nil {
		return nil, unavailableError("canceling credit purchase", err)
	}

	canceled, err := s.installments.CancelByPurchase(purchaseID)
	if err != nil {
		return nil, unavailableError("canceling installments", err)
	}

	s.audit.LogPurchase(s.tenantID, userID, purchaseID, "PURCHASE_CANCELED")

	return &CancelResult{Purchase: purchase, CanceledInstallments: canceled}, nil
}

// Delete removes a purchase and cascades to its installments.
// Irreversible; refused while any installment is still paid so ledger
// entries never end up orphaned.
func (s *CreditPurchaseService) Delete(purchaseID, userID string) error {
	purchase, err := s.purchases.FindByID(purchaseID)
	if err != nil {
		return unavailableError("loading credit purchase", err)
	}
	if purchase == nil {
		return notFoundError("credit purchase")
	}

	paid, err := s.installments.FindByPurchase(purchaseID, models.InstallmentStatusPaid)
	if err != nil {
		return unavailableError("loading installments", err)
	}
	if len(paid) > 0 {
		return conflictError("purchase has %d paid installments; reverse the payments first", len(paid))
	}

	if _, err := s.installments.DeleteByPurchase(purchaseID); err != nil {
		return unavailableError("deleting installments", err)
	}
	if _, err := s.purchases.Delete(purchaseID); err != nil {
		return unavailableError("deleting credit purchase", err)
	}

	s.audit.LogPurchase(s.tenantID, userID, purchaseID, "PURCHASE_DELETED")
	return nil
}

// Get returns a purchase with its ordered installment set.
func (s *CreditPurchaseService) Get(purchaseID string) (*PurchaseWithInstallments, error) {
	purchase, err := s.purchases.FindByID(purchaseID)
	if err != nil {
		return nil, unavailableError("loading credit purchase", err)
	}
	if purchase == nil {
		return nil, notFoundError("credit purchase")
	}

	installments, err := s.installments.FindByPurchase(purchaseID, "")
	if err != nil {
		return nil, unavailableError("loading installments", err)
	}

	result := &PurchaseWithInstallments{Purchase: purchase, Installments: installments}
	for _, inst := range installments {
		switch inst.Status {
		case models.InstallmentStatusPaid:
			result.PaidCount++
		case models.InstallmentStatusPending, models.InstallmentStatusOverdue:
			result.OpenCount++
		}
	}
	return result, nil
}

// PurchaseList is a page of purchases.
type PurchaseList struct {
	Purchases []*models.CreditPurchase `json:"purchases"`
	Total     int                      `json:"total"`
}

func (s *CreditPurchaseService) List(filter repository.PurchaseFilter) (*PurchaseList, error) {
	purchases, err := s.purchases.FindAll(filter)
	if err != nil {
		return nil, unavailableError("listing credit purchases", err)
	}
	total, err := s.purchases.Count(filter)
	if err != nil {
		return nil, unavailableError("counting credit purchases", err)
	}
	return &PurchaseList{Purchases: purchases, Total: total}, nil
}
