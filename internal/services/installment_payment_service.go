package services

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/audit"
	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/models"
	"github.com/crediflow/backend/internal/repository"
)

const payGuardTTL = 30 * time.Second

// InstallmentPaymentService pays and unpays single installments,
// keeping the installment, the generic ledger and the owning purchase
// consistent. One instance serves one tenant.
type InstallmentPaymentService struct {
	tenantID     string
	installments repository.CreditInstallmentRepository
	purchases    repository.CreditPurchaseRepository
	ledger       repository.LedgerEntryGateway
	modalities   repository.PaymentModalityLookup
	redis        *redis.Client // optional; nil disables the guard key
	audit        *audit.Logger
}

func NewInstallmentPaymentService(
	tenantID string,
	installments repository.CreditInstallmentRepository,
	purchases repository.CreditPurchaseRepository,
	ledger repository.LedgerEntryGateway,
	modalities repository.PaymentModalityLookup,
	redisClient *redis.Client,
	auditLogger *audit.Logger,
) *InstallmentPaymentService {
	return &InstallmentPaymentService{
		tenantID:     tenantID,
		installments: installments,
		purchases:    purchases,
		ledger:       ledger,
		modalities:   modalities,
		redis:        redisClient,
		audit:        auditLogger,
	}
}

// PayInput carries one payment registration.
type PayInput struct {
	InstallmentID  string
	PaymentDate    time.Time
	ModalityID     string
	Interest       decimal.Decimal
	Penalty        decimal.Decimal
	Note           string
	RecordedByID   string
	RecordedByName string
}

// PaymentResult is the outcome of Pay.
type PaymentResult struct {
	Installment *models.CreditInstallment `json:"installment"`
	Entry       *models.FinancialEntry    `json:"financial_entry"`
}

// Pay registers the payment of one installment: creates the ledger entry
// for principal + interest + penalty, stamps the installment and, when
// this was the last open installment, completes the purchase. The
// conditional status update is the authoritative guard against paying
// the same installment twice; losing it removes the just-created entry.
func (s *InstallmentPaymentService) Pay(ctx context.Context, in PayInput) (*PaymentResult, error) {
	if err := s.validatePayInput(in); err != nil {
		return nil, err
	}

	inst, err := s.installments.FindByID(in.InstallmentID)
	if err != nil {
		return nil, unavailableError("loading installment", err)
	}
	if inst == nil {
		return nil, notFoundError("installment")
	}
	switch inst.Status {
	case models.InstallmentStatusPaid:
		return nil, conflictError("installment is already paid")
	case models.InstallmentStatusCanceled:
		return nil, conflictError("cannot pay a canceled installment")
	}

	purchase, err := s.purchases.FindByID(inst.PurchaseID)
	if err != nil {
		return nil, unavailableError("loading credit purchase", err)
	}
	if purchase == nil {
		return nil, notFoundError("credit purchase")
	}
	if purchase.Status == models.PurchaseStatusCanceled {
		return nil, conflictError("cannot pay an installment of a canceled purchase")
	}

	modality, err := s.modalities.FindByID(in.ModalityID)
	if err != nil {
		return nil, unavailableError("loading payment modality", err)
	}
	if modality == nil {
		return nil, notFoundError("payment modality")
	}
	if !modality.IsActive {
		return nil, conflictError("payment modality %q is inactive", modality.Name)
	}

	release, err := s.acquirePayGuard(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	inst.Interest = in.Interest
	inst.Penalty = in.Penalty
	entry := models.NewFinancialEntry(inst.TotalValue(), in.PaymentDate, modality)
	entry.Description = purchase.Description

	if err := s.ledger.Create(entry); err != nil {
		return nil, unavailableError("creating ledger entry", err)
	}

	inst.MarkPaid(in.PaymentDate, entry.ID, in.RecordedByID, in.RecordedByName, in.Interest, in.Penalty, in.Note)

	updated, err := s.installments.MarkPaid(inst)
	if err != nil {
		return nil, unavailableError("updating installment", err)
	}
	if !updated {
		// lost the race: another payment landed first
		if _, delErr := s.ledger.Delete(entry.ID); delErr != nil {
			log.Printf("[PAY] Failed to remove orphaned ledger entry %s: %v", entry.ID, delErr)
		}
		return nil, conflictError("installment is already paid")
	}

	s.completePurchaseIfSettled(purchase.ID)
	s.audit.LogPayment(s.tenantID, in.RecordedByID, inst.ID, entry.ID, "INSTALLMENT_PAID")

	return &PaymentResult{Installment: inst, Entry: entry}, nil
}

// Unpay reverses a payment: the linked ledger entry is removed
// (best-effort; its absence does not abort the reversal), the payment
// fields are cleared and the status is recomputed from the due date. A
// completed purchase goes back to active.
func (s *InstallmentPaymentService) Unpay(installmentID, userID string) (*models.CreditInstallment, error) {
	inst, err := s.installments.FindByID(installmentID)
	if err != nil {
		return nil, unavailableError("loading installment", err)
	}
	if inst == nil {
		return nil, notFoundError("installment")
	}
	if inst.Status != models.InstallmentStatusPaid {
		return nil, conflictError("only paid installments can be reversed")
	}

	if inst.EntryID != "" {
		// the installment-side reversal is the authoritative outcome;
		// a missing or unreachable ledger entry is logged and ignored
		if _, err := s.ledger.Delete(inst.EntryID); err != nil {
			log.Printf("[UNPAY] Failed to delete ledger entry %s: %v", inst.EntryID, err)
		}
	}

	inst.UndoPayment(today())

	updated, err := s.installments.UndoPayment(inst)
	if err != nil {
		return nil, unavailableError("updating installment", err)
	}
	if !updated {
		return nil, conflictError("installment is no longer paid")
	}

	// at least one installment is open again, so a completed purchase
	// cannot stay completed
	if _, err := s.purchases.SetStatus(inst.PurchaseID, models.PurchaseStatusCompleted, models.PurchaseStatusActive); err != nil {
		return nil, unavailableError("reactivating credit purchase", err)
	}

	s.audit.LogPayment(s.tenantID, userID, inst.ID, "", "INSTALLMENT_UNPAID")
	return inst, nil
}

// RefreshOverdue flips pending installments past their due date to
// overdue. Idempotent; meant to be triggered by an external scheduler.
func (s *InstallmentPaymentService) RefreshOverdue() (int64, error) {
	count, err := s.installments.MarkOverdue(today())
	if err != nil {
		return 0, unavailableError("refreshing overdue installments", err)
	}
	if count > 0 {
		log.Printf("[OVERDUE] Marked %d installments overdue for tenant %s", count, s.tenantID)
	}
	return count, nil
}

func (s *InstallmentPaymentService) validatePayInput(in PayInput) error {
	if in.InstallmentID == "" {
		return validationError("installment id is required")
	}
	if in.PaymentDate.IsZero() {
		return validationError("payment date is required")
	}
	if in.ModalityID == "" {
		return validationError("payment modality is required")
	}
	if in.Interest.IsNegative() {
		return validationError("interest cannot be negative")
	}
	if in.Penalty.IsNegative() {
		return validationError("penalty cannot be negative")
	}
	if in.RecordedByID == "" || in.RecordedByName == "" {
		return validationError("recording user is required")
	}
	return nil
}

// acquirePayGuard takes a short-TTL per-installment key so concurrent
// payment attempts fail fast. The conditional update remains the
// authoritative guard; without redis this is a no-op.
func (s *InstallmentPaymentService) acquirePayGuard(ctx context.Context, installmentID string) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}

	key := database.KeyPrefix() + ":pay:guard:" + s.tenantID + ":" + installmentID
	ok, err := s.redis.SetNX(ctx, key, "1", payGuardTTL).Result()
	if err != nil {
		log.Printf("[PAY] Redis guard unavailable, continuing without it: %v", err)
		return func() {}, nil
	}
	if !ok {
		return nil, conflictError("a payment for this installment is already in progress")
	}
	return func() { s.redis.Del(ctx, key) }, nil
}

// completePurchaseIfSettled flips the purchase to completed when every
// non-canceled installment is paid. Failures only log: the payment
// itself already succeeded.
func (s *InstallmentPaymentService) completePurchaseIfSettled(purchaseID string) {
	installments, err := s.installments.FindByPurchase(purchaseID, "")
	if err != nil {
		log.Printf("[PAY] Failed to check purchase completion %s: %v", purchaseID, err)
		return
	}
	for _, inst := range installments {
		switch inst.Status {
		case models.InstallmentStatusPaid, models.InstallmentStatusCanceled:
		default:
			return
		}
	}
	if _, err := s.purchases.SetStatus(purchaseID, models.PurchaseStatusActive, models.PurchaseStatusCompleted); err != nil {
		log.Printf("[PAY] Failed to complete purchase %s: %v", purchaseID, err)
	}
}

// today is the current day at UTC midnight, the reference point for all
// overdue decisions.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
