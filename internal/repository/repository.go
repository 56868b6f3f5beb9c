// Package repository contains the tenant-scoped persistence contracts of
// the credit core and their Postgres implementations. Every repository is
// bound to one TenantStore handle; nothing here crosses tenants.
package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/models"
)

// PurchaseFilter narrows listing queries.
type PurchaseFilter struct {
	Status models.PurchaseStatus // empty = all
	Payer  string                // case-insensitive substring match on payer name
	Limit  int
	Offset int
}

// InstallmentTotals is the aggregate snapshot behind the dashboard.
type InstallmentTotals struct {
	Count        int             `json:"count"`
	PaidCount    int             `json:"paid_count"`
	PendingCount int             `json:"pending_count"`
	OverdueCount int             `json:"overdue_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
	PaidValue    decimal.Decimal `json:"paid_value"`
	PendingValue decimal.Decimal `json:"pending_value"`
	OverdueValue decimal.Decimal `json:"overdue_value"`
}

// CreditPurchaseRepository persists credit purchase master records.
// Find methods return (nil, nil) when the record does not exist.
type CreditPurchaseRepository interface {
	Create(purchase *models.CreditPurchase) error
	FindByID(id string) (*models.CreditPurchase, error)
	FindAll(filter PurchaseFilter) ([]*models.CreditPurchase, error)
	Count(filter PurchaseFilter) (int, error)
	Update(purchase *models.CreditPurchase) error
	// SetStatus transitions id from one status to another atomically and
	// reports whether a row actually changed.
	SetStatus(id string, from, to models.PurchaseStatus) (bool, error)
	Delete(id string) (bool, error)
}

// CreditInstallmentRepository persists the scheduled obligations.
type CreditInstallmentRepository interface {
	CreateBatch(installments []*models.CreditInstallment) error
	FindByID(id string) (*models.CreditInstallment, error)
	FindByPurchase(purchaseID string, status models.InstallmentStatus) ([]*models.CreditInstallment, error)
	FindByDueDateRange(start, end time.Time, status models.InstallmentStatus) ([]*models.CreditInstallment, error)
	FindDueSoon(from time.Time, days int) ([]*models.CreditInstallment, error)
	FindOverdue() ([]*models.CreditInstallment, error)
	// MarkPaid writes the payment fields of inst, guarded on the row
	// still being pending or overdue. Returns false when the guard
	// rejects the transition.
	MarkPaid(inst *models.CreditInstallment) (bool, error)
	// UndoPayment clears the payment fields of inst and writes its
	// recomputed status, guarded on the row still being paid.
	UndoPayment(inst *models.CreditInstallment) (bool, error)
	CancelByPurchase(purchaseID string) (int64, error)
	DeleteByPurchase(purchaseID string) (int64, error)
	// MarkOverdue flips pending installments due strictly before today
	// to overdue and returns how many changed. Idempotent.
	MarkOverdue(today time.Time) (int64, error)
	Totals(start, end *time.Time) (*InstallmentTotals, error)
}

// LedgerEntryGateway is the narrow contract to the generic financial
// ledger. The credit core creates and deletes entries but does not own
// their schema.
type LedgerEntryGateway interface {
	Create(entry *models.FinancialEntry) error
	Delete(id string) (bool, error)
	FindByDateRange(start, end time.Time) ([]*models.FinancialEntry, error)
}

// PaymentModalityLookup is the read-only view of tenant payment
// modalities the payment flow depends on.
type PaymentModalityLookup interface {
	FindByID(id string) (*models.PaymentModality, error)
	FindAll(activeOnly bool) ([]*models.PaymentModality, error)
}
