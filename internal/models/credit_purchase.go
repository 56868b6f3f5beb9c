package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus is the lifecycle state of a credit purchase.
type PurchaseStatus string

const (
	PurchaseStatusActive    PurchaseStatus = "active"    // open, installments outstanding
	PurchaseStatusCanceled  PurchaseStatus = "canceled"  // canceled, unpaid installments voided
	PurchaseStatusCompleted PurchaseStatus = "completed" // every installment paid
)

// CreditPurchase is the master record of one credit sale. The sale is
// split into CreditInstallment rows generated at creation time.
type CreditPurchase struct {
	ID            string          `json:"id" db:"id"`
	PayerName     string          `json:"payer_name" db:"payer_name"`
	PayerDocument string          `json:"payer_document,omitempty" db:"payer_document"`
	PayerPhone    string          `json:"payer_phone,omitempty" db:"payer_phone"`
	Description   string          `json:"description" db:"description"`
	TotalValue    decimal.Decimal `json:"total_value" db:"total_value"`
	DownPayment   decimal.Decimal `json:"down_payment" db:"down_payment"`
	Installments  int             `json:"installments" db:"installments"`
	FirstDueDate  time.Time       `json:"first_due_date" db:"first_due_date"`
	IntervalDays  int             `json:"interval_days" db:"interval_days"`
	MonthlyRate   decimal.Decimal `json:"monthly_rate" db:"monthly_rate"` // interest, % per month
	CreatedByID   string          `json:"created_by_id" db:"created_by_id"`
	CreatedByName string          `json:"created_by_name" db:"created_by_name"`
	Status        PurchaseStatus  `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// NewCreditPurchase fills generated fields and defaults; callers set the
// business fields before calling Validate.
func NewCreditPurchase() *CreditPurchase {
	now := time.Now().UTC()
	return &CreditPurchase{
		ID:           uuid.NewString(),
		IntervalDays: 30,
		Status:       PurchaseStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the entity invariants before any write.
func (p *CreditPurchase) Validate() error {
	if strings.TrimSpace(p.PayerName) == "" {
		return errors.New("payer name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("purchase description is required")
	}
	if !p.TotalValue.IsPositive() {
		return errors.New("total value must be greater than zero")
	}
	if p.DownPayment.IsNegative() {
		return errors.New("down payment cannot be negative")
	}
	if p.DownPayment.GreaterThanOrEqual(p.TotalValue) {
		return errors.New("down payment must be less than total value")
	}
	if p.Installments < 1 {
		return errors.New("installment count must be at least 1")
	}
	if p.IntervalDays < 1 {
		return errors.New("interval between installments must be at least 1 day")
	}
	if p.MonthlyRate.IsNegative() {
		return errors.New("monthly interest rate cannot be negative")
	}
	if p.FirstDueDate.IsZero() {
		return errors.New("first due date is required")
	}
	if p.CreatedByID == "" {
		return errors.New("creator user id is required")
	}
	if strings.TrimSpace(p.CreatedByName) == "" {
		return errors.New("creator user name is required")
	}
	switch p.Status {
	case PurchaseStatusActive, PurchaseStatusCanceled, PurchaseStatusCompleted:
	default:
		return errors.New("invalid purchase status")
	}
	return nil
}

// Payable is the amount split across installments.
func (p *CreditPurchase) Payable() decimal.Decimal {
	return p.TotalValue.Sub(p.DownPayment)
}

func (p *CreditPurchase) Cancel() {
	p.Status = PurchaseStatusCanceled
	p.UpdatedAt = time.Now().UTC()
}

func (p *CreditPurchase) Complete() {
	p.Status = PurchaseStatusCompleted
	p.UpdatedAt = time.Now().UTC()
}

func (p *CreditPurchase) Reactivate() {
	p.Status = PurchaseStatusActive
	p.UpdatedAt = time.Now().UTC()
}
