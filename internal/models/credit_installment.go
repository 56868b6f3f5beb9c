package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus is the lifecycle state of one installment.
type InstallmentStatus string

const (
	InstallmentStatusPending  InstallmentStatus = "pending"
	InstallmentStatusPaid     InstallmentStatus = "paid"
	InstallmentStatusOverdue  InstallmentStatus = "overdue"
	InstallmentStatusCanceled InstallmentStatus = "canceled"
)

// CreditInstallment is one scheduled obligation of a CreditPurchase.
// Paid installments carry the payment date, the linked financial entry
// and the user who recorded the payment; those three fields are set
// together or not at all.
type CreditInstallment struct {
	ID          string            `json:"id" db:"id"`
	PurchaseID  string            `json:"purchase_id" db:"purchase_id"`
	Number      int               `json:"number" db:"number"` // 1-based within the purchase
	Value       decimal.Decimal   `json:"value" db:"value"`
	Interest    decimal.Decimal   `json:"interest" db:"interest"`
	Penalty     decimal.Decimal   `json:"penalty" db:"penalty"`
	DueDate     time.Time         `json:"due_date" db:"due_date"`
	Status      InstallmentStatus `json:"status" db:"status"`
	PaymentDate *time.Time        `json:"payment_date,omitempty" db:"payment_date"`
	EntryID     string            `json:"entry_id,omitempty" db:"entry_id"`
	PaidByID    string            `json:"paid_by_id,omitempty" db:"paid_by_id"`
	PaidByName  string            `json:"paid_by_name,omitempty" db:"paid_by_name"`
	Note        string            `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// NewCreditInstallment creates a pending installment for a purchase.
func NewCreditInstallment(purchaseID string, number int, value decimal.Decimal, dueDate time.Time) *CreditInstallment {
	now := time.Now().UTC()
	return &CreditInstallment{
		ID:         uuid.NewString(),
		PurchaseID: purchaseID,
		Number:     number,
		Value:      value,
		DueDate:    dueDate,
		Status:     InstallmentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TotalValue is the amount owed: principal + interest + penalty.
func (i *CreditInstallment) TotalValue() decimal.Decimal {
	return i.Value.Add(i.Interest).Add(i.Penalty)
}

// DaysLate returns how many days past due the installment is. For paid
// installments it measures payment date against due date; otherwise it
// measures today against due date. Never negative.
func (i *CreditInstallment) DaysLate(today time.Time) int {
	ref := today
	if i.PaymentDate != nil {
		ref = *i.PaymentDate
	}
	days := int(truncateDay(ref).Sub(truncateDay(i.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// MarkPaid stamps the payment data and transitions to paid.
func (i *CreditInstallment) MarkPaid(paymentDate time.Time, entryID, paidByID, paidByName string, interest, penalty decimal.Decimal, note string) {
	i.Status = InstallmentStatusPaid
	i.PaymentDate = &paymentDate
	i.EntryID = entryID
	i.PaidByID = paidByID
	i.PaidByName = paidByName
	i.Interest = interest
	i.Penalty = penalty
	if note != "" {
		i.Note = note
	}
	i.UpdatedAt = time.Now().UTC()
}

// UndoPayment clears the payment data and recomputes the status from the
// due date: overdue when past due, pending otherwise.
func (i *CreditInstallment) UndoPayment(today time.Time) {
	i.PaymentDate = nil
	i.EntryID = ""
	i.PaidByID = ""
	i.PaidByName = ""
	if i.DaysLate(today) > 0 {
		i.Status = InstallmentStatusOverdue
	} else {
		i.Status = InstallmentStatusPending
	}
	i.UpdatedAt = time.Now().UTC()
}

func (i *CreditInstallment) MarkCanceled() {
	i.Status = InstallmentStatusCanceled
	i.UpdatedAt = time.Now().UTC()
}

// Validate checks the entity invariants, including the paid-state
// completeness rule.
func (i *CreditInstallment) Validate() error {
	if i.PurchaseID == "" {
		return errors.New("purchase id is required")
	}
	if i.Number < 1 {
		return errors.New("installment number must be at least 1")
	}
	if !i.Value.IsPositive() {
		return errors.New("installment value must be greater than zero")
	}
	if i.Interest.IsNegative() {
		return errors.New("interest cannot be negative")
	}
	if i.Penalty.IsNegative() {
		return errors.New("penalty cannot be negative")
	}
	if i.DueDate.IsZero() {
		return errors.New("due date is required")
	}
	switch i.Status {
	case InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue, InstallmentStatusCanceled:
	default:
		return errors.New("invalid installment status")
	}
	if i.Status == InstallmentStatusPaid {
		if i.PaymentDate == nil {
			return errors.New("paid installment must have a payment date")
		}
		if i.EntryID == "" {
			return errors.New("paid installment must reference a financial entry")
		}
		if i.PaidByID == "" {
			return errors.New("paid installment must record the paying user")
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
