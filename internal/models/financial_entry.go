package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType tags the direction of a financial entry in the generic ledger.
type EntryType string

const (
	EntryTypeReceivable EntryType = "receivable" // money coming in (installment payments)
	EntryTypePayable    EntryType = "payable"
)

// FinancialEntry is one monetary movement in the tenant's generic ledger.
// The credit core only creates and deletes these; the schema is owned by
// the financial-entry subsystem.
type FinancialEntry struct {
	ID            string          `json:"id" db:"id"`
	Value         decimal.Decimal `json:"value" db:"value"`
	Date          time.Time       `json:"date" db:"date"`
	Type          EntryType       `json:"type" db:"type"`
	ModalityID    string          `json:"modality_id" db:"modality_id"`
	ModalityName  string          `json:"modality_name" db:"modality_name"`
	ModalityColor string          `json:"modality_color" db:"modality_color"`
	Description   string          `json:"description,omitempty" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// NewFinancialEntry creates a receivable entry tagged with a modality.
func NewFinancialEntry(value decimal.Decimal, date time.Time, modality *PaymentModality) *FinancialEntry {
	return &FinancialEntry{
		ID:            uuid.NewString(),
		Value:         value,
		Date:          date,
		Type:          EntryTypeReceivable,
		ModalityID:    modality.ID,
		ModalityName:  modality.Name,
		ModalityColor: modality.Color,
		CreatedAt:     time.Now().UTC(),
	}
}
