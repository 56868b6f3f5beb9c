package models

import "time"

// PaymentModality is tenant reference data describing how a payment was
// made (cash, PIX, card machine...). The credit core only reads it: paying
// an installment requires an active modality.
type PaymentModality struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
