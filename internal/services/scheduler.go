package services

import (
	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/models"
)

// ScheduleInstallments expands a credit purchase into its full
// installment set. Pure and deterministic: the payable amount
// (total - down payment) is split evenly to 2 decimals and the last
// installment absorbs the rounding remainder, so the principals always
// sum exactly to the payable amount.
func ScheduleInstallments(purchase *models.CreditPurchase) []*models.CreditInstallment {
	payable := purchase.Payable()
	count := purchase.Installments
	base := payable.Div(decimal.NewFromInt(int64(count))).Round(2)

	installments := make([]*models.CreditInstallment, 0, count)
	for i := 1; i <= count; i++ {
		dueDate := purchase.FirstDueDate.AddDate(0, 0, (i-1)*purchase.IntervalDays)
		installments = append(installments, models.NewCreditInstallment(purchase.ID, i, base, dueDate))
	}

	remainder := payable.Sub(base.Mul(decimal.NewFromInt(int64(count)))).Round(2)
	if !remainder.IsZero() {
		last := installments[count-1]
		last.Value = last.Value.Add(remainder)
	}

	return installments
}
