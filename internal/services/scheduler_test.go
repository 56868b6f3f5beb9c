package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediflow/backend/internal/models"
)

func schedulingPurchase(total, down string, count, intervalDays int, firstDue time.Time) *models.CreditPurchase {
	p := models.NewCreditPurchase()
	p.PayerName = "Maria Souza"
	p.Description = "Refrigerator"
	p.TotalValue = decimal.RequireFromString(total)
	p.DownPayment = decimal.RequireFromString(down)
	p.Installments = count
	p.FirstDueDate = firstDue
	p.IntervalDays = intervalDays
	return p
}

func TestScheduleInstallments(t *testing.T) {
	firstDue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("even split", func(t *testing.T) {
		purchase := schedulingPurchase("1200.00", "0", 4, 30, firstDue)

		installments := ScheduleInstallments(purchase)

		require.Len(t, installments, 4)
		for i, inst := range installments {
			assert.Equal(t, purchase.ID, inst.PurchaseID)
			assert.Equal(t, i+1, inst.Number)
			assert.Equal(t, models.InstallmentStatusPending, inst.Status)
			assert.True(t, inst.Value.Equal(decimal.RequireFromString("300.00")),
				"installment %d value = %s", i+1, inst.Value)
		}
	})

	t.Run("rounding remainder goes to last installment", func(t *testing.T) {
		purchase := schedulingPurchase("1000.00", "0", 3, 30, firstDue)

		installments := ScheduleInstallments(purchase)

		require.Len(t, installments, 3)
		assert.True(t, installments[0].Value.Equal(decimal.RequireFromString("333.33")))
		assert.True(t, installments[1].Value.Equal(decimal.RequireFromString("333.33")))
		assert.True(t, installments[2].Value.Equal(decimal.RequireFromString("333.34")))

		sum := decimal.Zero
		for _, inst := range installments {
			sum = sum.Add(inst.Value)
		}
		assert.True(t, sum.Equal(purchase.Payable()), "sum = %s", sum)
	})

	t.Run("down payment reduces the financed amount", func(t *testing.T) {
		purchase := schedulingPurchase("1500.00", "300.00", 6, 30, firstDue)

		installments := ScheduleInstallments(purchase)

		require.Len(t, installments, 6)
		sum := decimal.Zero
		for _, inst := range installments {
			sum = sum.Add(inst.Value)
		}
		assert.True(t, sum.Equal(decimal.RequireFromString("1200.00")))
	})

	t.Run("due dates advance by the configured interval", func(t *testing.T) {
		purchase := schedulingPurchase("700.00", "0", 3, 15, firstDue)

		installments := ScheduleInstallments(purchase)

		require.Len(t, installments, 3)
		assert.Equal(t, firstDue, installments[0].DueDate)
		assert.Equal(t, firstDue.AddDate(0, 0, 15), installments[1].DueDate)
		assert.Equal(t, firstDue.AddDate(0, 0, 30), installments[2].DueDate)
	})

	t.Run("single installment takes the full payable amount", func(t *testing.T) {
		purchase := schedulingPurchase("499.99", "100.00", 1, 30, firstDue)

		installments := ScheduleInstallments(purchase)

		require.Len(t, installments, 1)
		assert.True(t, installments[0].Value.Equal(decimal.RequireFromString("399.99")))
		assert.Equal(t, firstDue, installments[0].DueDate)
	})
}
