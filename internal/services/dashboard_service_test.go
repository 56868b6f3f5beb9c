package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crediflow/backend/internal/models"
)

func seedInstallment(repo *fakeInstallmentRepo, purchaseID string, number int, value string, dueDate time.Time, status models.InstallmentStatus) *models.CreditInstallment {
	inst := models.NewCreditInstallment(purchaseID, number, decimal.RequireFromString(value), dueDate)
	inst.Status = status
	if status == models.InstallmentStatusPaid {
		paidAt := dueDate
		inst.PaymentDate = &paidAt
		inst.EntryID = "entry-" + inst.ID
		inst.PaidByID = "user-1"
	}
	repo.put(inst)
	return inst
}

func TestCreditDashboardService_ByDueDate(t *testing.T) {
	installments := newFakeInstallmentRepo()
	ledger := newFakeLedgerGateway()
	svc := NewCreditDashboardService(installments, ledger)

	day := func(d int) time.Time {
		return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC)
	}

	seedInstallment(installments, "p1", 1, "100.00", day(1), models.InstallmentStatusPending)
	seedInstallment(installments, "p1", 2, "100.00", day(3), models.InstallmentStatusPending)
	seedInstallment(installments, "p2", 1, "50.00", day(3), models.InstallmentStatusPaid)
	seedInstallment(installments, "p2", 2, "50.00", day(5), models.InstallmentStatusOverdue)

	t.Run("groups by calendar day in order", func(t *testing.T) {
		result, err := svc.ByDueDate(day(1), day(7), "")

		require.NoError(t, err)
		require.Len(t, result.Groups, 3)

		assert.Equal(t, "2026-05-01", result.Groups[0].Date)
		assert.Equal(t, 1, result.Groups[0].Count)

		assert.Equal(t, "2026-05-03", result.Groups[1].Date)
		assert.Equal(t, 2, result.Groups[1].Count)
		assert.True(t, result.Groups[1].Total.Equal(decimal.RequireFromString("150.00")))

		assert.Equal(t, "2026-05-05", result.Groups[2].Date)
	})

	t.Run("status filter narrows the groups", func(t *testing.T) {
		result, err := svc.ByDueDate(day(1), day(7), models.InstallmentStatusOverdue)

		require.NoError(t, err)
		require.Len(t, result.Groups, 1)
		assert.Equal(t, "2026-05-05", result.Groups[0].Date)
	})

	t.Run("empty window yields no groups", func(t *testing.T) {
		result, err := svc.ByDueDate(day(10), day(20), "")

		require.NoError(t, err)
		assert.Empty(t, result.Groups)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		_, err := svc.ByDueDate(day(7), day(1), "")
		assert.True(t, IsValidation(err))
	})
}

func TestCreditDashboardService_Totals(t *testing.T) {
	installments := newFakeInstallmentRepo()
	svc := NewCreditDashboardService(installments, newFakeLedgerGateway())

	due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	seedInstallment(installments, "p1", 1, "300.00", due, models.InstallmentStatusPaid)
	seedInstallment(installments, "p1", 2, "300.00", due, models.InstallmentStatusPending)
	seedInstallment(installments, "p1", 3, "400.00", due, models.InstallmentStatusOverdue)
	seedInstallment(installments, "p1", 4, "1000.00", due, models.InstallmentStatusCanceled)

	summary, err := svc.Totals(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Count, "every row counts, canceled included")
	assert.True(t, summary.TotalValue.Equal(decimal.RequireFromString("2000.00")))
	assert.True(t, summary.OverdueValue.Equal(decimal.RequireFromString("400.00")))
	assert.True(t, summary.DelinquencyRate.Equal(decimal.RequireFromString("20.00")),
		"delinquency = %s", summary.DelinquencyRate)
}

func TestCreditDashboardService_Totals_Empty(t *testing.T) {
	svc := NewCreditDashboardService(newFakeInstallmentRepo(), newFakeLedgerGateway())

	summary, err := svc.Totals(nil, nil)

	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.True(t, summary.DelinquencyRate.IsZero(), "no installments means rate zero, not a division error")
}

func TestCreditDashboardService_DueSoon(t *testing.T) {
	installments := newFakeInstallmentRepo()
	svc := NewCreditDashboardService(installments, newFakeLedgerGateway())

	now := time.Now().UTC()
	seedInstallment(installments, "p1", 1, "100.00", now.AddDate(0, 0, 2), models.InstallmentStatusPending)
	seedInstallment(installments, "p1", 2, "100.00", now.AddDate(0, 0, 20), models.InstallmentStatusPending)
	seedInstallment(installments, "p1", 3, "100.00", now.AddDate(0, 0, 3), models.InstallmentStatusPaid)

	result, err := svc.DueSoon(7)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].Number)

	_, err = svc.DueSoon(0)
	assert.True(t, IsValidation(err))
}

func TestCreditDashboardService_DailySummary(t *testing.T) {
	installments := newFakeInstallmentRepo()
	ledger := newFakeLedgerGateway()
	svc := NewCreditDashboardService(installments, ledger)

	day1 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	seedInstallment(installments, "p1", 1, "200.00", day1, models.InstallmentStatusPending)
	seedInstallment(installments, "p1", 2, "100.00", day2, models.InstallmentStatusOverdue)
	// paid installments are no longer receivable
	seedInstallment(installments, "p1", 3, "500.00", day1, models.InstallmentStatusPaid)

	cash := &models.PaymentModality{ID: "mod-cash", Name: "Cash", IsActive: true}
	require.NoError(t, ledger.Create(models.NewFinancialEntry(decimal.RequireFromString("150.00"), day1, cash)))

	rows, err := svc.DailySummary(day1, day2)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, "2026-05-02", rows[0].Date)
	assert.True(t, rows[0].TotalReceivable.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, rows[0].TotalReceived.IsZero())

	assert.Equal(t, "2026-05-01", rows[1].Date)
	assert.True(t, rows[1].TotalReceivable.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, rows[1].TotalReceived.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, rows[1].Difference.Equal(decimal.RequireFromString("-50.00")))
}
