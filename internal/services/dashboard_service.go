package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crediflow/backend/internal/models"
	"github.com/crediflow/backend/internal/repository"
)

// CreditDashboardService is the read-only aggregation side of the
// credit ledger: installments grouped by due date, totals and the daily
// receivable-vs-received summary.
type CreditDashboardService struct {
	installments repository.CreditInstallmentRepository
	ledger       repository.LedgerEntryGateway
}

func NewCreditDashboardService(
	installments repository.CreditInstallmentRepository,
	ledger repository.LedgerEntryGateway,
) *CreditDashboardService {
	return &CreditDashboardService{installments: installments, ledger: ledger}
}

// DueDateGroup is one calendar day of installments.
type DueDateGroup struct {
	Date         string                      `json:"date"` // YYYY-MM-DD
	Total        decimal.Decimal             `json:"total"`
	Count        int                         `json:"count"`
	Installments []*models.CreditInstallment `json:"installments"`
}

// DashboardByDate is the by-due-date view over a window.
type DashboardByDate struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Groups    []DueDateGroup `json:"groups"`
}

// ByDueDate groups installments due within [start, end] by calendar day,
// ordered by date ascending. An empty status means all statuses.
func (s *CreditDashboardService) ByDueDate(start, end time.Time, status models.InstallmentStatus) (*DashboardByDate, error) {
	if end.Before(start) {
		return nil, validationError("end date must not precede start date")
	}

	installments, err := s.installments.FindByDueDateRange(start, end, status)
	if err != nil {
		return nil, unavailableError("loading installments", err)
	}

	result := &DashboardByDate{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Groups:    []DueDateGroup{},
	}

	// installments arrive sorted by due date, so grouping is a single scan
	for _, inst := range installments {
		day := inst.DueDate.Format("2006-01-02")
		if n := len(result.Groups); n == 0 || result.Groups[n-1].Date != day {
			result.Groups = append(result.Groups, DueDateGroup{Date: day})
		}
		group := &result.Groups[len(result.Groups)-1]
		group.Total = group.Total.Add(inst.TotalValue())
		group.Count++
		group.Installments = append(group.Installments, inst)
	}

	return result, nil
}

// TotalsSummary adds the derived delinquency rate to the raw aggregates.
type TotalsSummary struct {
	repository.InstallmentTotals
	DelinquencyRate decimal.Decimal `json:"delinquency_rate"` // percent, 2 decimals
}

// Totals aggregates counts and sums within the optional due-date window.
func (s *CreditDashboardService) Totals(start, end *time.Time) (*TotalsSummary, error) {
	totals, err := s.installments.Totals(start, end)
	if err != nil {
		return nil, unavailableError("aggregating installments", err)
	}

	summary := &TotalsSummary{InstallmentTotals: *totals}
	if totals.TotalValue.IsPositive() {
		summary.DelinquencyRate = totals.OverdueValue.
			Div(totals.TotalValue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return summary, nil
}

// Overdue lists every installment currently overdue, oldest first.
func (s *CreditDashboardService) Overdue() ([]*models.CreditInstallment, error) {
	installments, err := s.installments.FindOverdue()
	if err != nil {
		return nil, unavailableError("loading overdue installments", err)
	}
	return installments, nil
}

// DueSoon lists open installments due within the next N days.
func (s *CreditDashboardService) DueSoon(days int) ([]*models.CreditInstallment, error) {
	if days < 1 {
		return nil, validationError("days must be at least 1")
	}
	installments, err := s.installments.FindDueSoon(today(), days)
	if err != nil {
		return nil, unavailableError("loading due-soon installments", err)
	}
	return installments, nil
}

// DailySummaryRow is one day of the receivable-vs-received comparison.
type DailySummaryRow struct {
	Date            string          `json:"date"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	TotalReceived   decimal.Decimal `json:"total_received"`
	Difference      decimal.Decimal `json:"difference"`
}

// DailySummary compares, per day, the open installment value falling due
// against the receivable ledger entries actually recorded. Rows are
// ordered newest first.
func (s *CreditDashboardService) DailySummary(start, end time.Time) ([]DailySummaryRow, error) {
	if end.Before(start) {
		return nil, validationError("end date must not precede start date")
	}

	installments, err := s.installments.FindByDueDateRange(start, end, "")
	if err != nil {
		return nil, unavailableError("loading installments", err)
	}
	entries, err := s.ledger.FindByDateRange(start, end)
	if err != nil {
		return nil, unavailableError("loading ledger entries", err)
	}

	byDay := make(map[string]*DailySummaryRow)
	row := func(day string) *DailySummaryRow {
		if r, ok := byDay[day]; ok {
			return r
		}
		r := &DailySummaryRow{Date: day}
		byDay[day] = r
		return r
	}

	for _, inst := range installments {
		if inst.Status == models.InstallmentStatusPaid || inst.Status == models.InstallmentStatusCanceled {
			continue
		}
		r := row(inst.DueDate.Format("2006-01-02"))
		r.TotalReceivable = r.TotalReceivable.Add(inst.TotalValue())
	}

	for _, entry := range entries {
		if entry.Type != models.EntryTypeReceivable {
			continue
		}
		r := row(entry.Date.Format("2006-01-02"))
		r.TotalReceived = r.TotalReceived.Add(entry.Value)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	rows := make([]DailySummaryRow, 0, len(days))
	for _, day := range days {
		r := byDay[day]
		r.Difference = r.TotalReceived.Sub(r.TotalReceivable)
		rows = append(rows, *r)
	}
	return rows, nil
}
