package services

import (
	"sort"
	"strings"
	"time"

	"github.com/crediflow/backend/internal/models"
	"github.com/crediflow/backend/internal/repository"
)

// In-memory repository fakes shared by the service tests. Each fake
// keeps its rows in a map and lets tests inject a failure via the err
// fields.

type fakePurchaseRepo struct {
	rows map[string]*models.CreditPurchase

	createErr error
	findErr   error
	updateErr error

	setStatusCalls []string
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{rows: make(map[string]*models.CreditPurchase)}
}

func (f *fakePurchaseRepo) Create(p *models.CreditPurchase) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *p
	f.rows[p.ID] = &clone
	return nil
}

func (f *fakePurchaseRepo) FindByID(id string) (*models.CreditPurchase, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePurchaseRepo) FindAll(filter repository.PurchaseFilter) ([]*models.CreditPurchase, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*models.CreditPurchase
	for _, p := range f.rows {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Payer != "" && !strings.Contains(strings.ToLower(p.PayerName), strings.ToLower(filter.Payer)) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePurchaseRepo) Count(filter repository.PurchaseFilter) (int, error) {
	rows, err := f.FindAll(filter)
	return len(rows), err
}

func (f *fakePurchaseRepo) Update(p *models.CreditPurchase) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	clone := *p
	f.rows[p.ID] = &clone
	return nil
}

func (f *fakePurchaseRepo) SetStatus(id string, from, to models.PurchaseStatus) (bool, error) {
	f.setStatusCalls = append(f.setStatusCalls, id+":"+string(from)+">"+string(to))
	p, ok := f.rows[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (f *fakePurchaseRepo) Delete(id string) (bool, error) {
	_, ok := f.rows[id]
	delete(f.rows, id)
	return ok, nil
}

type fakeInstallmentRepo struct {
	rows map[string]*models.CreditInstallment

	createBatchErr error
	findErr        error
	markPaidErr    error
	markPaidDenied bool
}

func newFakeInstallmentRepo() *fakeInstallmentRepo {
	return &fakeInstallmentRepo{rows: make(map[string]*models.CreditInstallment)}
}

func (f *fakeInstallmentRepo) put(inst *models.CreditInstallment) {
	clone := *inst
	f.rows[inst.ID] = &clone
}

func (f *fakeInstallmentRepo) CreateBatch(installments []*models.CreditInstallment) error {
	if f.createBatchErr != nil {
		return f.createBatchErr
	}
	for _, inst := range installments {
		f.put(inst)
	}
	return nil
}

func (f *fakeInstallmentRepo) FindByID(id string) (*models.CreditInstallment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	inst, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *inst
	return &clone, nil
}

func (f *fakeInstallmentRepo) FindByPurchase(purchaseID string, status models.InstallmentStatus) ([]*models.CreditInstallment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*models.CreditInstallment
	for _, inst := range f.rows {
		if inst.PurchaseID != purchaseID {
			continue
		}
		if status != "" && inst.Status != status {
			continue
		}
		clone := *inst
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeInstallmentRepo) FindByDueDateRange(start, end time.Time, status models.InstallmentStatus) ([]*models.CreditInstallment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*models.CreditInstallment
	for _, inst := range f.rows {
		if inst.DueDate.Before(start) || inst.DueDate.After(end) {
			continue
		}
		if status != "" && inst.Status != status {
			continue
		}
		clone := *inst
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].Number < out[j].Number
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

func (f *fakeInstallmentRepo) FindDueSoon(from time.Time, days int) ([]*models.CreditInstallment, error) {
	end := from.AddDate(0, 0, days)
	var out []*models.CreditInstallment
	for _, inst := range f.rows {
		if inst.Status != models.InstallmentStatusPending && inst.Status != models.InstallmentStatusOverdue {
			continue
		}
		if inst.DueDate.Before(from) || inst.DueDate.After(end) {
			continue
		}
		clone := *inst
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeInstallmentRepo) FindOverdue() ([]*models.CreditInstallment, error) {
	var out []*models.CreditInstallment
	for _, inst := range f.rows {
		if inst.Status != models.InstallmentStatusOverdue {
			continue
		}
		clone := *inst
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeInstallmentRepo) MarkPaid(inst *models.CreditInstallment) (bool, error) {
	if f.markPaidErr != nil {
		return false, f.markPaidErr
	}
	if f.markPaidDenied {
		return false, nil
	}
	current, ok := f.rows[inst.ID]
	if !ok {
		return false, nil
	}
	if current.Status != models.InstallmentStatusPending && current.Status != models.InstallmentStatusOverdue {
		return false, nil
	}
	f.put(inst)
	return true, nil
}

func (f *fakeInstallmentRepo) UndoPayment(inst *models.CreditInstallment) (bool, error) {
	current, ok := f.rows[inst.ID]
	if !ok || current.Status != models.InstallmentStatusPaid {
		return false, nil
	}
	f.put(inst)
	return true, nil
}

func (f *fakeInstallmentRepo) CancelByPurchase(purchaseID string) (int64, error) {
	var n int64
	for _, inst := range f.rows {
		if inst.PurchaseID != purchaseID {
			continue
		}
		if inst.Status == models.InstallmentStatusPending || inst.Status == models.InstallmentStatusOverdue {
			inst.Status = models.InstallmentStatusCanceled
			n++
		}
	}
	return n, nil
}

func (f *fakeInstallmentRepo) DeleteByPurchase(purchaseID string) (int64, error) {
	var n int64
	for id, inst := range f.rows {
		if inst.PurchaseID == purchaseID {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeInstallmentRepo) MarkOverdue(today time.Time) (int64, error) {
	var n int64
	for _, inst := range f.rows {
		if inst.Status == models.InstallmentStatusPending && inst.DueDate.Before(today) {
			inst.Status = models.InstallmentStatusOverdue
			n++
		}
	}
	return n, nil
}

func (f *fakeInstallmentRepo) Totals(start, end *time.Time) (*repository.InstallmentTotals, error) {
	totals := &repository.InstallmentTotals{}
	for _, inst := range f.rows {
		if start != nil && inst.DueDate.Before(*start) {
			continue
		}
		if end != nil && inst.DueDate.After(*end) {
			continue
		}
		totals.Count++
		totals.TotalValue = totals.TotalValue.Add(inst.TotalValue())
		switch inst.Status {
		case models.InstallmentStatusPaid:
			totals.PaidCount++
			totals.PaidValue = totals.PaidValue.Add(inst.TotalValue())
		case models.InstallmentStatusPending:
			totals.PendingCount++
			totals.PendingValue = totals.PendingValue.Add(inst.TotalValue())
		case models.InstallmentStatusOverdue:
			totals.OverdueCount++
			totals.OverdueValue = totals.OverdueValue.Add(inst.TotalValue())
		}
	}
	return totals, nil
}

type fakeLedgerGateway struct {
	rows map[string]*models.FinancialEntry

	createErr error
	deleteErr error

	created []string
	deleted []string
}

func newFakeLedgerGateway() *fakeLedgerGateway {
	return &fakeLedgerGateway{rows: make(map[string]*models.FinancialEntry)}
}

func (f *fakeLedgerGateway) Create(entry *models.FinancialEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *entry
	f.rows[entry.ID] = &clone
	f.created = append(f.created, entry.ID)
	return nil
}

func (f *fakeLedgerGateway) Delete(id string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, ok := f.rows[id]
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return ok, nil
}

func (f *fakeLedgerGateway) FindByDateRange(start, end time.Time) ([]*models.FinancialEntry, error) {
	var out []*models.FinancialEntry
	for _, entry := range f.rows {
		if entry.Date.Before(start) || entry.Date.After(end) {
			continue
		}
		clone := *entry
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakeModalityLookup struct {
	rows map[string]*models.PaymentModality
}

func newFakeModalityLookup(modalities ...*models.PaymentModality) *fakeModalityLookup {
	f := &fakeModalityLookup{rows: make(map[string]*models.PaymentModality)}
	for _, m := range modalities {
		f.rows[m.ID] = m
	}
	return f
}

func (f *fakeModalityLookup) FindByID(id string) (*models.PaymentModality, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (f *fakeModalityLookup) FindAll(activeOnly bool) ([]*models.PaymentModality, error) {
	var out []*models.PaymentModality
	for _, m := range f.rows {
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
