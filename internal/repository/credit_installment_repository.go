package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/models"
)

const installmentColumns = `id, purchase_id, number, value, interest, penalty,
	due_date, status, payment_date, entry_id, paid_by_id, paid_by_name, note,
	created_at, updated_at`

// PQCreditInstallmentRepository is the Postgres implementation of
// CreditInstallmentRepository against one tenant store.
type PQCreditInstallmentRepository struct {
	store *database.TenantStore
}

func NewPQCreditInstallmentRepository(store *database.TenantStore) *PQCreditInstallmentRepository {
	return &PQCreditInstallmentRepository{store: store}
}

func (r *PQCreditInstallmentRepository) table() string {
	return r.store.Table("credit_installments")
}

// CreateBatch writes a purchase's full installment set in one statement.
func (r *PQCreditInstallmentRepository) CreateBatch(installments []*models.CreditInstallment) error {
	if len(installments) == 0 {
		return nil
	}
	for _, inst := range installments {
		if err := inst.Validate(); err != nil {
			return fmt.Errorf("installment %d: %w", inst.Number, err)
		}
	}

	const fields = 15
	placeholders := make([]string, 0, len(installments))
	args := make([]any, 0, len(installments)*fields)
	for i, inst := range installments {
		base := i * fields
		marks := make([]string, fields)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args,
			inst.ID, inst.PurchaseID, inst.Number, inst.Value, inst.Interest,
			inst.Penalty, inst.DueDate, inst.Status, nullTime(inst.PaymentDate),
			nullString(inst.EntryID), nullString(inst.PaidByID), nullString(inst.PaidByName),
			inst.Note, inst.CreatedAt, inst.UpdatedAt,
		)
	}

	query := `INSERT INTO ` + r.table() + ` (` + installmentColumns + `) VALUES ` +
		strings.Join(placeholders, ", ")

	_, err := r.store.DB().Exec(query, args...)
	return err
}

func (r *PQCreditInstallmentRepository) FindByID(id string) (*models.CreditInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM ` + r.table() + ` WHERE id = $1`
	inst, err := scanInstallment(r.store.DB().QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inst, err
}

func (r *PQCreditInstallmentRepository) FindByPurchase(purchaseID string, status models.InstallmentStatus) ([]*models.CreditInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM ` + r.table() + ` WHERE purchase_id = $1`
	args := []any{purchaseID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY number ASC`

	return r.queryInstallments(query, args...)
}

func (r *PQCreditInstallmentRepository) FindByDueDateRange(start, end time.Time, status models.InstallmentStatus) ([]*models.CreditInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM ` + r.table() + ` WHERE due_date >= $1 AND due_date <= $2`
	args := []any{start, end}
	if status != "" {
		query += ` AND status = $3`
		args = append(args, status)
	}
	query += ` ORDER BY due_date ASC, number ASC`

	return r.queryInstallments(query, args...)
}

// FindDueSoon returns open installments due within the next N days.
func (r *PQCreditInstallmentRepository) FindDueSoon(from time.Time, days int) ([]*models.CreditInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM ` + r.table() + `
		WHERE status IN ($1, $2) AND due_date >= $3 AND due_date <= $4
		ORDER BY due_date ASC, number ASC`

	return r.queryInstallments(query,
		models.InstallmentStatusPending, models.InstallmentStatusOverdue,
		from, from.AddDate(0, 0, days),
	)
}

// FindOverdue returns every installment currently flagged overdue.
func (r *PQCreditInstallmentRepository) FindOverdue() ([]*models.CreditInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM ` + r.table() + `
		WHERE status = $1 ORDER BY due_date ASC, number ASC`

	return r.queryInstallments(query, models.InstallmentStatusOverdue)
}

// MarkPaid is the authoritative guard against double payment: the update
// only lands while the row is still pending or overdue.
func (r *PQCreditInstallmentRepository) MarkPaid(inst *models.CreditInstallment) (bool, error) {
	query := `UPDATE ` + r.table() + ` SET
		status = $2, payment_date = $3, entry_id = $4, paid_by_id = $5,
		paid_by_name = $6, interest = $7, penalty = $8, note = $9, updated_at = $10
		WHERE id = $1 AND status IN ($11, $12)`

	result, err := r.store.DB().Exec(query,
		inst.ID, models.InstallmentStatusPaid, nullTime(inst.PaymentDate),
		nullString(inst.EntryID), nullString(inst.PaidByID), nullString(inst.PaidByName),
		inst.Interest, inst.Penalty, inst.Note, inst.UpdatedAt,
		models.InstallmentStatusPending, models.InstallmentStatusOverdue,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UndoPayment reverses MarkPaid, guarded on the row still being paid.
func (r *PQCreditInstallmentRepository) UndoPayment(inst *models.CreditInstallment) (bool, error) {
	query := `UPDATE ` + r.table() + ` SET
		status = $2, payment_date = NULL, entry_id = NULL, paid_by_id = NULL,
		paid_by_name = NULL, updated_at = $3
		WHERE id = $1 AND status = $4`

	result, err := r.store.DB().Exec(query,
		inst.ID, inst.Status, inst.UpdatedAt, models.InstallmentStatusPaid,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CancelByPurchase voids every open installment of a purchase; paid rows
// are preserved as history.
func (r *PQCreditInstallmentRepository) CancelByPurchase(purchaseID string) (int64, error) {
	query := `UPDATE ` + r.table() + ` SET status = $2, updated_at = $3
		WHERE purchase_id = $1 AND status IN ($4, $5)`

	result, err := r.store.DB().Exec(query,
		purchaseID, models.InstallmentStatusCanceled, time.Now().UTC(),
		models.InstallmentStatusPending, models.InstallmentStatusOverdue,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PQCreditInstallmentRepository) DeleteByPurchase(purchaseID string) (int64, error) {
	result, err := r.store.DB().Exec(`DELETE FROM `+r.table()+` WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PQCreditInstallmentRepository) MarkOverdue(today time.Time) (int64, error) {
	query := `UPDATE ` + r.table() + ` SET status = $1, updated_at = $2
		WHERE status = $3 AND due_date < $4`

	result, err := r.store.DB().Exec(query,
		models.InstallmentStatusOverdue, time.Now().UTC(),
		models.InstallmentStatusPending, today,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Totals aggregates every row in the window; canceled installments
// count toward Count and TotalValue.
func (r *PQCreditInstallmentRepository) Totals(start, end *time.Time) (*InstallmentTotals, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'paid'),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'overdue'),
		COALESCE(SUM(value + interest + penalty), 0),
		COALESCE(SUM(value + interest + penalty) FILTER (WHERE status = 'paid'), 0),
		COALESCE(SUM(value + interest + penalty) FILTER (WHERE status = 'pending'), 0),
		COALESCE(SUM(value + interest + penalty) FILTER (WHERE status = 'overdue'), 0)
		FROM ` + r.table()

	var args []any
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" WHERE due_date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		if start != nil {
			query += fmt.Sprintf(" AND due_date <= $%d", len(args))
		} else {
			query += fmt.Sprintf(" WHERE due_date <= $%d", len(args))
		}
	}

	var totals InstallmentTotals
	err := r.store.DB().QueryRow(query, args...).Scan(
		&totals.Count, &totals.PaidCount, &totals.PendingCount, &totals.OverdueCount,
		&totals.TotalValue, &totals.PaidValue, &totals.PendingValue, &totals.OverdueValue,
	)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *PQCreditInstallmentRepository) queryInstallments(query string, args ...any) ([]*models.CreditInstallment, error) {
	rows, err := r.store.DB().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*models.CreditInstallment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func scanInstallment(row rowScanner) (*models.CreditInstallment, error) {
	var (
		inst        models.CreditInstallment
		paymentDate sql.NullTime
		entryID     sql.NullString
		paidByID    sql.NullString
		paidByName  sql.NullString
	)
	err := row.Scan(
		&inst.ID, &inst.PurchaseID, &inst.Number, &inst.Value, &inst.Interest,
		&inst.Penalty, &inst.DueDate, &inst.Status, &paymentDate, &entryID,
		&paidByID, &paidByName, &inst.Note, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentDate.Valid {
		t := paymentDate.Time
		inst.PaymentDate = &t
	}
	inst.EntryID = entryID.String
	inst.PaidByID = paidByID.String
	inst.PaidByName = paidByName.String
	return &inst, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
