package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/models"
)

const purchaseColumns = `id, payer_name, payer_document, payer_phone, description,
	total_value, down_payment, installments, first_due_date, interval_days,
	monthly_rate, created_by_id, created_by_name, status, created_at, updated_at`

// PQCreditPurchaseRepository is the Postgres implementation of
// CreditPurchaseRepository against one tenant store.
type PQCreditPurchaseRepository struct {
	store *database.TenantStore
}

func NewPQCreditPurchaseRepository(store *database.TenantStore) *PQCreditPurchaseRepository {
	return &PQCreditPurchaseRepository{store: store}
}

func (r *PQCreditPurchaseRepository) table() string {
	return r.store.Table("credit_purchases")
}

func (r *PQCreditPurchaseRepository) Create(purchase *models.CreditPurchase) error {
	if err := purchase.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO ` + r.table() + ` (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.store.DB().Exec(query,
		purchase.ID, purchase.PayerName, purchase.PayerDocument, purchase.PayerPhone,
		purchase.Description, purchase.TotalValue, purchase.DownPayment,
		purchase.Installments, purchase.FirstDueDate, purchase.IntervalDays,
		purchase.MonthlyRate, purchase.CreatedByID, purchase.CreatedByName,
		purchase.Status, purchase.CreatedAt, purchase.UpdatedAt,
	)
	return err
}

func (r *PQCreditPurchaseRepository) FindByID(id string) (*models.CreditPurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM ` + r.table() + ` WHERE id = $1`
	purchase, err := scanPurchase(r.store.DB().QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return purchase, err
}

func (r *PQCreditPurchaseRepository) FindAll(filter PurchaseFilter) ([]*models.CreditPurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM ` + r.table()
	where, args := purchaseWhere(filter)
	query += where + ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := r.store.DB().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*models.CreditPurchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

func (r *PQCreditPurchaseRepository) Count(filter PurchaseFilter) (int, error) {
	query := `SELECT COUNT(*) FROM ` + r.table()
	where, args := purchaseWhere(filter)

	var count int
	err := r.store.DB().QueryRow(query+where, args...).Scan(&count)
	return count, err
}

func (r *PQCreditPurchaseRepository) Update(purchase *models.CreditPurchase) error {
	if err := purchase.Validate(); err != nil {
		return err
	}
	purchase.UpdatedAt = time.Now().UTC()

	query := `UPDATE ` + r.table() + ` SET
		payer_name = $2, payer_document = $3, payer_phone = $4, description = $5,
		status = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.store.DB().Exec(query,
		purchase.ID, purchase.PayerName, purchase.PayerDocument, purchase.PayerPhone,
		purchase.Description, purchase.Status, purchase.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PQCreditPurchaseRepository) SetStatus(id string, from, to models.PurchaseStatus) (bool, error) {
	query := `UPDATE ` + r.table() + ` SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	result, err := r.store.DB().Exec(query, id, from, to, time.Now().UTC())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PQCreditPurchaseRepository) Delete(id string) (bool, error) {
	result, err := r.store.DB().Exec(`DELETE FROM `+r.table()+` WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func purchaseWhere(filter PurchaseFilter) (string, []any) {
	var (
		where string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if filter.Payer != "" {
		args = append(args, "%"+filter.Payer+"%")
		if where == "" {
			where = fmt.Sprintf(" WHERE payer_name ILIKE $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND payer_name ILIKE $%d", len(args))
		}
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner) (*models.CreditPurchase, error) {
	var purchase models.CreditPurchase
	err := row.Scan(
		&purchase.ID, &purchase.PayerName, &purchase.PayerDocument, &purchase.PayerPhone,
		&purchase.Description, &purchase.TotalValue, &purchase.DownPayment,
		&purchase.Installments, &purchase.FirstDueDate, &purchase.IntervalDays,
		&purchase.MonthlyRate, &purchase.CreatedByID, &purchase.CreatedByName,
		&purchase.Status, &purchase.CreatedAt, &purchase.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}
