package repository

import (
	"database/sql"

	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/models"
)

const modalityColumns = `id, name, color, is_active, created_at, updated_at`

// PQPaymentModalityRepository implements PaymentModalityLookup. Modality
// management lives in its own subsystem; the credit core only reads.
type PQPaymentModalityRepository struct {
	store *database.TenantStore
}

func NewPQPaymentModalityRepository(store *database.TenantStore) *PQPaymentModalityRepository {
	return &PQPaymentModalityRepository{store: store}
}

func (r *PQPaymentModalityRepository) table() string {
	return r.store.Table("payment_modalities")
}

func (r *PQPaymentModalityRepository) FindByID(id string) (*models.PaymentModality, error) {
	query := `SELECT ` + modalityColumns + ` FROM ` + r.table() + ` WHERE id = $1`

	var m models.PaymentModality
	err := r.store.DB().QueryRow(query, id).Scan(
		&m.ID, &m.Name, &m.Color, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PQPaymentModalityRepository) FindAll(activeOnly bool) ([]*models.PaymentModality, error) {
	query := `SELECT ` + modalityColumns + ` FROM ` + r.table()
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.store.DB().Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modalities []*models.PaymentModality
	for rows.Next() {
		var m models.PaymentModality
		if err := rows.Scan(&m.ID, &m.Name, &m.Color, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		modalities = append(modalities, &m)
	}
	return modalities, rows.Err()
}
