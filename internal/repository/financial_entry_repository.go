package repository

import (
	"time"

	"github.com/crediflow/backend/internal/database"
	"github.com/crediflow/backend/internal/models"
)

const entryColumns = `id, value, date, type, modality_id, modality_name, modality_color, description, created_at`

// PQFinancialEntryRepository implements LedgerEntryGateway against the
// tenant's financial_entries collection. The table itself belongs to the
// generic ledger subsystem; the credit core only adds and removes rows.
type PQFinancialEntryRepository struct {
	store *database.TenantStore
}

func NewPQFinancialEntryRepository(store *database.TenantStore) *PQFinancialEntryRepository {
	return &PQFinancialEntryRepository{store: store}
}

func (r *PQFinancialEntryRepository) table() string {
	return r.store.Table("financial_entries")
}

func (r *PQFinancialEntryRepository) Create(entry *models.FinancialEntry) error {
	query := `INSERT INTO ` + r.table() + ` (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.store.DB().Exec(query,
		entry.ID, entry.Value, entry.Date, entry.Type, entry.ModalityID,
		entry.ModalityName, entry.ModalityColor, entry.Description, entry.CreatedAt,
	)
	return err
}

func (r *PQFinancialEntryRepository) Delete(id string) (bool, error) {
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

func (r *PQFinancialEntryRepository) FindByDateRange(start, end time.Time) ([]*models.FinancialEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ` + r.table() + `
		WHERE date >= $1 AND date <= $2 ORDER BY date ASC`

	rows, err := r.store.DB().Query(query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.FinancialEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(row rowScanner) (*models.FinancialEntry, error) {
	var entry models.FinancialEntry
	err := row.Scan(
		&entry.ID, &entry.Value, &entry.Date, &entry.Type, &entry.ModalityID,
		&entry.ModalityName, &entry.ModalityColor, &entry.Description, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
