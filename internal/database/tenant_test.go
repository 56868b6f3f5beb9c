package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreName(t *testing.T) {
	t.Run("derived from the tenant id alone", func(t *testing.T) {
		name := StoreName("acme-ltda")

		assert.Regexp(t, `^cmp_[0-9a-f]{8}$`, name)
		assert.Equal(t, name, StoreName("acme-ltda"), "same tenant, same store")
	})

	t.Run("distinct tenants get distinct stores", func(t *testing.T) {
		assert.NotEqual(t, StoreName("acme"), StoreName("globex"))
	})
}

func TestTenantStoreRouter_Resolve(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	router := NewTenantStoreRouter(db)

	t.Run("memoizes the handle per tenant", func(t *testing.T) {
		first, err := router.Resolve("acme")
		require.NoError(t, err)

		second, err := router.Resolve("acme")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, StoreName("acme"), first.Schema())
	})

	t.Run("does not touch the database", func(t *testing.T) {
		_, err := router.Resolve("globex")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty tenant id is rejected", func(t *testing.T) {
		_, err := router.Resolve("")
		assert.Error(t, err)
	})
}

func TestTenantStoreRouter_Provision(t *testing.T) {
	t.Run("runs the schema DDL once per tenant", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		router := NewTenantStoreRouter(db)

		mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS .*credit_purchases`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS credit_purchases_status_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS credit_purchases_payer_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS .*credit_installments`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS credit_installments_due_date_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS credit_installments_status_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS credit_installments_purchase_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS .*financial_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS financial_entries_date_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS financial_entries_modality_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS .*payment_modalities`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS payment_modalities_name_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS payment_modalities_active_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`COMMENT ON SCHEMA`).WillReturnResult(sqlmock.NewResult(0, 0))

		store, err := router.Provision("acme", "Acme Ltda")
		require.NoError(t, err)
		assert.Equal(t, StoreName("acme"), store.Schema())
		assert.NoError(t, mock.ExpectationsWereMet())

		// second call hits the memo, no further DDL
		again, err := router.Provision("acme", "Acme Ltda")
		require.NoError(t, err)
		assert.Same(t, store, again)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank display name skips the schema comment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		router := NewTenantStoreRouter(db)

		for range [14]struct{}{} {
			mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		_, err = router.Provision("globex", "")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTenantStoreRouter_Drop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	router := NewTenantStoreRouter(db)

	mock.ExpectExec(`DROP SCHEMA IF EXISTS .* CASCADE`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, router.Drop("acme"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_Table(t *testing.T) {
	store := &TenantStore{db: nil, schema: "cmp_0a1b2c3d"}

	assert.Equal(t, `"cmp_0a1b2c3d"."credit_purchases"`, store.Table("credit_purchases"))
}
