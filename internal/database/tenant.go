package database

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/lib/pq"
)

// TenantStore is the handle to one tenant's isolated slice of the
// database: a dedicated schema on the shared pool. Handles are safe for
// concurrent reuse across requests for the same tenant.
type TenantStore struct {
	db     *sql.DB
	schema string
}

func (s *TenantStore) DB() *sql.DB {
	return s.db
}

func (s *TenantStore) Schema() string {
	return s.schema
}

// Table returns the schema-qualified, quoted table name.
func (s *TenantStore) Table(name string) string {
	return pq.QuoteIdentifier(s.schema) + "." + pq.QuoteIdentifier(name)
}

// TenantStoreRouter resolves tenant ids to their isolated stores. Handles
// are memoized per tenant for the process lifetime and never shared
// across tenants. The router is constructed explicitly and injected;
// there is no package-level instance.
type TenantStoreRouter struct {
	db *sql.DB

	mu          sync.Mutex
	stores      map[string]*TenantStore
	provisioned map[string]bool
}

func NewTenantStoreRouter(db *sql.DB) *TenantStoreRouter {
	return &TenantStoreRouter{
		db:          db,
		stores:      make(map[string]*TenantStore),
		provisioned: make(map[string]bool),
	}
}

// StoreName derives the physical schema name for a tenant. The name
// depends only on the tenant id so it stays stable no matter what
// display name accompanies later calls.
func StoreName(tenantID string) string {
	sum := md5.Sum([]byte(tenantID))
	return "cmp_" + hex.EncodeToString(sum[:])[:8]
}

// Resolve returns the tenant's store handle, creating and caching it on
// first use. It does not touch the database.
func (r *TenantStoreRouter) Resolve(tenantID string) (*TenantStore, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[tenantID]; ok {
		return store, nil
	}

	store := &TenantStore{db: r.db, schema: StoreName(tenantID)}
	r.stores[tenantID] = store
	return store, nil
}

// Provision resolves the tenant's store and guarantees its schema,
// tables and indexes exist. Safe to call repeatedly; the statements are
// idempotent and the result is memoized per process.
func (r *TenantStoreRouter) Provision(tenantID, displayName string) (*TenantStore, error) {
	store, err := r.Resolve(tenantID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	done := r.provisioned[tenantID]
	r.mu.Unlock()
	if done {
		return store, nil
	}

	if err := r.createSchema(store, displayName); err != nil {
		return nil, fmt.Errorf("provisioning tenant store %s: %w", store.schema, err)
	}

	r.mu.Lock()
	r.provisioned[tenantID] = true
	r.mu.Unlock()

	log.Printf("[TENANT] Provisioned store %s", store.schema)
	return store, nil
}

// Drop removes a tenant's schema and everything in it. Irreversible.
func (r *TenantStoreRouter) Drop(tenantID string) error {
	store, err := r.Resolve(tenantID)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec("DROP SCHEMA IF EXISTS " + pq.QuoteIdentifier(store.schema) + " CASCADE"); err != nil {
		return fmt.Errorf("dropping tenant store %s: %w", store.schema, err)
	}

	r.mu.Lock()
	delete(r.stores, tenantID)
	delete(r.provisioned, tenantID)
	r.mu.Unlock()

	log.Printf("[TENANT] Dropped store %s", store.schema)
	return nil
}

func (r *TenantStoreRouter) createSchema(store *TenantStore, displayName string) error {
	stmts := []string{
		"CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(store.schema),
		`CREATE TABLE IF NOT EXISTS ` + store.Table("credit_purchases") + ` (
			id TEXT PRIMARY KEY,
			payer_name TEXT NOT NULL,
			payer_document TEXT NOT NULL DEFAULT '',
			payer_phone TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			total_value NUMERIC(14,2) NOT NULL,
			down_payment NUMERIC(14,2) NOT NULL DEFAULT 0,
			installments INTEGER NOT NULL,
			first_due_date DATE NOT NULL,
			interval_days INTEGER NOT NULL,
			monthly_rate NUMERIC(8,4) NOT NULL DEFAULT 0,
			created_by_id TEXT NOT NULL,
			created_by_name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS credit_purchases_status_idx ON ` + store.Table("credit_purchases") + ` (status)`,
		`CREATE INDEX IF NOT EXISTS credit_purchases_payer_idx ON ` + store.Table("credit_purchases") + ` (payer_name)`,
		`CREATE TABLE IF NOT EXISTS ` + store.Table("credit_installments") + ` (
			id TEXT PRIMARY KEY,
			purchase_id TEXT NOT NULL,
			number INTEGER NOT NULL,
			value NUMERIC(14,2) NOT NULL,
			interest NUMERIC(14,2) NOT NULL DEFAULT 0,
			penalty NUMERIC(14,2) NOT NULL DEFAULT 0,
			due_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_date DATE,
			entry_id TEXT,
			paid_by_id TEXT,
			paid_by_name TEXT,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (purchase_id, number)
		)`,
		`CREATE INDEX IF NOT EXISTS credit_installments_due_date_idx ON ` + store.Table("credit_installments") + ` (due_date)`,
		`CREATE INDEX IF NOT EXISTS credit_installments_status_idx ON ` + store.Table("credit_installments") + ` (status)`,
		`CREATE INDEX IF NOT EXISTS credit_installments_purchase_idx ON ` + store.Table("credit_installments") + ` (purchase_id)`,
		`CREATE TABLE IF NOT EXISTS ` + store.Table("financial_entries") + ` (
			id TEXT PRIMARY KEY,
			value NUMERIC(14,2) NOT NULL,
			date DATE NOT NULL,
			type TEXT NOT NULL DEFAULT 'receivable',
			modality_id TEXT NOT NULL,
			modality_name TEXT NOT NULL,
			modality_color TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS financial_entries_date_idx ON ` + store.Table("financial_entries") + ` (date)`,
		`CREATE INDEX IF NOT EXISTS financial_entries_modality_idx ON ` + store.Table("financial_entries") + ` (modality_id)`,
		`CREATE TABLE IF NOT EXISTS ` + store.Table("payment_modalities") + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS payment_modalities_name_idx ON ` + store.Table("payment_modalities") + ` (lower(name))`,
		`CREATE INDEX IF NOT EXISTS payment_modalities_active_idx ON ` + store.Table("payment_modalities") + ` (is_active)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}

	if name := strings.TrimSpace(displayName); name != "" {
		comment := fmt.Sprintf("COMMENT ON SCHEMA %s IS %s",
			pq.QuoteIdentifier(store.schema), pq.QuoteLiteral(name))
		if _, err := r.db.Exec(comment); err != nil {
			return err
		}
	}

	return nil
}
