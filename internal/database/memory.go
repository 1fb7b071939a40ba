// Package database provides persistence for the risk data generator.
//
// FILE: memory.go
// PURPOSE: An in-memory store with the same unit-of-work semantics as the
// SQL store. Units of work run one at a time and stage their writes; the
// staged rows become visible only when the unit commits. Used by tests and
// by `riskgen generate --dry-run`.
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/willfong/riskgen/internal/models"
)

// ErrConstraint is returned when a write would violate a key or uniqueness constraint
var ErrConstraint = errors.New("constraint violation")

// MemoryStore keeps tenants, borrowers, loans and transactions in memory
type MemoryStore struct {
	mu sync.Mutex

	tenants      map[string]models.Tenant
	borrowers    []models.Borrower
	loans        []models.Loan
	transactions []models.Transaction

	schemaChecks int
}

// NewMemoryStore creates an empty store seeded with the given tenants
func NewMemoryStore(tenants ...models.Tenant) *MemoryStore {
	m := &MemoryStore{tenants: make(map[string]models.Tenant)}
	for _, t := range tenants {
		m.tenants[t.ID] = t
	}
	return m
}

// AddTenant registers a tenant
func (m *MemoryStore) AddTenant(t models.Tenant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[t.ID] = t
}

// AddBorrower inserts a committed borrower directly, bypassing any unit of
// work. Useful for seeding collisions.
func (m *MemoryStore) AddBorrower(b models.Borrower) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.borrowers = append(m.borrowers, b)
}

// EnsureSchema is a no-op; the in-memory layout is fixed
func (m *MemoryStore) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemaChecks++
	return ctx.Err()
}

// SchemaChecks returns how many times EnsureSchema ran
func (m *MemoryStore) SchemaChecks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schemaChecks
}

// RunInTx runs fn with exclusive access to the store. Writes are staged
// and applied only if fn succeeds and ctx is still live.
func (m *MemoryStore) RunInTx(ctx context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &memTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("unit of work cancelled: %w", err)
	}

	m.borrowers = append(m.borrowers, tx.borrowers...)
	m.loans = append(m.loans, tx.loans...)
	m.transactions = append(m.transactions, tx.transactions...)
	return nil
}

// ListBorrowers returns every borrower of a tenant with loans and transactions
func (m *MemoryStore) ListBorrowers(ctx context.Context, tenantID string) ([]models.BorrowerPortfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var portfolios []models.BorrowerPortfolio
	index := make(map[string]int)
	for _, b := range m.borrowers {
		if b.TenantID != tenantID {
			continue
		}
		index[b.ID] = len(portfolios)
		portfolios = append(portfolios, models.BorrowerPortfolio{Borrower: b})
	}

	for _, l := range m.loans {
		if i, ok := index[l.BorrowerID]; ok {
			portfolios[i].Loans = append(portfolios[i].Loans, l)
		}
	}
	for _, t := range m.transactions {
		if i, ok := index[t.BorrowerID]; ok {
			portfolios[i].Transactions = append(portfolios[i].Transactions, t)
		}
	}
	for i := range portfolios {
		txns := portfolios[i].Transactions
		sort.SliceStable(txns, func(a, b int) bool {
			if !txns[a].Date.Equal(txns[b].Date) {
				return txns[a].Date.Before(txns[b].Date)
			}
			return txns[a].Sequence < txns[b].Sequence
		})
	}

	return portfolios, nil
}

// Counts returns the committed borrower, loan and transaction counts for a tenant
func (m *MemoryStore) Counts(tenantID string) (borrowers, loans, transactions int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make(map[string]bool)
	for _, b := range m.borrowers {
		if b.TenantID == tenantID {
			ids[b.ID] = true
			borrowers++
		}
	}
	for _, l := range m.loans {
		if l.TenantID == tenantID {
			loans++
		}
	}
	for _, t := range m.transactions {
		if ids[t.BorrowerID] {
			transactions++
		}
	}
	return borrowers, loans, transactions
}

var (
	_ Tx = (*memTx)(nil)
	_ Tx = (*sqlTx)(nil)
)

// memTx stages writes for one unit of work. The store mutex is held by
// RunInTx for the lifetime of the memTx.
type memTx struct {
	store *MemoryStore

	borrowers    []models.Borrower
	loans        []models.Loan
	transactions []models.Transaction
}

func (t *memTx) TenantExists(ctx context.Context, tenantID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := t.store.tenants[tenantID]
	return ok, nil
}

func (t *memTx) BorrowerFieldExists(ctx context.Context, field UniqueField, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !field.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	for _, set := range [][]models.Borrower{t.store.borrowers, t.borrowers} {
		for i := range set {
			if fieldValue(&set[i], field) == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *memTx) InsertBorrower(ctx context.Context, b *models.Borrower) error {
	for _, field := range []UniqueField{FieldEmail, FieldAadhar, FieldPAN} {
		taken, err := t.BorrowerFieldExists(ctx, field, fieldValue(b, field))
		if err != nil {
			return fmt.Errorf("failed to check borrower %s: %w", field, err)
		}
		if taken {
			return fmt.Errorf("%w: duplicate %s for borrower %s", ErrConstraint, field, b.ID)
		}
	}
	if _, ok := t.store.tenants[b.TenantID]; !ok {
		return fmt.Errorf("%w: borrower %s references unknown lender %s", ErrConstraint, b.ID, b.TenantID)
	}
	if t.borrowerExists(b.ID) {
		return fmt.Errorf("%w: duplicate borrower id %s", ErrConstraint, b.ID)
	}
	t.borrowers = append(t.borrowers, *b)
	return nil
}

func (t *memTx) InsertLoan(ctx context.Context, l *models.Loan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.borrowerExists(l.BorrowerID) {
		return fmt.Errorf("%w: loan %s references unknown borrower %s", ErrConstraint, l.ID, l.BorrowerID)
	}
	t.loans = append(t.loans, *l)
	return nil
}

func (t *memTx) InsertTransactions(ctx context.Context, txns []models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range txns {
		if !t.borrowerExists(txns[i].BorrowerID) {
			return fmt.Errorf("%w: transaction %s references unknown borrower %s", ErrConstraint, txns[i].ID, txns[i].BorrowerID)
		}
	}
	t.transactions = append(t.transactions, txns...)
	return nil
}

func (t *memTx) borrowerExists(id string) bool {
	for _, set := range [][]models.Borrower{t.store.borrowers, t.borrowers} {
		for i := range set {
			if set[i].ID == id {
				return true
			}
		}
	}
	return false
}

func fieldValue(b *models.Borrower, field UniqueField) string {
	switch field {
	case FieldEmail:
		return b.Email
	case FieldAadhar:
		return b.Aadhar
	case FieldPAN:
		return b.PAN
	}
	return ""
}
