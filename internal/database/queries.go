// Package database provides persistence for the risk data generator.
//
// FILE: queries.go
// PURPOSE: The unit-of-work surface shared by the SQL store and the
// in-memory store, plus the SQL implementation's transaction wrapper.
//
// KEY TYPES:
// - Tx: operations available inside one all-or-nothing unit of work
// - UniqueField: borrower columns that must be globally unique
// - Store: SQL-backed store (PostgreSQL or MariaDB/MySQL)
//
// RELATED FILES:
// - queries_tenant.go: tenant existence
// - queries_borrower.go: borrower inserts, uniqueness checks, listing
// - queries_loan.go: loan inserts
// - queries_transaction.go: batched transaction inserts
// - schema.go: the schema guard
// - memory.go: in-memory Store for tests and dry runs
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/willfong/riskgen/internal/models"
)

// ErrUnknownField is returned for uniqueness checks on unlisted columns
var ErrUnknownField = errors.New("unknown unique field")

// UniqueField names a borrower column with a global uniqueness constraint
type UniqueField string

const (
	FieldEmail  UniqueField = "email"
	FieldAadhar UniqueField = "aadhar_number"
	FieldPAN    UniqueField = "pan_number"
)

// Valid reports whether the field is one of the unique borrower columns.
// Column names are interpolated into SQL, so only these are accepted.
func (f UniqueField) Valid() bool {
	switch f {
	case FieldEmail, FieldAadhar, FieldPAN:
		return true
	}
	return false
}

// Tx is the set of operations available inside one unit of work. Reads see
// the unit's own uncommitted writes.
type Tx interface {
	// TenantExists reports whether a lender with the id exists
	TenantExists(ctx context.Context, tenantID string) (bool, error)

	// BorrowerFieldExists reports whether any borrower already holds value in field
	BorrowerFieldExists(ctx context.Context, field UniqueField, value string) (bool, error)

	InsertBorrower(ctx context.Context, b *models.Borrower) error
	InsertLoan(ctx context.Context, l *models.Loan) error

	// InsertTransactions writes a borrower's ledger using multi-row inserts
	InsertTransactions(ctx context.Context, txns []models.Transaction) error
}

// Store is the SQL-backed store
type Store struct {
	pool      *Pool
	batchSize int
	retry     RetryConfig
}

// NewStore creates a Store over the pool. batchSize bounds rows per
// multi-row INSERT; values < 1 insert one row per statement.
func NewStore(pool *Pool, batchSize int) *Store {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Store{pool: pool, batchSize: batchSize, retry: DefaultRetryConfig()}
}

// WithRetry replaces the serialization failure retry policy
func (s *Store) WithRetry(cfg RetryConfig) *Store {
	s.retry = cfg
	return s
}

// Pool returns the underlying pool
func (s *Store) Pool() *Pool {
	return s.pool
}

// RunInTx runs fn inside a serializable transaction. The transaction
// commits only if fn returns nil; any error, panic or context cancellation
// rolls everything back. When the server aborts the transaction with a
// serialization failure or deadlock, fn is rerun in a new transaction, so
// fn must not keep state between calls.
func (s *Store) RunInTx(ctx context.Context, fn func(Tx) error) error {
	return s.retry.retry(ctx, func() error {
		return s.runOnce(ctx, fn)
	})
}

func (s *Store) runOnce(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, dialect: s.pool.Dialect(), batchSize: s.batchSize}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("unit of work cancelled: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sqlTx implements Tx on top of *sql.Tx
type sqlTx struct {
	tx        *sql.Tx
	dialect   Dialect
	batchSize int
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
}

func (t *sqlTx) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
}

// exists runs a SELECT 1 ... LIMIT 1 style query and reports whether a row came back
func (t *sqlTx) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var one int
	err := t.queryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
