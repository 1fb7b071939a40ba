package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/riskgen/internal/models"
)

func memBorrower(id, tenant string) *models.Borrower {
	return &models.Borrower{
		ID:       id,
		TenantID: tenant,
		Email:    id + "@example.in",
		Aadhar:   "2000000000" + id[len(id)-2:],
		PAN:      "ABCDE12" + id[len(id)-2:] + "Z",
	}
}

func TestMemoryStore_CommitMakesWritesVisible(t *testing.T) {
	store := NewMemoryStore(models.Tenant{ID: "tenant-123", Name: "Acme Finance"})
	ctx := context.Background()

	err := store.RunInTx(ctx, func(tx Tx) error {
		ok, err := tx.TenantExists(ctx, "tenant-123")
		require.NoError(t, err)
		assert.True(t, ok)

		b := memBorrower("b-01", "tenant-123")
		require.NoError(t, tx.InsertBorrower(ctx, b))

		// Staged rows are visible inside the same unit of work
		taken, err := tx.BorrowerFieldExists(ctx, FieldEmail, b.Email)
		require.NoError(t, err)
		assert.True(t, taken)

		require.NoError(t, tx.InsertLoan(ctx, &models.Loan{ID: "l-1", BorrowerID: "b-01", TenantID: "tenant-123"}))
		return tx.InsertTransactions(ctx, []models.Transaction{
			{ID: "t-2", BorrowerID: "b-01", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Sequence: 1},
			{ID: "t-1", BorrowerID: "b-01", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Sequence: 0},
		})
	})
	require.NoError(t, err)

	borrowers, loans, txns := store.Counts("tenant-123")
	assert.Equal(t, 1, borrowers)
	assert.Equal(t, 1, loans)
	assert.Equal(t, 2, txns)

	portfolios, err := store.ListBorrowers(ctx, "tenant-123")
	require.NoError(t, err)
	require.Len(t, portfolios, 1)
	assert.Equal(t, "t-1", portfolios[0].Transactions[0].ID)
}

func TestMemoryStore_ErrorDiscardsWrites(t *testing.T) {
	store := NewMemoryStore(models.Tenant{ID: "tenant-123"})
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(tx Tx) error {
		for _, id := range []string{"b-01", "b-02", "b-03"} {
			require.NoError(t, tx.InsertBorrower(ctx, memBorrower(id, "tenant-123")))
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	borrowers, _, _ := store.Counts("tenant-123")
	assert.Zero(t, borrowers)
}

func TestMemoryStore_CancelledContextDiscardsWrites(t *testing.T) {
	store := NewMemoryStore(models.Tenant{ID: "tenant-123"})
	ctx, cancel := context.WithCancel(context.Background())

	err := store.RunInTx(ctx, func(tx Tx) error {
		require.NoError(t, tx.InsertBorrower(ctx, memBorrower("b-01", "tenant-123")))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	borrowers, _, _ := store.Counts("tenant-123")
	assert.Zero(t, borrowers)
}

func TestMemoryStore_InsertBorrowerReportsCheckFailure(t *testing.T) {
	store := NewMemoryStore(models.Tenant{ID: "tenant-123"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RunInTx(context.Background(), func(tx Tx) error {
		return tx.InsertBorrower(ctx, memBorrower("b-01", "tenant-123"))
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "failed to check borrower email")
	assert.NotErrorIs(t, err, ErrConstraint)

	borrowers, _, _ := store.Counts("tenant-123")
	assert.Zero(t, borrowers)
}

func TestMemoryStore_Constraints(t *testing.T) {
	store := NewMemoryStore(models.Tenant{ID: "tenant-123"})
	store.AddBorrower(*memBorrower("b-01", "tenant-123"))
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(tx Tx) error
	}{
		{"unknown tenant", func(tx Tx) error { return tx.InsertBorrower(ctx, memBorrower("b-02", "tenant-999")) }},
		{"duplicate email", func(tx Tx) error {
			b := memBorrower("b-02", "tenant-123")
			b.Email = "b-01@example.in"
			return tx.InsertBorrower(ctx, b)
		}},
		{"orphan loan", func(tx Tx) error { return tx.InsertLoan(ctx, &models.Loan{ID: "l-1", BorrowerID: "nobody"}) }},
		{"orphan transaction", func(tx Tx) error {
			return tx.InsertTransactions(ctx, []models.Transaction{{ID: "t-1", BorrowerID: "nobody"}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.RunInTx(ctx, tt.fn)
			assert.ErrorIs(t, err, ErrConstraint)
		})
	}
}

func TestMemoryStore_ListBorrowersIsTenantScoped(t *testing.T) {
	store := NewMemoryStore(models.Tenant{ID: "a"}, models.Tenant{ID: "b"})
	store.AddBorrower(*memBorrower("b-01", "a"))
	store.AddBorrower(*memBorrower("b-02", "b"))

	portfolios, err := store.ListBorrowers(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, portfolios, 1)
	assert.Equal(t, "b-01", portfolios[0].ID)
}

func TestMemoryStore_EnsureSchema(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.Equal(t, 2, store.SchemaChecks())
}
