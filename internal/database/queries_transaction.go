// Package database provides persistence for the risk data generator.
//
// FILE: queries_transaction.go
// PURPOSE: Batched inserts of simulated bank-statement entries and the
// per-tenant read back.
//
// KEY FUNCTIONS:
// - InsertTransactions: chunked multi-row INSERT inside the unit of work
// - transactionsByTenant: statement history grouped by borrower
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/willfong/riskgen/internal/models"
)

const transactionColumns = 10

// InsertTransactions writes the ledger in chunks of batchSize rows
func (t *sqlTx) InsertTransactions(ctx context.Context, txns []models.Transaction) error {
	for start := 0; start < len(txns); start += t.batchSize {
		end := start + t.batchSize
		if end > len(txns) {
			end = len(txns)
		}

		query, args := buildTransactionInsert(txns[start:end])
		if _, err := t.exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert transactions %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

// buildTransactionInsert renders one multi-row INSERT for the chunk
func buildTransactionInsert(chunk []models.Transaction) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO financial_transactions (
			id, borrower_id, account_number, transaction_date, transaction_type,
			amount, balance, category, description, seq_no
		) VALUES `)

	args := make([]interface{}, 0, len(chunk)*transactionColumns)
	for i, tx := range chunk {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			tx.ID, tx.BorrowerID, tx.AccountNumber, tx.Date, string(tx.Direction),
			tx.Amount, tx.Balance, string(tx.Category), tx.Description, tx.Sequence,
		)
	}
	return sb.String(), args
}

// transactionsByTenant returns the statement history of every borrower of a
// tenant, keyed by borrower id and ordered by date
func (s *Store) transactionsByTenant(ctx context.Context, tenantID string) (map[string][]models.Transaction, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT t.id, t.borrower_id, t.account_number, t.transaction_date, t.transaction_type,
			t.amount, t.balance, t.category, t.description, t.seq_no
		FROM financial_transactions t
		JOIN borrowers b ON b.id = t.borrower_id
		WHERE b.lender_id = ?
		ORDER BY t.borrower_id, t.transaction_date, t.seq_no`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := make(map[string][]models.Transaction)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns[tx.BorrowerID] = append(txns[tx.BorrowerID], *tx)
	}
	return txns, rows.Err()
}
