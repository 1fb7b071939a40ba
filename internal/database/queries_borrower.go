// Package database provides persistence for the risk data generator.
//
// FILE: queries_borrower.go
// PURPOSE: Borrower inserts, live uniqueness checks and the portfolio read
// back used by the borrower listing endpoint.
//
// KEY FUNCTIONS:
// - BorrowerFieldExists: uniqueness check run inside the unit of work
// - InsertBorrower: single borrower insert
// - ListBorrowers: borrowers of a tenant with their loans and transactions
package database

import (
	"context"
	"fmt"

	"github.com/willfong/riskgen/internal/models"
)

// BorrowerFieldExists reports whether any borrower already holds value in field.
// The check runs on the unit of work's own connection so it sees rows
// inserted earlier in the same run.
func (t *sqlTx) BorrowerFieldExists(ctx context.Context, field UniqueField, value string) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}

	found, err := t.exists(ctx, `SELECT 1 FROM borrowers WHERE `+string(field)+` = ? LIMIT 1`, value)
	if err != nil {
		return false, fmt.Errorf("failed to check borrower %s: %w", field, err)
	}
	return found, nil
}

// InsertBorrower writes one borrower with its risk characteristics
func (t *sqlTx) InsertBorrower(ctx context.Context, b *models.Borrower) error {
	_, err := t.exec(ctx, `
		INSERT INTO borrowers (
			id, lender_id, first_name, last_name, email, phone_number, aadhar_number,
			pan_number, date_of_birth, address, credit_score, income, employment_status,
			debt_to_income, payment_pattern, late_payments, existing_loans, risk_profile,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TenantID, b.FirstName, b.LastName, b.Email, b.PhoneNumber, b.Aadhar,
		b.PAN, b.DateOfBirth, b.Address, b.CreditScore, b.Income, string(b.EmploymentStatus),
		b.DebtToIncome, string(b.PaymentPattern), b.LatePayments, b.ExistingLoans, string(b.RiskTier),
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert borrower %s: %w", b.ID, err)
	}
	return nil
}

// ListBorrowers returns every borrower of a tenant with its loans and
// transaction history. Borrowers come back in creation order.
func (s *Store) ListBorrowers(ctx context.Context, tenantID string) ([]models.BorrowerPortfolio, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT id, lender_id, first_name, last_name, email, phone_number, aadhar_number,
			pan_number, date_of_birth, address, credit_score, income, employment_status,
			debt_to_income, payment_pattern, late_payments, existing_loans, risk_profile,
			created_at
		FROM borrowers
		WHERE lender_id = ?
		ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query borrowers: %w", err)
	}
	defer rows.Close()

	var portfolios []models.BorrowerPortfolio
	for rows.Next() {
		b, err := scanBorrower(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, models.BorrowerPortfolio{Borrower: *b})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(portfolios) == 0 {
		return portfolios, nil
	}

	loans, err := s.loansByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	txns, err := s.transactionsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	for i := range portfolios {
		id := portfolios[i].ID
		portfolios[i].Loans = loans[id]
		portfolios[i].Transactions = txns[id]
	}
	return portfolios, nil
}
