// Package database provides persistence for the risk data generator.
//
// FILE: queries_loan.go
// PURPOSE: Loan inserts and per-tenant loan reads.
package database

import (
	"context"
	"fmt"

	"github.com/willfong/riskgen/internal/models"
)

// InsertLoan writes one loan
func (t *sqlTx) InsertLoan(ctx context.Context, l *models.Loan) error {
	_, err := t.exec(ctx, `
		INSERT INTO loans (
			id, borrower_id, lender_id, loan_amount, interest_rate, tenure_months,
			emi_amount, loan_status, disbursement_date, risk_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.BorrowerID, l.TenantID, l.Principal, l.InterestRate, l.TenureMonths,
		l.EMI, string(l.Status), l.DisbursementDate, l.RiskScore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan %s: %w", l.ID, err)
	}
	return nil
}

// loansByTenant returns every loan of a tenant keyed by borrower id
func (s *Store) loansByTenant(ctx context.Context, tenantID string) (map[string][]models.Loan, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT id, borrower_id, lender_id, loan_amount, interest_rate, tenure_months,
			emi_amount, loan_status, disbursement_date, risk_score
		FROM loans
		WHERE lender_id = ?
		ORDER BY disbursement_date`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	loans := make(map[string][]models.Loan)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans[l.BorrowerID] = append(loans[l.BorrowerID], *l)
	}
	return loans, rows.Err()
}
