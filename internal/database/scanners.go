// Package database provides persistence for the risk data generator.
//
// FILE: scanners.go
// PURPOSE: Row scanning helper functions for converting database rows to
// model structs. Nullable columns are scanned through sql.Null* types since
// the schema guard adds risk columns to pre-existing borrower rows.
package database

import (
	"database/sql"
	"fmt"

	"github.com/willfong/riskgen/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBorrower(row rowScanner) (*models.Borrower, error) {
	b := &models.Borrower{}

	var (
		phone          sql.NullString
		aadhar         sql.NullString
		pan            sql.NullString
		dateOfBirth    sql.NullTime
		address        sql.NullString
		creditScore    sql.NullInt64
		income         sql.NullString
		employment     sql.NullString
		debtToIncome   sql.NullFloat64
		paymentPattern sql.NullString
		latePayments   sql.NullInt64
		existingLoans  sql.NullInt64
		riskProfile    sql.NullString
		createdAt      sql.NullTime
	)

	err := row.Scan(
		&b.ID, &b.TenantID, &b.FirstName, &b.LastName, &b.Email, &phone, &aadhar,
		&pan, &dateOfBirth, &address, &creditScore, &income, &employment,
		&debtToIncome, &paymentPattern, &latePayments, &existingLoans, &riskProfile,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan borrower: %w", err)
	}

	b.PhoneNumber = phone.String
	b.Aadhar = aadhar.String
	b.PAN = pan.String
	b.DateOfBirth = dateOfBirth.Time
	b.Address = address.String
	b.CreditScore = int(creditScore.Int64)
	if income.Valid {
		if err := b.Income.Scan(income.String); err != nil {
			return nil, err
		}
	}
	b.EmploymentStatus = models.EmploymentStatus(employment.String)
	b.DebtToIncome = debtToIncome.Float64
	b.PaymentPattern = models.PaymentPattern(paymentPattern.String)
	b.LatePayments = int(latePayments.Int64)
	b.ExistingLoans = int(existingLoans.Int64)
	// Borrowers created outside the generator have no tier; keep it empty
	b.RiskTier = models.RiskTier(riskProfile.String)
	b.CreatedAt = createdAt.Time

	return b, nil
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	l := &models.Loan{}

	var (
		status    string
		riskScore sql.NullInt64
		disbursed sql.NullTime
	)

	err := row.Scan(
		&l.ID, &l.BorrowerID, &l.TenantID, &l.Principal, &l.InterestRate, &l.TenureMonths,
		&l.EMI, &status, &disbursed, &riskScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan: %w", err)
	}

	l.Status = models.LoanStatus(status)
	l.DisbursementDate = disbursed.Time
	l.RiskScore = int(riskScore.Int64)
	return l, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	tx := &models.Transaction{}

	var (
		direction   string
		category    string
		description sql.NullString
		sequence    sql.NullInt64
	)

	err := row.Scan(
		&tx.ID, &tx.BorrowerID, &tx.AccountNumber, &tx.Date, &direction,
		&tx.Amount, &tx.Balance, &category, &description, &sequence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.Direction = models.Direction(direction)
	tx.Category = models.Category(category)
	tx.Description = description.String
	tx.Sequence = int(sequence.Int64)
	return tx, nil
}
