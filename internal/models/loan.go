package models

import (
	"time"

	"github.com/willfong/riskgen/internal/utils"
)

// LoanStatus represents the servicing state of a loan
type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "Active"
	LoanStatusPending LoanStatus = "Pending"
	LoanStatusOverdue LoanStatus = "Overdue"
	LoanStatusDefault LoanStatus = "Default"
	LoanStatusClosed  LoanStatus = "Closed"
)

// Loan is an amortizing loan held by a borrower
type Loan struct {
	ID         string `db:"id" json:"id"`
	BorrowerID string `db:"borrower_id" json:"borrower_id"`
	TenantID   string `db:"lender_id" json:"lender_id"`

	// Terms
	Principal    utils.Money `db:"loan_amount" json:"loan_amount"`
	InterestRate float64     `db:"interest_rate" json:"interest_rate"` // annual percent, two decimals
	TenureMonths int         `db:"tenure_months" json:"tenure_months"`
	EMI          utils.Money `db:"emi_amount" json:"emi_amount"`

	Status           LoanStatus `db:"loan_status" json:"loan_status"`
	DisbursementDate time.Time  `db:"disbursement_date" json:"disbursement_date"`
	RiskScore        int        `db:"risk_score" json:"risk_score"` // 0-100, higher is riskier
}
