package models

import (
	"time"

	"github.com/willfong/riskgen/internal/utils"
)

// RiskCharacteristics is the bundle of credit attributes sampled from a tier
type RiskCharacteristics struct {
	CreditScore      int              `db:"credit_score" json:"credit_score"`
	Income           utils.Money      `db:"income" json:"income"`
	EmploymentStatus EmploymentStatus `db:"employment_status" json:"employment_status"`
	DebtToIncome     float64          `db:"debt_to_income" json:"debt_to_income"` // 0.0-1.0, two decimals
	PaymentPattern   PaymentPattern   `db:"payment_pattern" json:"payment_pattern"`
	LatePayments     int              `db:"late_payments" json:"late_payments"`
	ExistingLoans    int              `db:"existing_loans" json:"existing_loans"`
	RiskTier         RiskTier         `db:"risk_profile" json:"risk_profile"`
}

// Borrower is a synthetic loan applicant owned by a tenant (lender).
// Borrowers are written once per generation run and never updated here.
type Borrower struct {
	// Primary identifier (UUID)
	ID string `db:"id" json:"id"`

	// Owning tenant
	TenantID string `db:"lender_id" json:"lender_id"`

	// Personal information
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`               // globally unique
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Aadhar      string    `db:"aadhar_number" json:"aadhar_number"` // 12 digits, globally unique
	PAN         string    `db:"pan_number" json:"pan_number"`       // AAAAA9999A, globally unique
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	Address     string    `db:"address" json:"address"`

	RiskCharacteristics

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FullName returns "First Last"
func (b *Borrower) FullName() string {
	return b.FirstName + " " + b.LastName
}

// BorrowerPortfolio is a borrower read back together with its loans and
// transaction history.
type BorrowerPortfolio struct {
	Borrower
	Loans        []Loan        `json:"loans"`
	Transactions []Transaction `json:"transactions"`
}
