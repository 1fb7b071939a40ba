// Package export writes generated portfolios to CSV files, one file per
// table, in the column layout of the database tables.
package export

import (
	"fmt"
	"strconv"

	"github.com/willfong/riskgen/internal/models"
)

var (
	borrowerHeaders = []string{
		"id", "lender_id", "first_name", "last_name", "email", "phone_number", "aadhar_number",
		"pan_number", "date_of_birth", "address", "credit_score", "income", "employment_status",
		"debt_to_income", "payment_pattern", "late_payments", "existing_loans", "risk_profile",
		"created_at",
	}
	loanHeaders = []string{
		"id", "borrower_id", "lender_id", "loan_amount", "interest_rate", "tenure_months",
		"emi_amount", "loan_status", "disbursement_date", "risk_score",
	}
	transactionHeaders = []string{
		"id", "borrower_id", "account_number", "transaction_date", "transaction_type",
		"amount", "balance", "category", "description", "seq_no",
	}
)

// Options controls where and how files are written
type Options struct {
	Dir      string
	Compress bool // write .csv.xz through the xz binary
}

// Result lists the files written and their row counts
type Result struct {
	Files map[string]int64 // path -> data rows
}

// Portfolios writes borrowers.csv, loans.csv and financial_transactions.csv
func Portfolios(portfolios []models.BorrowerPortfolio, opts Options) (*Result, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Compress {
		if err := CheckXZAvailable(); err != nil {
			return nil, err
		}
	}

	result := &Result{Files: make(map[string]int64)}
	tables := []struct {
		name    string
		headers []string
		rows    func(w *tableWriter) error
	}{
		{"borrowers", borrowerHeaders, func(w *tableWriter) error {
			for i := range portfolios {
				if err := w.writeRow(borrowerRow(&portfolios[i].Borrower)); err != nil {
					return err
				}
			}
			return nil
		}},
		{"loans", loanHeaders, func(w *tableWriter) error {
			for _, p := range portfolios {
				for i := range p.Loans {
					if err := w.writeRow(loanRow(&p.Loans[i])); err != nil {
						return err
					}
				}
			}
			return nil
		}},
		{"financial_transactions", transactionHeaders, func(w *tableWriter) error {
			for _, p := range portfolios {
				for i := range p.Transactions {
					if err := w.writeRow(transactionRow(&p.Transactions[i])); err != nil {
						return err
					}
				}
			}
			return nil
		}},
	}

	for _, table := range tables {
		w, err := newTableWriter(opts.Dir, table.name, table.headers, opts.Compress)
		if err != nil {
			return nil, err
		}
		if err := table.rows(w); err != nil {
			w.close()
			return nil, fmt.Errorf("failed to write %s: %w", table.name, err)
		}
		if err := w.close(); err != nil {
			return nil, fmt.Errorf("failed to close %s: %w", table.name, err)
		}
		result.Files[w.path] = w.rowCount
	}
	return result, nil
}

func borrowerRow(b *models.Borrower) []string {
	return []string{
		b.ID, b.TenantID, b.FirstName, b.LastName, b.Email, b.PhoneNumber, b.Aadhar,
		b.PAN, formatDate(b.DateOfBirth), b.Address, strconv.Itoa(b.CreditScore), formatMoney(b.Income),
		string(b.EmploymentStatus), formatFloat(b.DebtToIncome), string(b.PaymentPattern),
		strconv.Itoa(b.LatePayments), strconv.Itoa(b.ExistingLoans), string(b.RiskTier),
		formatTime(b.CreatedAt),
	}
}

func loanRow(l *models.Loan) []string {
	return []string{
		l.ID, l.BorrowerID, l.TenantID, formatMoney(l.Principal), formatFloat(l.InterestRate),
		strconv.Itoa(l.TenureMonths), formatMoney(l.EMI), string(l.Status),
		formatDate(l.DisbursementDate), strconv.Itoa(l.RiskScore),
	}
}

func transactionRow(t *models.Transaction) []string {
	return []string{
		t.ID, t.BorrowerID, t.AccountNumber, formatDate(t.Date), string(t.Direction),
		formatMoney(t.Amount), formatMoney(t.Balance), string(t.Category), t.Description,
		strconv.Itoa(t.Sequence),
	}
}
