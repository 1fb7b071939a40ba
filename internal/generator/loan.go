package generator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/risk"
	"github.com/willfong/riskgen/internal/utils"
)

// LoanGenerator creates a borrower's loan book from the tier's loan table
type LoanGenerator struct {
	rng      utils.RandomSource
	baseDate time.Time
}

// NewLoanGenerator creates a new loan generator. Disbursement dates fall in
// the tier's window ending at baseDate.
func NewLoanGenerator(rng utils.RandomSource, baseDate time.Time) *LoanGenerator {
	if baseDate.IsZero() {
		baseDate = time.Now().UTC()
	}
	return &LoanGenerator{rng: rng, baseDate: baseDate}
}

// Generate returns 0-4 loans for the borrower depending on tier
func (g *LoanGenerator) Generate(b *models.Borrower) ([]models.Loan, error) {
	count, err := risk.LoanCountFor(g.rng, b.RiskTier)
	if err != nil {
		return nil, tierError(err)
	}

	loans := make([]models.Loan, 0, count)
	for i := 0; i < count; i++ {
		terms, err := risk.LoanTermsFor(g.rng, b.RiskTier, g.baseDate)
		if err != nil {
			return nil, tierError(err)
		}

		emi, err := utils.EMI(terms.Principal, terms.InterestRate, terms.TenureMonths)
		if err != nil {
			return nil, fmt.Errorf("failed to price loan for borrower %s: %w", b.ID, err)
		}

		loans = append(loans, models.Loan{
			ID:               uuid.NewString(),
			BorrowerID:       b.ID,
			TenantID:         b.TenantID,
			Principal:        terms.Principal,
			InterestRate:     terms.InterestRate,
			TenureMonths:     terms.TenureMonths,
			EMI:              emi,
			Status:           terms.Status,
			DisbursementDate: terms.DisbursementDate,
			RiskScore:        terms.RiskScore,
		})
	}
	return loans, nil
}
