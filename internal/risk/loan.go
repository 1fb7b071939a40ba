package risk

import (
	"time"

	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/utils"
)

// LoanTerms are the sampled terms of one loan, before identity and EMI
type LoanTerms struct {
	Principal        utils.Money
	InterestRate     float64
	TenureMonths     int
	Status           models.LoanStatus
	RiskScore        int
	DisbursementDate time.Time
}

// LoanCountFor draws how many concurrent loans a borrower of the tier holds
func LoanCountFor(rng utils.RandomSource, tier models.RiskTier) (int, error) {
	params, err := Lookup(tier)
	if err != nil {
		return 0, err
	}
	return params.Loan.Count.Sample(rng), nil
}

// LoanTermsFor samples the terms of a single loan. Disbursement dates fall
// within the tier's lookback window ending at now.
func LoanTermsFor(rng utils.RandomSource, tier models.RiskTier, now time.Time) (LoanTerms, error) {
	params, err := Lookup(tier)
	if err != nil {
		return LoanTerms{}, err
	}
	p := params.Loan

	earliest := now.AddDate(0, 0, -p.DisbursedWithinDays)
	disbursed := utils.DateBetween(rng, earliest, now)

	return LoanTerms{
		Principal:        utils.Units(int64(p.Principal.Sample(rng))),
		InterestRate:     p.InterestRate.Sample(rng),
		TenureMonths:     p.TenureMonths.Sample(rng),
		Status:           utils.Pick(rng, p.Statuses),
		RiskScore:        p.RiskScore.Sample(rng),
		DisbursementDate: time.Date(disbursed.Year(), disbursed.Month(), disbursed.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}
