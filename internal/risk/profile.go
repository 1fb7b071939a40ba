package risk

import (
	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/utils"
)

// ProfileFor samples a borrower's risk characteristics for the tier.
// Each field is drawn independently and uniformly from the tier's range.
func ProfileFor(rng utils.RandomSource, tier models.RiskTier) (models.RiskCharacteristics, error) {
	params, err := Lookup(tier)
	if err != nil {
		return models.RiskCharacteristics{}, err
	}
	p := params.Profile

	return models.RiskCharacteristics{
		CreditScore:      p.CreditScore.Sample(rng),
		Income:           utils.Units(int64(p.Income.Sample(rng))),
		EmploymentStatus: utils.Pick(rng, p.Employment),
		DebtToIncome:     p.DebtToIncome.Sample(rng),
		PaymentPattern:   p.PaymentPattern,
		LatePayments:     p.LatePayments.Sample(rng),
		ExistingLoans:    p.ExistingLoans.Sample(rng),
		RiskTier:         tier,
	}, nil
}
