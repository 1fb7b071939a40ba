package risk

import (
	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/utils"
)

// TransactionPattern summarises how a borrower's account behaves.
// AverageBalance seeds the simulator; the other fields are reported
// alongside the ledger for analytics.
type TransactionPattern struct {
	Frequency        int         `json:"transaction_frequency"`
	AverageBalance   utils.Money `json:"average_balance"`
	Volatility       float64     `json:"volatility"`
	BounceRate       float64     `json:"bounce_rate"`
	SavingTendency   float64     `json:"saving_tendency"`
	LargeWithdrawals int         `json:"large_withdrawals"`
}

// PatternFor samples a transaction pattern for the tier
func PatternFor(rng utils.RandomSource, tier models.RiskTier) (TransactionPattern, error) {
	params, err := Lookup(tier)
	if err != nil {
		return TransactionPattern{}, err
	}
	p := params.Pattern

	return TransactionPattern{
		Frequency:        p.Frequency.Sample(rng),
		AverageBalance:   utils.FromFloat(p.AverageBalance.Sample(rng)),
		Volatility:       p.Volatility.Sample(rng),
		BounceRate:       p.BounceRate.Sample(rng),
		SavingTendency:   p.SavingTendency.Sample(rng),
		LargeWithdrawals: p.LargeWithdrawals.Sample(rng),
	}, nil
}
