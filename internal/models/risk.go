package models

import (
	"errors"
	"fmt"
)

// ErrUnknownRiskTier is returned when a label does not name one of the four tiers
var ErrUnknownRiskTier = errors.New("unknown risk tier")

// RiskTier is the discrete risk classification that drives every synthetic
// distribution. The string values are the labels stored in borrowers.risk_profile.
type RiskTier string

const (
	TierVeryHighRisk RiskTier = "Very High Risk"
	TierHighRisk     RiskTier = "High Risk"
	TierModerateRisk RiskTier = "Moderate Risk"
	TierLowRisk      RiskTier = "Low Risk"
)

// AllRiskTiers lists the tiers from riskiest to safest
var AllRiskTiers = []RiskTier{TierVeryHighRisk, TierHighRisk, TierModerateRisk, TierLowRisk}

// ParseRiskTier converts a stored label back into a RiskTier
func ParseRiskTier(s string) (RiskTier, error) {
	tier := RiskTier(s)
	if !tier.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskTier, s)
	}
	return tier, nil
}

// Valid reports whether the tier is one of the four defined tiers
func (t RiskTier) Valid() bool {
	return t.Rank() >= 0
}

// Rank orders tiers from 0 (riskiest) to 3 (safest), or -1 if unknown
func (t RiskTier) Rank() int {
	for i, tier := range AllRiskTiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// IsRiskier returns true if t is strictly riskier than other
func (t RiskTier) IsRiskier(other RiskTier) bool {
	return t.Valid() && other.Valid() && t.Rank() < other.Rank()
}

func (t RiskTier) String() string {
	return string(t)
}

// EmploymentStatus describes the borrower's employment situation
type EmploymentStatus string

const (
	EmploymentUnemployed   EmploymentStatus = "Unemployed"
	EmploymentTemporary    EmploymentStatus = "Temporary"
	EmploymentPartTime     EmploymentStatus = "Part-time"
	EmploymentContract     EmploymentStatus = "Contract"
	EmploymentFullTime     EmploymentStatus = "Full-time"
	EmploymentSelfEmployed EmploymentStatus = "Self-employed"
)

// PaymentPattern labels how regularly the borrower services debt
type PaymentPattern string

const (
	PatternHighlyIrregular PaymentPattern = "Highly Irregular"
	PatternIrregular       PaymentPattern = "Irregular"
	PatternMostlyRegular   PaymentPattern = "Mostly regular"
	PatternRegular         PaymentPattern = "Regular"
)
