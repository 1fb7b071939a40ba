package models

import (
	"errors"
	"testing"
)

func TestParseRiskTier(t *testing.T) {
	for _, tier := range AllRiskTiers {
		got, err := ParseRiskTier(string(tier))
		if err != nil {
			t.Errorf("ParseRiskTier(%q) failed: %v", tier, err)
		}
		if got != tier {
			t.Errorf("Expected %q, got %q", tier, got)
		}
	}

	if _, err := ParseRiskTier("Low"); !errors.Is(err, ErrUnknownRiskTier) {
		t.Errorf("Expected ErrUnknownRiskTier, got %v", err)
	}
}

func TestRiskTierRank(t *testing.T) {
	if !TierVeryHighRisk.IsRiskier(TierHighRisk) {
		t.Error("Very High Risk should be riskier than High Risk")
	}
	if TierLowRisk.IsRiskier(TierModerateRisk) {
		t.Error("Low Risk should not be riskier than Moderate Risk")
	}
	if RiskTier("bogus").Rank() != -1 {
		t.Error("Unknown tier should rank -1")
	}
}

func TestDirectionSign(t *testing.T) {
	tx := Transaction{Direction: DirectionDebit, Amount: 1250}
	if tx.SignedAmount() != -1250 {
		t.Errorf("Expected -1250, got %d", tx.SignedAmount())
	}
	tx.Direction = DirectionCredit
	if tx.SignedAmount() != 1250 {
		t.Errorf("Expected 1250, got %d", tx.SignedAmount())
	}
}
