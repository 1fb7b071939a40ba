package generator

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/willfong/riskgen/internal/data"
	"github.com/willfong/riskgen/internal/database"
	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/risk"
	"github.com/willfong/riskgen/internal/utils"
)

var (
	aadharPattern = regexp.MustCompile(`^[2-9][0-9]{11}$`)
	panPattern    = regexp.MustCompile(`^[A-Z]{3}P[A-Z][0-9]{4}[A-Z]$`)
	phonePattern  = regexp.MustCompile(`^\+91[6-9][0-9]{9}$`)
	emailPattern  = regexp.MustCompile(`^[a-z]+\.[a-z]+[0-9]+@[a-z0-9.-]+$`)
)

func TestBorrowerGenerator_Generate(t *testing.T) {
	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}

	store := database.NewMemoryStore(models.Tenant{ID: "tenant-123"})
	gen := NewBorrowerGenerator(utils.NewRandom(42), refData, BorrowerGeneratorConfig{BaseDate: testBaseDate})

	err = store.RunInTx(context.Background(), func(tx database.Tx) error {
		for _, tier := range models.AllRiskTiers {
			b, err := gen.Generate(context.Background(), tx, "tenant-123", tier)
			if err != nil {
				return err
			}

			if b.RiskTier != tier {
				t.Errorf("Expected tier %s, got %s", tier, b.RiskTier)
			}
			if b.TenantID != "tenant-123" {
				t.Errorf("Expected tenant-123, got %s", b.TenantID)
			}
			if len(b.ID) != 36 {
				t.Errorf("Expected UUID id, got %q", b.ID)
			}
			if !aadharPattern.MatchString(b.Aadhar) {
				t.Errorf("Invalid Aadhar %q", b.Aadhar)
			}
			if !panPattern.MatchString(b.PAN) {
				t.Errorf("Invalid PAN %q", b.PAN)
			}
			if !phonePattern.MatchString(b.PhoneNumber) {
				t.Errorf("Invalid phone %q", b.PhoneNumber)
			}
			if !emailPattern.MatchString(b.Email) {
				t.Errorf("Invalid email %q", b.Email)
			}
			if b.DateOfBirth.Before(dobEarliest) || b.DateOfBirth.After(dobLatest) {
				t.Errorf("Date of birth %s outside 1950-2000", b.DateOfBirth)
			}
			if b.Address == "" || b.FirstName == "" || b.LastName == "" {
				t.Errorf("Expected name and address, got %+v", b)
			}
			if !b.CreatedAt.Equal(testBaseDate) {
				t.Errorf("Expected CreatedAt %s, got %s", testBaseDate, b.CreatedAt)
			}

			if err := tx.InsertBorrower(context.Background(), b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestBorrowerGenerator_UnknownTier(t *testing.T) {
	refData, err := data.Load()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}

	store := database.NewMemoryStore(models.Tenant{ID: "tenant-123"})
	gen := NewBorrowerGenerator(utils.NewRandom(42), refData, BorrowerGeneratorConfig{BaseDate: testBaseDate})

	err = store.RunInTx(context.Background(), func(tx database.Tx) error {
		_, err := gen.Generate(context.Background(), tx, "tenant-123", models.RiskTier("Medium"))
		return err
	})
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, risk.ErrUnknownTier) {
		t.Errorf("Expected ErrInvalidInput wrapping the unknown tier, got %v", err)
	}
}

func TestEmailPart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Priya", "priya"},
		{"D'Souza", "dsouza"},
		{"Van Der Berg", "vanderberg"},
		{"Zoë", "zo"},
		{"123", "user"},
	}

	for _, tt := range tests {
		if got := emailPart(tt.in); got != tt.want {
			t.Errorf("emailPart(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestLoanGenerator_Generate(t *testing.T) {
	gen := NewLoanGenerator(utils.NewRandom(8), testBaseDate)
	counts := map[models.RiskTier][2]int{
		models.TierVeryHighRisk: {3, 4},
		models.TierHighRisk:     {2, 3},
		models.TierModerateRisk: {1, 2},
		models.TierLowRisk:      {0, 1},
	}

	for tier, bounds := range counts {
		for i := 0; i < 20; i++ {
			b := &models.Borrower{ID: "b-1", TenantID: "tenant-123"}
			b.RiskTier = tier

			loans, err := gen.Generate(b)
			if err != nil {
				t.Fatalf("%s: Generate failed: %v", tier, err)
			}
			if len(loans) < bounds[0] || len(loans) > bounds[1] {
				t.Fatalf("%s: Expected %d-%d loans, got %d", tier, bounds[0], bounds[1], len(loans))
			}

			for _, l := range loans {
				want, err := utils.EMI(l.Principal, l.InterestRate, l.TenureMonths)
				if err != nil {
					t.Fatalf("EMI failed: %v", err)
				}
				if l.EMI != want {
					t.Errorf("%s: Expected EMI %s, got %s", tier, want, l.EMI)
				}
				if l.BorrowerID != "b-1" || l.TenantID != "tenant-123" {
					t.Errorf("Loan not linked to borrower: %+v", l)
				}
				if l.DisbursementDate.After(testBaseDate) {
					t.Errorf("Disbursement %s after base date", l.DisbursementDate)
				}
			}
		}
	}
}

func TestLoanGenerator_UnknownTier(t *testing.T) {
	b := &models.Borrower{ID: "b-1", TenantID: "tenant-123"}
	b.RiskTier = models.RiskTier("Medium")

	loans, err := NewLoanGenerator(utils.NewRandom(8), testBaseDate).Generate(b)
	if loans != nil {
		t.Errorf("Expected no loans, got %d", len(loans))
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
