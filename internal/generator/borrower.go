package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/willfong/riskgen/internal/data"
	"github.com/willfong/riskgen/internal/database"
	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/risk"
	"github.com/willfong/riskgen/internal/utils"
)

// BorrowerGenerator creates borrowers with synthetic Indian identity data and
// tier-derived risk characteristics.
type BorrowerGenerator struct {
	rng     utils.RandomSource
	refData *data.ReferenceData
	config  BorrowerGeneratorConfig
}

// BorrowerGeneratorConfig holds settings for borrower generation
type BorrowerGeneratorConfig struct {
	// BaseDate stamps CreatedAt
	BaseDate time.Time
	// Candidate attempts per unique field
	MaxUniqueRetries int
}

// NewBorrowerGenerator creates a new borrower generator
func NewBorrowerGenerator(rng utils.RandomSource, refData *data.ReferenceData, config BorrowerGeneratorConfig) *BorrowerGenerator {
	if config.BaseDate.IsZero() {
		config.BaseDate = time.Now().UTC()
	}
	return &BorrowerGenerator{
		rng:     rng,
		refData: refData,
		config:  config,
	}
}

var (
	dobEarliest = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
	dobLatest   = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Generate builds one borrower of the given tier. Email, Aadhar and PAN are
// allocated against tx so they are unique across the store and the run.
func (g *BorrowerGenerator) Generate(ctx context.Context, tx database.Tx, tenantID string, tier models.RiskTier) (*models.Borrower, error) {
	characteristics, err := risk.ProfileFor(g.rng, tier)
	if err != nil {
		return nil, tierError(err)
	}

	isMale := g.rng.Probability(0.5)
	firstName := g.generateFirstName(isMale)
	lastName := g.generateLastName()

	email, err := AllocateUnique(ctx, database.FieldEmail,
		func() string { return g.generateEmail(firstName, lastName) },
		existsIn(tx, database.FieldEmail), g.config.MaxUniqueRetries)
	if err != nil {
		return nil, err
	}

	aadhar, err := AllocateUnique(ctx, database.FieldAadhar,
		g.generateAadhar,
		existsIn(tx, database.FieldAadhar), g.config.MaxUniqueRetries)
	if err != nil {
		return nil, err
	}

	pan, err := AllocateUnique(ctx, database.FieldPAN,
		func() string { return g.generatePAN(lastName) },
		existsIn(tx, database.FieldPAN), g.config.MaxUniqueRetries)
	if err != nil {
		return nil, err
	}

	return &models.Borrower{
		ID:                  uuid.NewString(),
		TenantID:            tenantID,
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		PhoneNumber:         g.generatePhone(),
		Aadhar:              aadhar,
		PAN:                 pan,
		DateOfBirth:         g.generateDateOfBirth(),
		Address:             g.generateAddress(),
		RiskCharacteristics: characteristics,
		CreatedAt:           g.config.BaseDate,
	}, nil
}

func (g *BorrowerGenerator) generateFirstName(isMale bool) string {
	names := g.refData.GetFirstNames(isMale)
	if len(names) == 0 {
		if isMale {
			return "Rahul"
		}
		return "Priya"
	}
	return utils.Pick(g.rng, names)
}

func (g *BorrowerGenerator) generateLastName() string {
	names := g.refData.GetLastNames()
	if len(names) == 0 {
		return "Sharma"
	}
	return utils.Pick(g.rng, names)
}

// generateEmail creates first.last<NN>@domain
func (g *BorrowerGenerator) generateEmail(firstName, lastName string) string {
	domain := "example.in"
	if domains := g.refData.GetEmailDomains(); len(domains) > 0 {
		domain = utils.Pick(g.rng, domains)
	}
	return fmt.Sprintf("%s.%s%d@%s", emailPart(firstName), emailPart(lastName), g.rng.IntRange(10, 9999), domain)
}

// emailPart lowercases a name and drops everything but ASCII letters
func emailPart(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "user"
	}
	return sb.String()
}

// generateAadhar creates a 12-digit number; real Aadhar never starts with 0 or 1
func (g *BorrowerGenerator) generateAadhar() string {
	return fmt.Sprintf("%d%s", g.rng.IntRange(2, 9), utils.NumericString(g.rng, 11))
}

// generatePAN creates AAAPL9999A: the 4th letter is P (individual), the
// 5th is the surname initial.
func (g *BorrowerGenerator) generatePAN(lastName string) string {
	initial := utils.LetterString(g.rng, 1)
	if r := []rune(strings.ToUpper(lastName)); len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z' {
		initial = string(r[0])
	}
	return utils.LetterString(g.rng, 3) + "P" + initial + utils.NumericString(g.rng, 4) + utils.LetterString(g.rng, 1)
}

// generatePhone creates an Indian mobile number (+91, first digit 6-9)
func (g *BorrowerGenerator) generatePhone() string {
	return fmt.Sprintf("+91%d%s", g.rng.IntRange(6, 9), utils.NumericString(g.rng, 9))
}

func (g *BorrowerGenerator) generateDateOfBirth() time.Time {
	dob := utils.DateBetween(g.rng, dobEarliest, dobLatest)
	return time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
}

// generateAddress creates "<house no> <street>, <city>, <state> <PIN>"
func (g *BorrowerGenerator) generateAddress() string {
	street := "MG Road"
	if streets := g.refData.GetStreets(); len(streets) > 0 {
		street = utils.Pick(g.rng, streets)
	}

	cities := g.refData.GetCities()
	if len(cities) == 0 {
		return fmt.Sprintf("%d %s", g.rng.IntRange(1, 999), street)
	}
	city := utils.Pick(g.rng, cities)
	return fmt.Sprintf("%d %s, %s, %s %s%s",
		g.rng.IntRange(1, 999), street, city.City, city.State, city.PINPrefix, utils.NumericString(g.rng, 3))
}
