// Package risk holds the tier-keyed parameter tables that drive every
// synthetic distribution: borrower credit attributes, bank-statement
// patterns, loan terms and the per-month behaviour of the transaction
// simulator.
//
// Dispatch is table-driven. Adding a tier means adding one TierParams
// entry; nothing downstream switches on tier values.
package risk

import (
	"errors"
	"fmt"

	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/utils"
)

// ErrUnknownTier is returned when no parameter set exists for a tier
var ErrUnknownTier = errors.New("no parameters for risk tier")

// IntRange is a closed integer interval
type IntRange struct {
	Min, Max int
}

// Sample draws uniformly from [Min, Max]
func (r IntRange) Sample(rng utils.RandomSource) int {
	return rng.IntRange(r.Min, r.Max)
}

// FloatRange is a closed interval sampled at two decimal places
type FloatRange struct {
	Min, Max float64
}

// Sample draws from [Min, Max] rounded to two decimals
func (r FloatRange) Sample(rng utils.RandomSource) float64 {
	return utils.RoundedRange(rng, r.Min, r.Max, 2)
}

// Raw draws from [Min, Max) without rounding, for shares and noise
func (r FloatRange) Raw(rng utils.RandomSource) float64 {
	return rng.Float64Range(r.Min, r.Max)
}

// ProfileParams bounds the borrower risk characteristics
type ProfileParams struct {
	CreditScore    IntRange
	Income         IntRange // whole currency units
	Employment     []models.EmploymentStatus
	DebtToIncome   FloatRange
	PaymentPattern models.PaymentPattern
	LatePayments   IntRange
	ExistingLoans  IntRange
}

// PatternParams bounds the bank-statement pattern
type PatternParams struct {
	Frequency        IntRange // transactions per month
	AverageBalance   FloatRange
	Volatility       FloatRange
	BounceRate       FloatRange
	SavingTendency   FloatRange
	LargeWithdrawals IntRange
}

// LoanParams bounds the loan book of a borrower
type LoanParams struct {
	Count        IntRange
	Principal    IntRange // whole currency units
	InterestRate FloatRange
	TenureMonths IntRange
	Statuses     []models.LoanStatus
	RiskScore    IntRange
	// DisbursedWithinDays limits how far back the disbursement date may fall
	DisbursedWithinDays int
}

// LedgerParams controls the month-by-month transaction simulator
type LedgerParams struct {
	// Probability that the borrower has no salary stream at all
	NoSalaryProb float64
	// Base monthly salary
	Salary FloatRange
	// Probability of missing a given month's salary
	SalarySkipProb float64

	// Rent/Mortgage as a share of the current balance
	RentShare FloatRange
	// Share of balance for every other expense category
	ExpenseShare FloatRange
	// Expenses are clamped so the balance stays at or above Floor
	KeepFloor bool

	BounceProb float64
	BounceFee  FloatRange

	SavingsProb  float64
	SavingsShare FloatRange

	// Large withdrawals happen only in the last LargeWithdrawalMonths months
	LargeWithdrawalProb  float64
	LargeWithdrawalShare FloatRange

	// Probability the borrower services a loan from this account at all
	RepaymentProb     float64
	Repayment         FloatRange
	RepaymentSkipProb float64
}

// TierParams is the complete parameter set for one risk tier
type TierParams struct {
	Tier    models.RiskTier
	Profile ProfileParams
	Pattern PatternParams
	Loan    LoanParams
	Ledger  LedgerParams
}

// Ledger-wide constants
const (
	// BalanceFloor is the minimum balance low and moderate risk borrowers keep
	BalanceFloor = 500

	// LargeWithdrawalMonths is the trailing window where withdrawal spikes occur
	LargeWithdrawalMonths = 3
)

// Tiers is the parameter table. Numeric credit ranges are strictly separated:
// every riskier tier sits entirely below (or, for debt ratio and bounce rate,
// entirely above) the next safer tier.
var Tiers = map[models.RiskTier]TierParams{
	models.TierVeryHighRisk: {
		Tier: models.TierVeryHighRisk,
		Profile: ProfileParams{
			CreditScore:    IntRange{300, 450},
			Income:         IntRange{8000, 15000},
			Employment:     []models.EmploymentStatus{models.EmploymentUnemployed, models.EmploymentTemporary},
			DebtToIncome:   FloatRange{0.71, 0.95},
			PaymentPattern: models.PatternHighlyIrregular,
			LatePayments:   IntRange{6, 12},
			ExistingLoans:  IntRange{3, 6},
		},
		Pattern: PatternParams{
			Frequency:        IntRange{20, 40},
			AverageBalance:   FloatRange{100, 1500},
			Volatility:       FloatRange{0.60, 0.90},
			BounceRate:       FloatRange{0.26, 0.40},
			SavingTendency:   FloatRange{0, 0},
			LargeWithdrawals: IntRange{3, 7},
		},
		Loan: LoanParams{
			Count:               IntRange{3, 4},
			Principal:           IntRange{80000, 150000},
			InterestRate:        FloatRange{20, 30},
			TenureMonths:        IntRange{36, 72},
			Statuses:            []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue, models.LoanStatusDefault},
			RiskScore:           IntRange{85, 100},
			DisbursedWithinDays: 90,
		},
		Ledger: LedgerParams{
			NoSalaryProb:         0.4,
			Salary:               FloatRange{8000, 15000},
			SalarySkipProb:       0.4,
			RentShare:            FloatRange{0.5, 0.8},
			ExpenseShare:         FloatRange{0.05, 0.20},
			BounceProb:           0.5,
			BounceFee:            FloatRange{500, 3000},
			LargeWithdrawalProb:  0.8,
			LargeWithdrawalShare: FloatRange{0.6, 0.9},
			RepaymentProb:        0.2,
			Repayment:            FloatRange{3000, 7000},
			RepaymentSkipProb:    0.6,
		},
	},
	models.TierHighRisk: {
		Tier: models.TierHighRisk,
		Profile: ProfileParams{
			CreditScore:    IntRange{451, 550},
			Income:         IntRange{15001, 25000},
			Employment:     []models.EmploymentStatus{models.EmploymentUnemployed, models.EmploymentPartTime, models.EmploymentContract},
			DebtToIncome:   FloatRange{0.51, 0.70},
			PaymentPattern: models.PatternIrregular,
			LatePayments:   IntRange{3, 5},
			ExistingLoans:  IntRange{2, 4},
		},
		Pattern: PatternParams{
			Frequency:        IntRange{15, 30},
			AverageBalance:   FloatRange{500, 3000},
			Volatility:       FloatRange{0.40, 0.60},
			BounceRate:       FloatRange{0.16, 0.25},
			SavingTendency:   FloatRange{0, 0.10},
			LargeWithdrawals: IntRange{2, 4},
		},
		Loan: LoanParams{
			Count:               IntRange{2, 3},
			Principal:           IntRange{50000, 100000},
			InterestRate:        FloatRange{15, 22},
			TenureMonths:        IntRange{24, 60},
			Statuses:            []models.LoanStatus{models.LoanStatusActive, models.LoanStatusPending, models.LoanStatusOverdue, models.LoanStatusDefault},
			RiskScore:           IntRange{65, 84},
			DisbursedWithinDays: 180,
		},
		Ledger: LedgerParams{
			Salary:               FloatRange{15000, 25000},
			SalarySkipProb:       0.2,
			RentShare:            FloatRange{0.4, 0.6},
			ExpenseShare:         FloatRange{0.05, 0.20},
			BounceProb:           0.3,
			BounceFee:            FloatRange{500, 2000},
			LargeWithdrawalProb:  0.6,
			LargeWithdrawalShare: FloatRange{0.4, 0.7},
			RepaymentProb:        0.4,
			Repayment:            FloatRange{2000, 5000},
			RepaymentSkipProb:    0.4,
		},
	},
	models.TierModerateRisk: {
		Tier: models.TierModerateRisk,
		Profile: ProfileParams{
			CreditScore:    IntRange{551, 670},
			Income:         IntRange{25001, 50000},
			Employment:     []models.EmploymentStatus{models.EmploymentFullTime, models.EmploymentSelfEmployed},
			DebtToIncome:   FloatRange{0.31, 0.50},
			PaymentPattern: models.PatternMostlyRegular,
			LatePayments:   IntRange{1, 2},
			ExistingLoans:  IntRange{1, 2},
		},
		Pattern: PatternParams{
			Frequency:        IntRange{8, 15},
			AverageBalance:   FloatRange{3000, 10000},
			Volatility:       FloatRange{0.20, 0.40},
			BounceRate:       FloatRange{0.06, 0.15},
			SavingTendency:   FloatRange{0.10, 0.30},
			LargeWithdrawals: IntRange{1, 2},
		},
		Loan: LoanParams{
			Count:               IntRange{1, 2},
			Principal:           IntRange{30000, 80000},
			InterestRate:        FloatRange{10, 15},
			TenureMonths:        IntRange{12, 36},
			Statuses:            []models.LoanStatus{models.LoanStatusActive, models.LoanStatusPending, models.LoanStatusClosed},
			RiskScore:           IntRange{35, 64},
			DisbursedWithinDays: 730,
		},
		Ledger: LedgerParams{
			Salary:        FloatRange{25000, 45000},
			RentShare:     FloatRange{0.2, 0.4},
			ExpenseShare:  FloatRange{0.05, 0.20},
			KeepFloor:     true,
			RepaymentProb: 1,
			Repayment:     FloatRange{5000, 20000},
		},
	},
	models.TierLowRisk: {
		Tier: models.TierLowRisk,
		Profile: ProfileParams{
			CreditScore:    IntRange{671, 850},
			Income:         IntRange{50001, 150000},
			Employment:     []models.EmploymentStatus{models.EmploymentFullTime},
			DebtToIncome:   FloatRange{0.10, 0.30},
			PaymentPattern: models.PatternRegular,
			LatePayments:   IntRange{0, 0},
			ExistingLoans:  IntRange{0, 1},
		},
		Pattern: PatternParams{
			Frequency:        IntRange{3, 8},
			AverageBalance:   FloatRange{10000, 50000},
			Volatility:       FloatRange{0.05, 0.20},
			BounceRate:       FloatRange{0, 0.05},
			SavingTendency:   FloatRange{0.30, 0.50},
			LargeWithdrawals: IntRange{0, 1},
		},
		Loan: LoanParams{
			Count:               IntRange{0, 1},
			Principal:           IntRange{10000, 50000},
			InterestRate:        FloatRange{7, 12},
			TenureMonths:        IntRange{6, 24},
			Statuses:            []models.LoanStatus{models.LoanStatusActive, models.LoanStatusClosed},
			RiskScore:           IntRange{10, 34},
			DisbursedWithinDays: 730,
		},
		Ledger: LedgerParams{
			Salary:        FloatRange{50000, 120000},
			RentShare:     FloatRange{0.2, 0.4},
			ExpenseShare:  FloatRange{0.05, 0.20},
			KeepFloor:     true,
			SavingsProb:   0.7,
			SavingsShare:  FloatRange{0.05, 0.15},
			RepaymentProb: 1,
			Repayment:     FloatRange{5000, 20000},
		},
	},
}

// Lookup returns the parameter set for a tier
func Lookup(tier models.RiskTier) (TierParams, error) {
	params, ok := Tiers[tier]
	if !ok {
		return TierParams{}, fmt.Errorf("%w: %q", ErrUnknownTier, string(tier))
	}
	return params, nil
}
