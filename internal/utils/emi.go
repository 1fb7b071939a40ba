package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidLoanTerms is returned for non-positive tenures or negative amounts/rates
var ErrInvalidLoanTerms = errors.New("invalid loan terms")

// EMI computes the equated monthly installment for an amortizing loan:
//
//	r   = annualRatePct / 12 / 100
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to P/n. The result is rounded half up to the
// minor unit.
func EMI(principal Money, annualRatePct float64, termMonths int) (Money, error) {
	if termMonths <= 0 {
		return 0, fmt.Errorf("%w: term must be positive, got %d months", ErrInvalidLoanTerms, termMonths)
	}
	if principal < 0 {
		return 0, fmt.Errorf("%w: negative principal %s", ErrInvalidLoanTerms, principal)
	}
	if annualRatePct < 0 || math.IsNaN(annualRatePct) || math.IsInf(annualRatePct, 0) {
		return 0, fmt.Errorf("%w: annual rate %v", ErrInvalidLoanTerms, annualRatePct)
	}

	if annualRatePct == 0 {
		return principal.Div(int64(termMonths)), nil
	}

	r := annualRatePct / 12 / 100
	growth := math.Pow(1+r, float64(termMonths))
	emi := principal.Float64() * r * growth / (growth - 1)

	return FromDecimal(decimal.NewFromFloat(emi)), nil
}
