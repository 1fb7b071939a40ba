package generator

import (
	"errors"
	"fmt"

	"github.com/willfong/riskgen/internal/risk"
)

// Error kinds surfaced by a generation run. Causes are attached with %w so
// callers match on the kind with errors.Is and still see the detail.
var (
	// ErrInvalidInput means the tenant id was missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrTenantNotFound means no lender row exists for the tenant id
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrUniqueFieldExhausted means every candidate for a unique column collided
	ErrUniqueFieldExhausted = errors.New("unique value attempts exhausted")

	// ErrGenerationFailed wraps any other failure inside the unit of work
	ErrGenerationFailed = errors.New("generation failed")

	// ErrGenerationInProgress means another run holds the tenant's lock
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// tierError reports a tier with no parameter set as invalid input
func tierError(err error) error {
	if errors.Is(err, risk.ErrUnknownTier) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
