package generator

import (
	"context"
	"fmt"

	"github.com/willfong/riskgen/internal/config"
	"github.com/willfong/riskgen/internal/database"
)

// ExistsFunc reports whether a candidate value is already taken
type ExistsFunc func(ctx context.Context, value string) (bool, error)

// existsIn checks field on the unit of work's own handle, so values inserted
// earlier in the same run count as taken
func existsIn(tx database.Tx, field database.UniqueField) ExistsFunc {
	return func(ctx context.Context, value string) (bool, error) {
		return tx.BorrowerFieldExists(ctx, field, value)
	}
}

// AllocateUnique draws candidates from gen until one is not taken.
// It gives up after maxRetries attempts (config.MaxUniqueRetries when < 1)
// with ErrUniqueFieldExhausted. Errors from exists are returned unchanged.
func AllocateUnique(ctx context.Context, field database.UniqueField, gen func() string, exists ExistsFunc, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = config.MaxUniqueRetries
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := gen()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s after %d attempts", ErrUniqueFieldExhausted, field, maxRetries)
}
