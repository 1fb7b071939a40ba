package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/willfong/riskgen/internal/config"
)

// RetryConfig controls how a unit of work is rerun after the server aborts it
type RetryConfig struct {
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RetryableCheck func(error) bool
}

// DefaultRetryConfig retries serialization failures and deadlocks
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     config.TxMaxRetries,
		BaseDelay:      config.TxRetryBaseDelay,
		MaxDelay:       config.TxRetryMaxDelay,
		RetryableCheck: IsSerializationFailure,
	}
}

// IsSerializationFailure reports whether err means the server aborted the
// transaction and rerunning it from the start may succeed.
//
// PostgreSQL: 40001 serialization_failure, 40P01 deadlock_detected.
// MySQL/MariaDB: 1213 deadlock, 1205 lock wait timeout.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// retry runs operation until it succeeds, fails with a non-retryable error,
// or MaxRetries reruns are used up. The last error is returned.
func (c RetryConfig) retry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if c.RetryableCheck == nil || !c.RetryableCheck(err) || attempt >= c.MaxRetries {
			return err
		}

		select {
		case <-time.After(c.delay(attempt)):
		case <-ctx.Done():
			return lastErr
		}
	}

	return lastErr
}

// delay is BaseDelay * 2^attempt, capped at MaxDelay
func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.BaseDelay * time.Duration(1<<uint(attempt))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}
