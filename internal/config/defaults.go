// Package config contains compile-time defaults for the risk data generator.
// Edit these values and recompile to tune behavior.
package config

import "time"

// =============================================================================
// GENERATION DEFAULTS
// =============================================================================

// Cohort shape
const (
	// CohortSize is the number of borrowers created per tenant request
	CohortSize = 10

	// VeryHighRiskProbability is the chance a cohort contains one very high risk borrower
	VeryHighRiskProbability = 0.3

	// HighRiskMin/HighRiskMax bound the high risk borrowers per cohort
	HighRiskMin = 1
	HighRiskMax = 2

	// ModerateRiskMin/ModerateRiskMax bound the moderate risk borrowers per cohort
	ModerateRiskMin = 1
	ModerateRiskMax = 2
)

// Transaction history
const (
	// HistoryMonths is the length of the simulated bank statement window
	HistoryMonths = 12

	// TransactionBatchSize is the number of rows per multi-row INSERT
	TransactionBatchSize = 200
)

// Uniqueness
const (
	// MaxUniqueRetries is how many candidates the allocator tries before giving up
	MaxUniqueRetries = 5
)

// Timeouts
const (
	// GenerateTimeout bounds a single tenant's unit of work
	GenerateTimeout = 2 * time.Minute

	// LockTTL is how long a tenant generation lock lives in Redis without release
	LockTTL = 5 * time.Minute
)

// =============================================================================
// SERVER DEFAULTS
// =============================================================================

const (
	// ServerAddr is the default HTTP listen address
	ServerAddr = ":8080"

	// ServerReadTimeout bounds reading a request
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout bounds writing a response; must exceed GenerateTimeout
	ServerWriteTimeout = GenerateTimeout + 30*time.Second

	// GracefulShutdownTimeout is max wait time for graceful shutdown
	GracefulShutdownTimeout = 30 * time.Second
)

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBDriver is the database driver to use (postgres or mysql)
	DBDriver = "postgres"

	// DBMaxOpenConns is maximum open connections in the pool
	DBMaxOpenConns = 20

	// DBMaxIdleConns is maximum idle connections in the pool
	DBMaxIdleConns = 5

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute

	// DBConnMaxIdleTime is how long an idle connection is kept
	DBConnMaxIdleTime = 1 * time.Minute
)

// Serialization failure retries for a tenant's unit of work
const (
	// TxMaxRetries is how many times a unit of work is rerun after a
	// serialization failure or deadlock
	TxMaxRetries = 3

	// TxRetryBaseDelay is the first backoff; each retry doubles it
	TxRetryBaseDelay = 100 * time.Millisecond

	// TxRetryMaxDelay caps the backoff
	TxRetryMaxDelay = 2 * time.Second
)
