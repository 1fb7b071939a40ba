// Package database provides persistence for the risk data generator.
//
// FILE: schema.go
// PURPOSE: The schema guard. It makes the additive adjustments the
// generator needs (risk columns on borrowers, risk_score on loans, the
// financial_transactions table) using IF NOT EXISTS forms only, so it is
// idempotent and safe to run from concurrent requests.
package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schemas/*.sql
var schemaFS embed.FS

// BaseSchema returns the embedded DDL for lenders, borrowers and loans
func BaseSchema(d Dialect) ([]byte, error) {
	var filename string
	switch d {
	case Postgres:
		filename = "schemas/postgres.sql"
	case MySQL:
		filename = "schemas/mariadb.sql"
	default:
		return nil, fmt.Errorf("no base schema for dialect %q", d)
	}
	return schemaFS.ReadFile(filename)
}

// guardStatements returns the additive DDL for the dialect. Both PostgreSQL
// and MariaDB accept ADD COLUMN IF NOT EXISTS and CREATE TABLE IF NOT EXISTS.
func guardStatements(d Dialect) []string {
	uuidType, numeric, text := "UUID", "NUMERIC(14,2)", "TEXT"
	tableSuffix := ""
	if d == MySQL {
		uuidType, numeric = "CHAR(36)", "DECIMAL(14,2)"
		tableSuffix = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	}

	return []string{
		`ALTER TABLE borrowers
			ADD COLUMN IF NOT EXISTS credit_score INTEGER,
			ADD COLUMN IF NOT EXISTS income ` + numeric + `,
			ADD COLUMN IF NOT EXISTS employment_status VARCHAR(50),
			ADD COLUMN IF NOT EXISTS debt_to_income NUMERIC(4,2),
			ADD COLUMN IF NOT EXISTS payment_pattern VARCHAR(50),
			ADD COLUMN IF NOT EXISTS late_payments INTEGER,
			ADD COLUMN IF NOT EXISTS existing_loans INTEGER,
			ADD COLUMN IF NOT EXISTS risk_profile VARCHAR(50)`,

		`ALTER TABLE loans ADD COLUMN IF NOT EXISTS risk_score INTEGER`,

		`CREATE TABLE IF NOT EXISTS financial_transactions (
			id ` + uuidType + ` PRIMARY KEY,
			borrower_id ` + uuidType + ` NOT NULL REFERENCES borrowers(id) ON DELETE CASCADE,
			account_number VARCHAR(50),
			transaction_date DATE NOT NULL,
			transaction_type VARCHAR(20) NOT NULL,
			amount ` + numeric + ` NOT NULL,
			balance ` + numeric + ` NOT NULL,
			category VARCHAR(50) NOT NULL,
			description ` + text + `,
			seq_no INTEGER NOT NULL DEFAULT 0
		)` + tableSuffix,

		// Tables created by older versions lack the ordering column
		`ALTER TABLE financial_transactions ADD COLUMN IF NOT EXISTS seq_no INTEGER NOT NULL DEFAULT 0`,
	}
}

// EnsureSchema applies the schema guard. It must complete before generation
// begins.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range guardStatements(s.pool.Dialect()) {
		if _, err := s.pool.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// ApplyBaseSchema creates lenders, borrowers and loans if they do not exist
func (s *Store) ApplyBaseSchema(ctx context.Context) error {
	ddl, err := BaseSchema(s.pool.Dialect())
	if err != nil {
		return err
	}
	for _, stmt := range splitStatements(string(ddl)) {
		if _, err := s.pool.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply base schema: %w", err)
		}
	}
	return nil
}

// splitStatements splits a DDL script on semicolons, dropping comment-only
// and empty chunks. The embedded scripts contain no semicolons in literals.
func splitStatements(script string) []string {
	var stmts []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			stmts = append(stmts, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return stmts
}
