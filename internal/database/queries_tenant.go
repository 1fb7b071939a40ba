// Package database provides persistence for the risk data generator.
//
// FILE: queries_tenant.go
// PURPOSE: Tenant (lender) lookups. The generator never writes tenants.
package database

import (
	"context"
	"fmt"
)

// TenantExists reports whether a lender with the id exists
func (t *sqlTx) TenantExists(ctx context.Context, tenantID string) (bool, error) {
	found, err := t.exists(ctx, `SELECT 1 FROM lenders WHERE id = ?`, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant %s: %w", tenantID, err)
	}
	return found, nil
}
