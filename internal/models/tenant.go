package models

// Tenant is the lender that owns generated borrowers. Tenants live in the
// lenders table and are only ever read by the generator.
type Tenant struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
