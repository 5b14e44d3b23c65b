package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleClient || r == RoleStaff || r == RoleAdmin
}

// RoleFacet marks that an Account currently holds one role. A facet carries
// no state of its own beyond the back-reference to its account and the role
// discriminator; facets of different roles share this storage shape and are
// told apart by the discriminator alone. One account may hold several facets
// at once, but at most one per role.
type RoleFacet struct {
	ID        uuid.UUID `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}
