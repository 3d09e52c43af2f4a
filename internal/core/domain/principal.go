package domain

import "github.com/google/uuid"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleLandlord Role = "landlord"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleLandlord, RoleStaff, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Principal is the resolved caller of an operation.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// SystemPrincipal is used when one engine drives another, e.g. a settled
// payment approving its booking.
var SystemPrincipal = Principal{ID: uuid.Nil, Role: RoleSystem}

func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff || p.Role == RoleAdmin || p.Role == RoleSystem
}
