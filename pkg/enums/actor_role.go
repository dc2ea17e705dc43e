package enums

import "fmt"

// ActorRole identifies the caller's role as minted by the identity provider.
type ActorRole string

const (
	ActorRoleSuperAdmin ActorRole = "SUPER_ADMIN"
	ActorRoleAdmin      ActorRole = "ADMIN"
	ActorRoleEmployee   ActorRole = "EMPLOYEE"
)

var validActorRoles = []ActorRole{
	ActorRoleSuperAdmin,
	ActorRoleAdmin,
	ActorRoleEmployee,
}

// String implements fmt.Stringer.
func (a ActorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// CanManageDeployments reports whether the role may create or return
// assignments.
func (a ActorRole) CanManageDeployments() bool {
	return a == ActorRoleSuperAdmin || a == ActorRoleAdmin
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
