package enums

import "fmt"

// ActorRole names the position an actor holds in the approval workflow.
type ActorRole string

const (
	ActorRoleCustomer         ActorRole = "customer"
	ActorRoleStaff            ActorRole = "staff"
	ActorRoleDistrictManager  ActorRole = "district_manager"
	ActorRoleCorporateManager ActorRole = "corporate_manager"
	ActorRoleAdmin            ActorRole = "admin"
)

var validActorRoles = []ActorRole{
	ActorRoleCustomer,
	ActorRoleStaff,
	ActorRoleDistrictManager,
	ActorRoleCorporateManager,
	ActorRoleAdmin,
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

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
