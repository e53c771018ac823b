package showroom

// Role is an account's role. Exactly two exist; there is no anonymous or
// guest elevation anywhere in the system.
type Role string

const (
	// RoleAdmin manages catalog content and quotes.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin additionally manages accounts.
	RoleSuperAdmin Role = "superadmin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if this role meets the minimum required level
func (r Role) IsAtLeast(minRole Role) bool {
	roleHierarchy := map[Role]int{
		RoleAdmin:      0,
		RoleSuperAdmin: 1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
