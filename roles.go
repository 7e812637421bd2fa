package hub

// UserRole is the user's role
type UserRole = string

const (
	// RoleManager can administer users and read every audit trail
	RoleManager UserRole = "manager"
	// RoleDeveloper is the default contributor role
	RoleDeveloper UserRole = "developer"
	// RoleLeadership gets read access to tracker surfaces
	RoleLeadership UserRole = "leadership"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleManager, RoleDeveloper, RoleLeadership:
		return true
	default:
		return false
	}
}

// AllRoles returns every predefined role
func AllRoles() []UserRole {
	return []UserRole{RoleManager, RoleDeveloper, RoleLeadership}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// RequireRole is the authorization predicate: it admits the identity when its
// role is a member of the allowed set and returns ErrInsufficientRole
// otherwise. Callers must have authenticated the identity first; a nil
// identity here means the gate ordering is broken upstream.
func RequireRole(identity Identity, allowed ...UserRole) (Identity, error) {
	if identity == nil {
		return nil, ErrUnableToFindSession
	}

	role := identity.Role()
	for _, r := range allowed {
		if role == r {
			return identity, nil
		}
	}

	return nil, ErrInsufficientRole.WithMetadata(map[string]any{
		"role":    role,
		"allowed": allowed,
	})
}

// RoleChecker adapts RequireRole for middleware that only sees a role string.
func RoleChecker(role UserRole, allowed ...UserRole) error {
	for _, r := range allowed {
		if role == r {
			return nil
		}
	}
	return ErrInsufficientRole.WithMetadata(map[string]any{
		"role":    role,
		"allowed": allowed,
	})
}
