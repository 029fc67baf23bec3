package access

import "github.com/spec-kit/dashboard-gateway/internal/domain"

// HasRole grants iff role ranks at least as high as required. An empty or
// unknown role is denied.
func HasRole(role, required domain.Role) bool {
	return role.Satisfies(required)
}

// HasAnyRole grants iff role passes HasRole for at least one required role.
func HasAnyRole(role domain.Role, required ...domain.Role) bool {
	for _, r := range required {
		if HasRole(role, r) {
			return true
		}
	}
	return false
}
