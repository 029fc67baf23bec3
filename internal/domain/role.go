package domain

import "strings"

// Role enumerates dashboard access tiers. Roles form a total order
// STAFF < MANAGER < ADMIN and are compared by rank.
type Role string

const (
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

var roleRanks = map[Role]int{
	RoleStaff:   1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Roles returns every known role in ascending rank.
func Roles() []Role {
	return []Role{RoleStaff, RoleManager, RoleAdmin}
}

// ParseRole normalizes a stored role string. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := roleRanks[role]; !ok {
		return "", false
	}
	return role, true
}

// Rank returns the position of the role in the hierarchy; 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Satisfies reports whether r ranks at least as high as required.
// Unknown roles on either side never satisfy.
func (r Role) Satisfies(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r.Rank() >= required.Rank()
}
