package domain

// Role enumerates the closed set of actor roles.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// roleRank is the single place the admin > manager > employee ordering is
// written down. Every higher role subsumes the capabilities of the ones below.
var roleRank = map[Role]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleAdmin:    3,
}

// ParseRole maps a raw claim value onto the enumeration.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	if _, ok := roleRank[role]; !ok {
		return "", false
	}
	return role, true
}

// Known reports whether the role belongs to the enumeration.
func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries every capability of other.
func (r Role) AtLeast(other Role) bool {
	rr, ok := roleRank[r]
	or, otherOK := roleRank[other]
	return ok && otherOK && rr >= or
}
