package models

// Role is the access level carried by a token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated caller. CompanyID is the multi-tenancy boundary
// every ownership check is evaluated against.
type Principal struct {
	UserID    string
	CompanyID uint
	Role      Role
}

// IsAdmin reports whether the principal may mutate data.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
