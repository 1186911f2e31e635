package domain

// Role is a position in the strictly ordered hierarchy Admin > Developer > User.
type Role string

const (
	RoleUser      Role = "User"
	RoleDeveloper Role = "Developer"
	RoleAdmin     Role = "Admin"
)

// Roles lists every valid role, lowest first.
var Roles = []Role{RoleUser, RoleDeveloper, RoleAdmin}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDeveloper, RoleAdmin:
		return true
	}
	return false
}

// AllowAccess reports whether an actor holding the actor role may perform an
// operation that requires the required role.
//
// Admin may do anything. Developer may do Developer and User operations. User
// may only do User operations. Any other actor, including an anonymous one
// with an empty role, is denied.
func AllowAccess(actor, required Role) bool {
	switch actor {
	case RoleAdmin:
		return true
	case RoleDeveloper:
		return required == RoleDeveloper || required == RoleUser
	case RoleUser:
		return required == RoleUser
	default:
		return false
	}
}
