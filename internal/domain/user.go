package domain

import "time"

// Role enumerates the fixed set of caller roles.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleHod         Role = "hod"
	RoleStaff       Role = "staff"
	RoleComplainant Role = "complainant"
)

// Valid reports whether the role is one of the known tags.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHod, RoleStaff, RoleComplainant:
		return true
	}
	return false
}

// RequiresDepartment reports whether the role must carry a department.
func (r Role) RequiresDepartment() bool {
	return r == RoleHod || r == RoleStaff
}

// User is the account model for every participant in the system.
// DepartmentID is set for hod and staff accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
