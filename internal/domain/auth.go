package domain

// AuthContext identifies the authenticated caller for every operation.
// It is built by the transport layer after token verification and passed
// down as a plain value; services never inspect credentials themselves.
type AuthContext struct {
	UserID       string
	Role         Role
	DepartmentID *string
}
