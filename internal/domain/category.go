package domain

import "time"

// Category classifies complaints and binds each one to a department.
// A complaint's department is derived from its category at submission
// and frozen on the complaint afterwards.
type Category struct {
	ID           string
	Name         string
	DepartmentID string
	CreatedAt    time.Time
}
