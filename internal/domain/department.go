package domain

import "time"

// Department represents an organizational unit complaints are routed to.
// HodID points at the head-of-department user when one is appointed.
type Department struct {
	ID          string
	Name        string
	Description string
	HodID       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
