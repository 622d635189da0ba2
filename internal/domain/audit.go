package domain

import "time"

// AuditAction names the state-changing operation an entry records.
type AuditAction string

const (
	AuditActionAssigned     AuditAction = "assigned"
	AuditActionStatusUpdate AuditAction = "status_update"
	AuditActionResolved     AuditAction = "resolved"
)

// AuditEntry is an immutable record of a state-changing action against a
// complaint. Entries are append-only and ordered by Timestamp.
type AuditEntry struct {
	ID          string
	ComplaintID string
	UserID      string
	Action      AuditAction
	Note        string
	Timestamp   time.Time
}
