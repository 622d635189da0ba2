package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted     EventType = "complaint_submitted"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResolved      EventType = "complaint_resolved"
)

// Event represents a domain event emitted by the lifecycle engine.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload. HodID is nil when the routed
// department has no head appointed.
type ComplaintSubmittedPayload struct {
	Title        string                   `json:"title"`
	DepartmentID string                   `json:"department_id"`
	Priority     domain.ComplaintPriority `json:"priority"`
	HodID        *string                  `json:"hod_id,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	Title   string `json:"title"`
	StaffID string `json:"staff_id"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      string                 `json:"note,omitempty"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	Title         string `json:"title"`
	ComplainantID string `json:"complainant_id"`
}
