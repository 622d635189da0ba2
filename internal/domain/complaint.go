package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusAssigned   ComplaintStatus = "assigned"
	StatusInProgress ComplaintStatus = "in-progress"
	StatusResolved   ComplaintStatus = "resolved"
)

// Valid reports whether the status is a known lifecycle state.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
)

// Valid reports whether the priority is a known level.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Complaint is the aggregate tracked through the lifecycle.
// DepartmentID is a snapshot taken from the category at submission time;
// later category or department edits do not re-route existing complaints.
// Version backs optimistic locking on updates.
type Complaint struct {
	ID                string
	Title             string
	Description       string
	CategoryID        string
	DepartmentID      string
	Priority          ComplaintPriority
	Status            ComplaintStatus
	ComplainantID     string
	AssignedToStaffID *string
	Attachments       []string
	SubmittedAt       time.Time
	AssignedAt        *time.Time
	ResolvedAt        *time.Time
	ResolutionNote    *string
	FeedbackRating    *int
	FeedbackComment   *string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
