package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Attachments []string `json:"attachments" validate:"max=5"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	StaffID string `json:"staff_id" validate:"required"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// ResolveComplaintRequest payload.
type ResolveComplaintRequest struct {
	ResolutionNote string `json:"resolution_note" validate:"required"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ComplaintResponse is the list/detail view of a complaint.
type ComplaintResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	CategoryID        string     `json:"category_id"`
	DepartmentID      string     `json:"department_id"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	ComplainantID     string     `json:"complainant_id"`
	AssignedToStaffID *string    `json:"assigned_to_staff_id"`
	Attachments       []string   `json:"attachments"`
	SubmittedAt       time.Time  `json:"submitted_at"`
	AssignedAt        *time.Time `json:"assigned_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	ResolutionNote    *string    `json:"resolution_note"`
	FeedbackRating    *int       `json:"feedback_rating"`
	FeedbackComment   *string    `json:"feedback_comment"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// AuditEntryResponse is one row of a complaint's audit trail.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// ComplaintDetailResponse pairs a complaint with its audit trail.
type ComplaintDetailResponse struct {
	Complaint ComplaintResponse    `json:"complaint"`
	AuditLog  []AuditEntryResponse `json:"audit_log"`
}

// NotificationResponse is one inbox record.
type NotificationResponse struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentUploadResponse returns the stored object key.
type AttachmentUploadResponse struct {
	Key string `json:"key"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                complaint.ID,
		Title:             complaint.Title,
		Description:       complaint.Description,
		CategoryID:        complaint.CategoryID,
		DepartmentID:      complaint.DepartmentID,
		Priority:          string(complaint.Priority),
		Status:            string(complaint.Status),
		ComplainantID:     complaint.ComplainantID,
		AssignedToStaffID: complaint.AssignedToStaffID,
		Attachments:       complaint.Attachments,
		SubmittedAt:       complaint.SubmittedAt,
		AssignedAt:        complaint.AssignedAt,
		ResolvedAt:        complaint.ResolvedAt,
		ResolutionNote:    complaint.ResolutionNote,
		FeedbackRating:    complaint.FeedbackRating,
		FeedbackComment:   complaint.FeedbackComment,
		UpdatedAt:         complaint.UpdatedAt,
	}
}

// NewComplaintListResponse maps a page of complaints.
func NewComplaintListResponse(complaints []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, NewComplaintResponse(&complaints[i]))
	}
	return out
}

// NewAuditTrailResponse maps a complaint's audit entries.
func NewAuditTrailResponse(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, AuditEntryResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Action:    string(entry.Action),
			Note:      entry.Note,
			Timestamp: entry.Timestamp,
		})
	}
	return out
}

// NewNotificationListResponse maps inbox records.
func NewNotificationListResponse(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationResponse{
			ID:          n.ID,
			ComplaintID: n.ComplaintID,
			Type:        string(n.Type),
			Message:     n.Message,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	return out
}
