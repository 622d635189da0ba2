package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/authz"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// LifecycleService owns the complaint state machine: it validates
// transitions, enforces role authorization, computes routing targets and
// emits notification/audit side effects.
type LifecycleService struct {
	complaints  repository.ComplaintRepository
	categories  repository.CategoryRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	audit       repository.AuditRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// LifecycleDependencies bundles repositories for the lifecycle service.
type LifecycleDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	CategoryRepo   repository.CategoryRepository
	DepartmentRepo repository.DepartmentRepository
	UserRepo       repository.UserRepository
	AuditRepo      repository.AuditRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// SubmitInput describes a complaint submission payload.
type SubmitInput struct {
	Title       string
	Description string
	CategoryID  string
	Priority    domain.ComplaintPriority
	Attachments []string
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		complaints:  deps.ComplaintRepo,
		categories:  deps.CategoryRepo,
		departments: deps.DepartmentRepo,
		users:       deps.UserRepo,
		audit:       deps.AuditRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Forward movement allowed through AdvanceStatus. The resolved state is
// reachable only through Resolve, which also sets the resolution fields.
var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.StatusPending:    {domain.StatusAssigned},
	domain.StatusAssigned:   {domain.StatusInProgress},
	domain.StatusInProgress: {},
	domain.StatusResolved:   {},
}

func isValidTransition(current, next domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Submit files a new complaint, routing it to the department derived from
// the category. The department snapshot is frozen on the complaint; if the
// department has a head, a new_complaint notification goes out. Submission
// itself writes no audit entry: the trail starts at the first human action
// on the complaint.
func (s *LifecycleService) Submit(ctx context.Context, actor domain.AuthContext, input SubmitInput) (*domain.Complaint, error) {
	if !authz.CanSubmit(actor) {
		return nil, apperrors.NewForbidden("submission not permitted")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewInvalidArgument("title and description required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewInvalidArgument("unknown priority", map[string]any{"priority": priority})
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidReference("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	var hodID *string
	department, err := s.departments.GetByID(ctx, category.DepartmentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if department != nil {
		hodID = department.HodID
	}

	now := time.Now().UTC()
	complaint := &domain.Complaint{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		CategoryID:    category.ID,
		DepartmentID:  category.DepartmentID,
		Priority:      priority,
		Status:        domain.StatusPending,
		ComplainantID: actor.UserID,
		Attachments:   input.Attachments,
		SubmittedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: complaint.ID,
		ActorID:     actor.UserID,
		Payload: events.ComplaintSubmittedPayload{
			Title:        complaint.Title,
			DepartmentID: complaint.DepartmentID,
			Priority:     complaint.Priority,
			HodID:        hodID,
		},
	})
	return complaint, nil
}

// AssignToStaff delegates a complaint to a staff member. Re-assignment is
// allowed while the complaint is open; resolved complaints are frozen.
func (s *LifecycleService) AssignToStaff(ctx context.Context, actor domain.AuthContext, complaintID, staffID string) error {
	if !authz.CanAssign(actor) {
		return apperrors.NewForbidden("assignment requires hod or admin role")
	}

	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.Status == domain.StatusResolved {
		return apperrors.NewConflict("complaint already resolved", map[string]any{"complaint_id": complaintID})
	}

	assignee, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidReference("staff", map[string]any{"staff_id": staffID})
		}
		return apperrors.MapError(err)
	}
	if assignee.Role != domain.RoleStaff {
		return apperrors.NewInvalidArgument("assignee is not a staff member", map[string]any{"staff_id": staffID})
	}
	if actor.Role != domain.RoleAdmin {
		if assignee.DepartmentID == nil || *assignee.DepartmentID != complaint.DepartmentID {
			return apperrors.NewForbidden("assignee outside complaint department")
		}
	}

	now := time.Now().UTC()
	complaint.AssignedToStaffID = &assignee.ID
	complaint.Status = domain.StatusAssigned
	complaint.AssignedAt = &now
	if err := s.saveComplaint(ctx, complaint); err != nil {
		return err
	}

	s.recordAudit(ctx, complaint.ID, actor.UserID, domain.AuditActionAssigned, "Assigned to staff")
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     actor.UserID,
		Payload: events.ComplaintAssignedPayload{
			Title:   complaint.Title,
			StaffID: assignee.ID,
		},
	})
	return nil
}

// AdvanceStatus moves a complaint one stage forward. Resolution goes
// through Resolve so the resolved-state fields are always set together.
func (s *LifecycleService) AdvanceStatus(ctx context.Context, actor domain.AuthContext, complaintID string, newStatus domain.ComplaintStatus, note string) error {
	if !authz.CanAdvanceStatus(actor) {
		return apperrors.NewForbidden("status updates require staff, hod or admin role")
	}
	if !newStatus.Valid() {
		return apperrors.NewInvalidArgument("unknown status", map[string]any{"status": newStatus})
	}
	if newStatus == domain.StatusResolved {
		return apperrors.NewInvalidArgument("resolution must go through resolve", nil)
	}

	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return err
	}
	oldStatus := complaint.Status
	if !isValidTransition(oldStatus, newStatus) {
		return apperrors.NewConflict("invalid status transition", map[string]any{
			"from": oldStatus,
			"to":   newStatus,
		})
	}

	complaint.Status = newStatus
	if err := s.saveComplaint(ctx, complaint); err != nil {
		return err
	}

	auditNote := strings.TrimSpace(note)
	if auditNote == "" {
		auditNote = fmt.Sprintf("Status updated to %s", newStatus)
	}
	s.recordAudit(ctx, complaint.ID, actor.UserID, domain.AuditActionStatusUpdate, auditNote)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		ActorID:     actor.UserID,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Note:      note,
		},
	})
	return nil
}

// Resolve closes out a complaint, setting the resolution note and timestamp
// together with the status, and notifies the complainant.
func (s *LifecycleService) Resolve(ctx context.Context, actor domain.AuthContext, complaintID, resolutionNote string) error {
	if !authz.CanResolve(actor) {
		return apperrors.NewForbidden("resolution requires staff, hod or admin role")
	}

	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.Status != domain.StatusAssigned && complaint.Status != domain.StatusInProgress {
		return apperrors.NewConflict("complaint cannot be resolved in current status", map[string]any{
			"status": complaint.Status,
		})
	}

	now := time.Now().UTC()
	note := strings.TrimSpace(resolutionNote)
	complaint.Status = domain.StatusResolved
	complaint.ResolutionNote = &note
	complaint.ResolvedAt = &now
	if err := s.saveComplaint(ctx, complaint); err != nil {
		return err
	}

	s.recordAudit(ctx, complaint.ID, actor.UserID, domain.AuditActionResolved, note)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintResolved,
		ComplaintID: complaint.ID,
		ActorID:     actor.UserID,
		Payload: events.ComplaintResolvedPayload{
			Title:         complaint.Title,
			ComplainantID: complaint.ComplainantID,
		},
	})
	return nil
}

// SubmitFeedback records the complainant's rating on a resolved complaint.
// First write wins; feedback is informational and produces no notification
// or audit entry.
func (s *LifecycleService) SubmitFeedback(ctx context.Context, actor domain.AuthContext, complaintID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewInvalidArgument("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return err
	}
	if !authz.CanGiveFeedback(actor, complaint) {
		return apperrors.NewForbidden("only the complainant may give feedback")
	}
	if complaint.Status != domain.StatusResolved {
		return apperrors.NewConflict("feedback requires a resolved complaint", map[string]any{"status": complaint.Status})
	}
	if complaint.FeedbackRating != nil {
		return apperrors.NewConflict("feedback already submitted", nil)
	}

	trimmed := strings.TrimSpace(comment)
	complaint.FeedbackRating = &rating
	complaint.FeedbackComment = &trimmed
	return s.saveComplaint(ctx, complaint)
}

func (s *LifecycleService) loadComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *LifecycleService) saveComplaint(ctx context.Context, complaint *domain.Complaint) error {
	err := s.complaints.Update(ctx, complaint)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict("complaint was modified concurrently", map[string]any{"complaint_id": complaint.ID})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaint.ID})
	default:
		return apperrors.MapError(err)
	}
}

// recordAudit appends to the trail after the primary mutation succeeded.
// Failures are surfaced as warnings only; the mutation stands.
func (s *LifecycleService) recordAudit(ctx context.Context, complaintID, actorID string, action domain.AuditAction, note string) {
	entry := &domain.AuditEntry{
		ID:          uuid.NewString(),
		ComplaintID: complaintID,
		UserID:      actorID,
		Action:      action,
		Note:        note,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("complaint_id", complaintID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
