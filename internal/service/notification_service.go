package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// NotificationService turns lifecycle events into polled notification
// records. Delivery is at-least-once: a retried operation may produce a
// duplicate record, and a failed write is logged but never fails the
// operation that triggered it.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintSubmitted, n.handleSubmitted)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventComplaintResolved, n.handleResolved)
}

// Notify creates a notification record for the target user.
func (n *NotificationService) Notify(ctx context.Context, userID, complaintID string, notificationType domain.NotificationType, message string) (*domain.Notification, error) {
	notification := &domain.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		ComplaintID: complaintID,
		Type:        notificationType,
		Message:     message,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListForUser returns the caller's most recent notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	notifications, err := n.notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notifications, nil
}

// MarkRead flips the read flag on one of the caller's notifications.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := n.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (n *NotificationService) handleSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintSubmittedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for complaint_submitted", zap.String("complaint_id", event.ComplaintID))
		return nil
	}
	// No hod appointed for the department: nobody to route to, not an error.
	if payload.HodID == nil {
		return nil
	}
	message := fmt.Sprintf("New complaint assigned: %s", payload.Title)
	return n.persist(ctx, *payload.HodID, event.ComplaintID, domain.NotificationNewComplaint, message)
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintAssignedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for complaint_assigned", zap.String("complaint_id", event.ComplaintID))
		return nil
	}
	message := fmt.Sprintf("You have been assigned a complaint: %s", payload.Title)
	return n.persist(ctx, payload.StaffID, event.ComplaintID, domain.NotificationAssigned, message)
}

func (n *NotificationService) handleResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintResolvedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for complaint_resolved", zap.String("complaint_id", event.ComplaintID))
		return nil
	}
	message := fmt.Sprintf("Your complaint has been resolved: %s", payload.Title)
	return n.persist(ctx, payload.ComplainantID, event.ComplaintID, domain.NotificationResolved, message)
}

func (n *NotificationService) persist(ctx context.Context, userID, complaintID string, notificationType domain.NotificationType, message string) error {
	if _, err := n.Notify(ctx, userID, complaintID, notificationType, message); err != nil {
		n.logger.Warn("notification write failed",
			zap.String("user_id", userID),
			zap.String("complaint_id", complaintID),
			zap.String("type", string(notificationType)),
			zap.Error(err))
		return err
	}
	return nil
}
