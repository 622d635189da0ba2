package domain

import "time"

// NotificationType enumerates lifecycle events that produce a notification.
type NotificationType string

const (
	NotificationNewComplaint NotificationType = "new_complaint"
	NotificationAssigned     NotificationType = "assigned"
	NotificationResolved     NotificationType = "resolved"
)

// Notification is a polled, per-user record of a lifecycle event.
// Records are created once; only the Read flag is ever flipped.
type Notification struct {
	ID          string
	UserID      string
	ComplaintID string
	Type        NotificationType
	Message     string
	Read        bool
	CreatedAt   time.Time
}
