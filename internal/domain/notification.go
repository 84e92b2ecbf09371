package domain

import "time"

// NotificationType enumerates user-facing notification kinds.
type NotificationType string

const (
	NotificationJobAccepted     NotificationType = "job_accepted"
	NotificationJobCompleted    NotificationType = "job_completed"
	NotificationPaymentReceived NotificationType = "payment_received"
	NotificationNewMessage      NotificationType = "new_message"
)

// Notification is addressed to a single recipient.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	Type      NotificationType
	Data      map[string]any
	IsRead    bool
	CreatedAt time.Time
}
