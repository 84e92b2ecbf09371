package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/config"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/lifecycle"
)

// NotificationService turns domain events into per-user notifications. It
// keeps an inbox per recipient and hands every notification to a Notifier
// for delivery.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
	cfg        config.NotificationConfig
	now        Clock

	mu    sync.RWMutex
	inbox map[string][]domain.Notification
}

// NewNotificationService creates the service. A nil notifier keeps
// notifications in the inbox only.
func NewNotificationService(dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger, cfg config.NotificationConfig, clock Clock) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     loggerOrNop(logger),
		cfg:        cfg,
		now:        clockOrNow(clock),
		inbox:      make(map[string][]domain.Notification),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventJobStatusChanged, n.handleJobStatusChanged)
	n.dispatcher.Subscribe(events.EventMessageAdded, n.handleMessageAdded)
	n.dispatcher.Subscribe(events.EventPaymentRecorded, n.handlePaymentRecorded)
}

func (n *NotificationService) handleJobStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobStatusChangedPayload)
	if !ok {
		return fmt.Errorf("job_status_changed: unexpected payload %T", event.Payload)
	}
	switch lifecycle.EventType(payload.Event) {
	case lifecycle.EventAccept:
		return n.notify(ctx, payload.CustomerID, domain.NotificationJobAccepted,
			"Job accepted", "A professional accepted your job.",
			map[string]any{"job_id": event.JobID, "professional_id": deref(payload.ProfessionalID)})
	case lifecycle.EventComplete:
		data := map[string]any{"job_id": event.JobID}
		if payload.FinalPrice != nil {
			data["final_price"] = *payload.FinalPrice
		}
		return n.notify(ctx, payload.CustomerID, domain.NotificationJobCompleted,
			"Job completed", "Your job is complete. Please review and pay.", data)
	}
	return nil
}

func (n *NotificationService) handleMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageAddedPayload)
	if !ok {
		return fmt.Errorf("message_added: unexpected payload %T", event.Payload)
	}
	if payload.RecipientID == "" {
		return nil
	}
	return n.notify(ctx, payload.RecipientID, domain.NotificationNewMessage,
		"New message", payload.BodyPreview,
		map[string]any{"job_id": event.JobID, "message_id": payload.MessageID})
}

func (n *NotificationService) handlePaymentRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentRecordedPayload)
	if !ok {
		return fmt.Errorf("payment_recorded: unexpected payload %T", event.Payload)
	}
	if payload.Status != domain.PaymentStatusCompleted || payload.ProfessionalID == "" {
		return nil
	}
	return n.notify(ctx, payload.ProfessionalID, domain.NotificationPaymentReceived,
		"Payment received", fmt.Sprintf("You received $%.2f.", payload.Amount),
		map[string]any{"job_id": event.JobID, "payment_id": payload.PaymentID, "amount": payload.Amount})
}

func (n *NotificationService) notify(ctx context.Context, userID string, kind domain.NotificationType, title, body string, data map[string]any) error {
	note := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      kind,
		Data:      data,
		CreatedAt: n.now(),
	}

	n.mu.Lock()
	n.inbox[userID] = append(n.inbox[userID], note)
	n.mu.Unlock()

	n.logger.Debug("notification queued",
		zap.String("user_id", userID),
		zap.String("type", string(kind)),
		zap.String("from", n.cfg.EmailFrom))
	if n.notifier == nil {
		return nil
	}
	return n.notifier.Notify(ctx, note)
}

// Inbox returns userID's notifications, newest first.
func (n *NotificationService) Inbox(userID string) []domain.Notification {
	n.mu.RLock()
	out := append([]domain.Notification(nil), n.inbox[userID]...)
	n.mu.RUnlock()
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}

// Unread counts userID's unread notifications.
func (n *NotificationService) Unread(userID string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	count := 0
	for _, note := range n.inbox[userID] {
		if !note.IsRead {
			count++
		}
	}
	return count
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
