package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
)

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// LogNotifier writes notifications to the log. It stands in for email.
type LogNotifier struct {
	logger    *zap.Logger
	emailFrom string
}

// NewLogNotifier builds a LogNotifier.
func NewLogNotifier(logger *zap.Logger, emailFrom string) *LogNotifier {
	return &LogNotifier{logger: loggerOrNop(logger), emailFrom: emailFrom}
}

func (l *LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	l.logger.Info("notification",
		zap.String("from", l.emailFrom),
		zap.String("user_id", n.UserID),
		zap.String("type", string(n.Type)),
		zap.String("title", n.Title))
	return nil
}

// Publisher is the pub/sub seam the Redis notifier writes through.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisNotifier publishes notifications on a per-user channel named
// "<prefix>:<user id>".
type RedisNotifier struct {
	publisher Publisher
	prefix    string
}

// NewRedisNotifier builds a RedisNotifier.
func NewRedisNotifier(publisher Publisher, prefix string) *RedisNotifier {
	if prefix == "" {
		prefix = "notifications"
	}
	return &RedisNotifier{publisher: publisher, prefix: prefix}
}

type notificationEnvelope struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"user_id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
	Data      map[string]any          `json:"data,omitempty"`
	CreatedAt string                  `json:"created_at"`
}

func (r *RedisNotifier) Notify(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(notificationEnvelope{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Data,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return r.publisher.Publish(ctx, r.Channel(n.UserID), payload)
}

// Channel names the channel for userID.
func (r *RedisNotifier) Channel(userID string) string {
	return r.prefix + ":" + userID
}

// FanOut delivers to every notifier and joins their errors.
type FanOut []Notifier

func (f FanOut) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, notifier := range f {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
