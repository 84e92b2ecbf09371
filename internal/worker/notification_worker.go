package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/service"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// NotificationWorker moves delivery off the dispatch path. Notify enqueues;
// Run drains the queue into the downstream notifier until ctx ends.
type NotificationWorker struct {
	next   service.Notifier
	logger *zap.Logger
	queue  chan domain.Notification

	wg sync.WaitGroup
}

// NewNotificationWorker builds a worker with a queue of size buffer.
func NewNotificationWorker(next service.Notifier, buffer int, logger *zap.Logger) *NotificationWorker {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{next: next, logger: logger, queue: make(chan domain.Notification, buffer)}
}

// Notify enqueues n. A full queue is reported rather than blocking the
// caller.
func (w *NotificationWorker) Notify(ctx context.Context, n domain.Notification) error {
	select {
	case w.queue <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return apperrors.NewUnavailable("notification queue full", nil)
	}
}

// Start runs the worker in the background. Wait blocks until it exits.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Run(ctx)
	}()
}

// Wait blocks until a started worker has drained and exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

// Run delivers queued notifications until ctx is done, then flushes what
// is already queued.
func (w *NotificationWorker) Run(ctx context.Context) {
	for {
		select {
		case n := <-w.queue:
			w.deliver(context.WithoutCancel(ctx), n)
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return
		}
	}
}

func (w *NotificationWorker) flush(ctx context.Context) {
	for {
		select {
		case n := <-w.queue:
			w.deliver(ctx, n)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, n domain.Notification) {
	if err := w.next.Notify(ctx, n); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("notification_id", n.ID),
			zap.String("user_id", n.UserID),
			zap.Error(err))
	}
}

// StartNotificationWorker registers the notification handlers and starts
// delivery in the background.
func StartNotificationWorker(ctx context.Context, notifications *service.NotificationService, w *NotificationWorker) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if w != nil {
		w.Start(ctx)
	}
}
