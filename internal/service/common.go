package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// sessionUser returns the signed-in user from the latest snapshot.
func sessionUser(st *store.Store) (domain.User, error) {
	u, ok := st.State().CurrentUser()
	if !ok {
		return domain.User{}, apperrors.NewUnauthorized("sign in required")
	}
	return u, nil
}

func eventActor(u domain.User) events.Actor {
	return events.Actor{Role: u.Role(), UserID: u.ID}
}

// publish stamps and dispatches event. Handler failures are logged; they
// never undo the state change that caused the event.
func publish(ctx context.Context, d events.Dispatcher, logger *zap.Logger, now Clock, event events.Event) {
	if d == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	if err := d.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("job_id", event.JobID),
			zap.Error(err))
	}
}

// failureMessage renders err for the human-readable error slot of a slice.
func failureMessage(err error) *string {
	de := apperrors.ToDomainError(err)
	if de == nil {
		return nil
	}
	return store.ErrorMessage(de.Message)
}
