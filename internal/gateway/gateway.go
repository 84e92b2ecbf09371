// Package gateway is the boundary to the marketplace's external
// collaborators: the authentication provider, the remote job list and the
// payment processor. Every call may suspend and may fail.
package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/observability"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// AuthGateway signs identities in and up.
type AuthGateway interface {
	SignIn(ctx context.Context, creds domain.Credentials) (domain.User, error)
	SignUp(ctx context.Context, reg domain.Registration) (domain.User, error)
}

// JobGateway synchronizes jobs with the remote backend.
type JobGateway interface {
	FetchJobs(ctx context.Context) ([]domain.Job, error)
	SubmitJob(ctx context.Context, job domain.Job) error
}

// PaymentGateway charges customers for completed work.
type PaymentGateway interface {
	Charge(ctx context.Context, jobID string, amount float64) (string, error)
}

// Operation labels reported to the metrics recorder.
const (
	OpSignIn    = "sign_in"
	OpSignUp    = "sign_up"
	OpFetchJobs = "fetch_jobs"
	OpSubmitJob = "submit_job"
	OpCharge    = "charge"
)

// Simulator supplies the latency and failure behavior shared by the
// simulated collaborators.
type Simulator struct {
	latency  time.Duration
	recorder observability.Recorder

	mu       sync.Mutex
	failures map[string]error
}

// NewSimulator builds a Simulator. A nil recorder disables metrics.
func NewSimulator(latency time.Duration, recorder observability.Recorder) *Simulator {
	if recorder == nil {
		recorder = observability.NoopRecorder{}
	}
	return &Simulator{latency: latency, recorder: recorder, failures: make(map[string]error)}
}

// FailWith makes every subsequent call of op return err. A nil err clears it.
func (s *Simulator) FailWith(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// call waits out the simulated latency, then reports the injected failure
// for op if any. Cancellation wins over both.
func (s *Simulator) call(ctx context.Context, op string) (err error) {
	started := time.Now()
	defer func() {
		s.recorder.ObserveGatewayCall(op, time.Since(started), err == nil)
	}()

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return apperrors.NewUnavailable(op+" cancelled", ctx.Err())
		case <-timer.C:
		}
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		return apperrors.NewUnavailable(op+" cancelled", ctxErr)
	}

	s.mu.Lock()
	injected := s.failures[op]
	s.mu.Unlock()
	if injected != nil {
		return apperrors.NewUnavailable(op+" failed", injected)
	}
	return nil
}
