package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/gateway"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// PaymentService charges customers for completed jobs and keeps the
// append-only payment ledger.
type PaymentService struct {
	store      *store.Store
	gateway    gateway.PaymentGateway
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock

	mu       sync.Mutex
	ledger   []domain.Payment
	inflight map[string]struct{}
}

// NewPaymentService constructs the service.
func NewPaymentService(st *store.Store, gw gateway.PaymentGateway, dispatcher events.Dispatcher, logger *zap.Logger, clock Clock) *PaymentService {
	return &PaymentService{
		store:      st,
		gateway:    gw,
		dispatcher: dispatcher,
		logger:     loggerOrNop(logger),
		now:        clockOrNow(clock),
		inflight:   make(map[string]struct{}),
	}
}

// Charge bills the job's final price to its owner. Each attempt is
// recorded; a job is charged successfully at most once.
func (s *PaymentService) Charge(ctx context.Context, jobID string) (domain.Payment, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return domain.Payment{}, err
	}
	job, ok := s.store.State().JobByID(jobID)
	if !ok {
		return domain.Payment{}, apperrors.NewNotFound("job", map[string]any{"id": jobID})
	}
	if user.Role() != domain.RoleCustomer || job.CustomerID != user.ID {
		return domain.Payment{}, apperrors.NewForbidden("not permitted to pay for this job")
	}
	if job.Status != domain.JobStatusCompleted || job.FinalPrice == nil {
		return domain.Payment{}, apperrors.NewConflict("job is not ready for payment", map[string]any{
			"current_status": string(job.Status),
		})
	}
	if err := s.reserve(jobID); err != nil {
		return domain.Payment{}, err
	}
	defer s.release(jobID)

	payment := domain.Payment{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Amount:    *job.FinalPrice,
		Status:    domain.PaymentStatusPending,
		CreatedAt: s.now(),
	}

	ref, chargeErr := s.gateway.Charge(ctx, jobID, payment.Amount)
	if chargeErr != nil {
		payment.Status = domain.PaymentStatusFailed
		s.logger.Warn("charge failed", zap.String("job_id", jobID), zap.Error(chargeErr))
	} else {
		completedAt := s.now()
		payment.Status = domain.PaymentStatusCompleted
		payment.ExternalRef = &ref
		payment.CompletedAt = &completedAt
		s.logger.Info("payment recorded", zap.String("job_id", jobID), zap.String("payment_id", payment.ID))
	}
	s.append(payment)

	professionalID := ""
	if job.ProfessionalID != nil {
		professionalID = *job.ProfessionalID
	}
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:  events.EventPaymentRecorded,
		JobID: jobID,
		Actor: eventActor(user),
		Payload: events.PaymentRecordedPayload{
			PaymentID:      payment.ID,
			Amount:         payment.Amount,
			Status:         payment.Status,
			ProfessionalID: professionalID,
		},
	})

	if chargeErr != nil {
		return payment, chargeErr
	}
	return payment, nil
}

// History lists jobID's charge attempts for one of the job's parties.
func (s *PaymentService) History(jobID string) ([]domain.Payment, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return nil, err
	}
	job, ok := s.store.State().JobByID(jobID)
	if !ok {
		return nil, apperrors.NewNotFound("job", map[string]any{"id": jobID})
	}
	if job.CustomerID != user.ID && !job.AssignedTo(user.ID) {
		return nil, apperrors.NewForbidden("not a party to this job")
	}
	return s.ForJob(jobID), nil
}

// ForJob lists every attempt for jobID, oldest first.
func (s *PaymentService) ForJob(jobID string) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.ledger {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out
}

// reserve admits one charge attempt per job at a time and none once the
// job has a completed payment.
func (s *PaymentService) reserve(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[jobID]; busy {
		return apperrors.NewConflict("payment already in progress", map[string]any{"job_id": jobID})
	}
	for _, p := range s.ledger {
		if p.JobID == jobID && p.Status == domain.PaymentStatusCompleted {
			return apperrors.NewConflict("job is already paid", map[string]any{"job_id": jobID})
		}
	}
	s.inflight[jobID] = struct{}{}
	return nil
}

func (s *PaymentService) release(jobID string) {
	s.mu.Lock()
	delete(s.inflight, jobID)
	s.mu.Unlock()
}

func (s *PaymentService) append(p domain.Payment) {
	s.mu.Lock()
	s.ledger = append(s.ledger, p)
	s.mu.Unlock()
}
