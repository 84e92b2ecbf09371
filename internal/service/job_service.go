package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/feed"
	"github.com/spec-kit/homeservices/internal/gateway"
	"github.com/spec-kit/homeservices/internal/lifecycle"
	"github.com/spec-kit/homeservices/internal/observability"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// JobService coordinates job creation, lifecycle transitions and the job
// feed for the signed-in user.
type JobService struct {
	store      *store.Store
	gateway    gateway.JobGateway
	dispatcher events.Dispatcher
	recorder   observability.Recorder
	locator    feed.Locator
	ids        *JobIDGenerator
	logger     *zap.Logger
	now        Clock

	requireApproval bool

	mu sync.Mutex
	// inflight holds jobs with a transition between validation and dispatch.
	inflight map[string]struct{}
}

// JobDependencies bundles collaborators for the job service.
type JobDependencies struct {
	Store      *store.Store
	Gateway    gateway.JobGateway
	Dispatcher events.Dispatcher
	Recorder   observability.Recorder
	Locator    feed.Locator
	IDs        *JobIDGenerator
	Logger     *zap.Logger
	Clock      Clock
	// RequireApproval blocks unapproved professionals from accepting jobs.
	RequireApproval bool
}

// FeedQuery narrows the job feed.
type FeedQuery struct {
	Category feed.CategoryFilter
	// Available switches a professional's feed from their assigned jobs to
	// open jobs in their categories. Customers ignore it.
	Available bool
	// Limit caps the result; zero means no cap.
	Limit int
}

// JobView is a job as a feed card presents it.
type JobView struct {
	Job           domain.Job
	PostedAgo     string
	Distance      string
	AllowedEvents []lifecycle.EventType
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	now := clockOrNow(deps.Clock)
	svc := &JobService{
		store:           deps.Store,
		gateway:         deps.Gateway,
		dispatcher:      deps.Dispatcher,
		recorder:        deps.Recorder,
		locator:         deps.Locator,
		ids:             deps.IDs,
		logger:          loggerOrNop(deps.Logger),
		now:             now,
		requireApproval: deps.RequireApproval,
		inflight:        make(map[string]struct{}),
	}
	if svc.recorder == nil {
		svc.recorder = observability.NoopRecorder{}
	}
	if svc.locator == nil {
		svc.locator = feed.PlaceholderLocator{}
	}
	if svc.ids == nil {
		svc.ids = NewJobIDGenerator(now)
	}
	return svc
}

// CreateJob turns a customer's draft into a pending job.
func (s *JobService) CreateJob(ctx context.Context, draft domain.JobDraft) (domain.Job, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return domain.Job{}, err
	}
	if user.Role() != domain.RoleCustomer {
		return domain.Job{}, apperrors.NewForbidden("only customers can request service")
	}

	now := s.now()
	if errs := domain.ValidateJobDraft(draft, now); !errs.Valid() {
		return domain.Job{}, errs.Err()
	}
	preferred, err := domain.ParsePreferredDate(draft.PreferredDate, now.Location())
	if err != nil {
		return domain.Job{}, apperrors.NewValidationError("validation failed", map[string]any{
			"preferredDate": "Preferred date is invalid",
		})
	}

	job := domain.Job{
		ID:              s.ids.Next(),
		CustomerID:      user.ID,
		ServiceCategory: draft.ServiceCategory,
		Description:     strings.TrimSpace(draft.Description),
		Photos:          append([]string(nil), draft.Photos...),
		Address:         strings.TrimSpace(draft.Address),
		PreferredDate:   preferred,
		Status:          domain.JobStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.sync(ctx, "submit job", job); err != nil {
		return domain.Job{}, err
	}
	s.store.Dispatch(store.AddJob{Job: job})

	s.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("customer_id", job.CustomerID),
		zap.String("category", string(job.ServiceCategory)))
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:  events.EventJobCreated,
		JobID: job.ID,
		Actor: eventActor(user),
		Payload: events.JobCreatedPayload{
			CustomerID:      job.CustomerID,
			ServiceCategory: job.ServiceCategory,
			Address:         job.Address,
		},
	})
	return job.Clone(), nil
}

// Accept assigns the signed-in professional to a pending job.
func (s *JobService) Accept(ctx context.Context, jobID string) (domain.Job, error) {
	return s.transition(ctx, jobID, lifecycle.Accept)
}

// Start begins work on an accepted job.
func (s *JobService) Start(ctx context.Context, jobID string) (domain.Job, error) {
	return s.transition(ctx, jobID, lifecycle.Start)
}

// Complete finishes a job at finalPrice.
func (s *JobService) Complete(ctx context.Context, jobID string, finalPrice float64) (domain.Job, error) {
	return s.transition(ctx, jobID, func(a lifecycle.Actor) lifecycle.Event {
		return lifecycle.Complete(a, finalPrice)
	})
}

// Cancel cancels a job that has not started.
func (s *JobService) Cancel(ctx context.Context, jobID string) (domain.Job, error) {
	return s.transition(ctx, jobID, lifecycle.Cancel)
}

// Rate records the customer's rating of a completed job.
func (s *JobService) Rate(ctx context.Context, jobID string, rating int, review string) (domain.Job, error) {
	return s.transition(ctx, jobID, func(a lifecycle.Actor) lifecycle.Event {
		return lifecycle.Rate(a, rating, strings.TrimSpace(review))
	})
}

func (s *JobService) transition(ctx context.Context, jobID string, build func(lifecycle.Actor) lifecycle.Event) (domain.Job, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return domain.Job{}, err
	}
	if err := s.reserve(jobID); err != nil {
		return domain.Job{}, err
	}
	defer s.release(jobID)

	job, ok := s.store.State().JobByID(jobID)
	if !ok {
		return domain.Job{}, apperrors.NewNotFound("job", map[string]any{"id": jobID})
	}

	ev := build(lifecycle.ActorFromUser(user))
	next, err := lifecycle.Apply(job, ev, s.now())
	if err == nil && ev.Type == lifecycle.EventAccept && s.requireApproval {
		// approval is an actor check, so it follows the state edge
		if pro, isPro := user.Professional(); isPro && !pro.IsApproved {
			err = apperrors.NewForbidden("not permitted to accept this job")
		}
	}
	s.recorder.IncTransition(string(ev.Type), err == nil)
	if err != nil {
		s.logger.Info("job transition rejected",
			zap.String("job_id", jobID),
			zap.String("event", string(ev.Type)),
			zap.String("status", string(job.Status)),
			zap.Error(err))
		return job, err
	}

	if err := s.sync(ctx, string(ev.Type)+" job", next); err != nil {
		return job, err
	}
	after := s.store.Dispatch(store.ApplyTransition{Job: next, Event: ev.Type, From: job.Status})
	if current, ok := after.JobByID(jobID); !ok || !sameRevision(current, next) {
		// a refresh replaced the job while the gateway call was in flight
		status := job.Status
		if ok {
			status = current.Status
		}
		s.logger.Warn("job transition lost to a concurrent update",
			zap.String("job_id", jobID),
			zap.String("event", string(ev.Type)),
			zap.String("status", string(status)))
		return current, apperrors.NewInvalidTransition(string(status), string(ev.Type))
	}

	s.logger.Info("job transitioned",
		zap.String("job_id", jobID),
		zap.String("event", string(ev.Type)),
		zap.String("from", string(job.Status)),
		zap.String("to", string(next.Status)))
	s.publishTransition(ctx, user, job, next, ev)
	return next.Clone(), nil
}

func (s *JobService) reserve(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[jobID]; busy {
		return apperrors.NewConflict("job update already in progress", map[string]any{"job_id": jobID})
	}
	s.inflight[jobID] = struct{}{}
	return nil
}

func (s *JobService) release(jobID string) {
	s.mu.Lock()
	delete(s.inflight, jobID)
	s.mu.Unlock()
}

func sameRevision(a, b domain.Job) bool {
	return a.Status == b.Status && a.UpdatedAt.Equal(b.UpdatedAt) && (a.Rating == nil) == (b.Rating == nil)
}

func (s *JobService) publishTransition(ctx context.Context, user domain.User, prev, next domain.Job, ev lifecycle.Event) {
	if ev.Type == lifecycle.EventRate {
		publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
			Type:  events.EventJobRated,
			JobID: next.ID,
			Actor: eventActor(user),
			Payload: events.JobRatedPayload{
				ProfessionalID: next.ProfessionalID,
				Rating:         ev.Rating,
			},
		})
		return
	}

	assignee := next.ProfessionalID
	if assignee == nil {
		// cancellation clears the assignment; the payload still names who held it
		assignee = prev.ProfessionalID
	}
	publish(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:  events.EventJobStatusChanged,
		JobID: next.ID,
		Actor: eventActor(user),
		Payload: events.JobStatusChangedPayload{
			Event:          string(ev.Type),
			OldStatus:      prev.Status,
			NewStatus:      next.Status,
			CustomerID:     next.CustomerID,
			ProfessionalID: assignee,
			FinalPrice:     next.FinalPrice,
		},
	})
}

// sync pushes job to the remote backend with the jobs slice's loading and
// error bookkeeping around the call.
func (s *JobService) sync(ctx context.Context, op string, job domain.Job) error {
	s.store.Dispatch(store.SetError{})
	s.store.Dispatch(store.SetLoading{Loading: true})
	defer s.store.Dispatch(store.SetLoading{Loading: false})

	if err := s.gateway.SubmitJob(ctx, job); err != nil {
		s.logger.Warn(op+" failed", zap.String("job_id", job.ID), zap.Error(err))
		s.store.Dispatch(store.SetError{Message: failureMessage(err)})
		return err
	}
	return nil
}

// Refresh replaces the job list with the backend's.
func (s *JobService) Refresh(ctx context.Context) ([]domain.Job, error) {
	s.store.Dispatch(store.SetError{})
	s.store.Dispatch(store.SetLoading{Loading: true})
	defer s.store.Dispatch(store.SetLoading{Loading: false})

	jobs, err := s.gateway.FetchJobs(ctx)
	if err != nil {
		s.logger.Warn("fetch jobs failed", zap.Error(err))
		s.store.Dispatch(store.SetError{Message: failureMessage(err)})
		return nil, err
	}
	next := s.store.Dispatch(store.SetJobs{Jobs: jobs})
	s.logger.Debug("jobs refreshed", zap.Int("count", len(next.Jobs.Jobs)))
	return next.Jobs.Jobs, nil
}

// Get returns a job the signed-in user may see.
func (s *JobService) Get(jobID string) (domain.Job, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return domain.Job{}, err
	}
	job, ok := s.store.State().JobByID(jobID)
	if !ok || !visibleTo(job, user) {
		return domain.Job{}, apperrors.NewNotFound("job", map[string]any{"id": jobID})
	}
	return job, nil
}

// Select makes jobID the current job.
func (s *JobService) Select(jobID string) (domain.Job, error) {
	job, err := s.Get(jobID)
	if err != nil {
		return domain.Job{}, err
	}
	s.store.Dispatch(store.SelectJob{ID: jobID})
	return job, nil
}

// ClearSelection empties the current job.
func (s *JobService) ClearSelection() {
	s.store.Dispatch(store.ClearSelectedJob{})
}

// Feed returns the signed-in user's job cards, newest first.
func (s *JobService) Feed(q FeedQuery) ([]JobView, error) {
	user, err := sessionUser(s.store)
	if err != nil {
		return nil, err
	}
	jobs := s.store.State().Jobs.Jobs

	switch user.Role() {
	case domain.RoleCustomer:
		jobs = feed.OwnedBy(jobs, user.ID)
	case domain.RoleProfessional:
		if q.Available {
			pro, _ := user.Professional()
			jobs = feed.ForProfessional(feed.Available(jobs), pro.ServiceCategories)
		} else {
			jobs = feed.AssignedTo(jobs, user.ID)
		}
	}

	category := q.Category
	if category == "" {
		category = feed.All
	}
	jobs = feed.SortByRecency(feed.FilterByCategory(jobs, category))
	if q.Limit > 0 {
		jobs = feed.Recent(jobs, q.Limit)
	}

	now := s.now()
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, JobView{
			Job:           job,
			PostedAgo:     feed.TimeAgo(now, job.CreatedAt),
			Distance:      feed.FormatDistance(s.locator, job.Address),
			AllowedEvents: lifecycle.AllowedEvents(job.Status),
		})
	}
	return views, nil
}

// visibleTo reports whether u may look at job. Professionals see open
// jobs plus their own; customers see their own; admins see everything.
func visibleTo(job domain.Job, u domain.User) bool {
	switch u.Role() {
	case domain.RoleCustomer:
		return job.CustomerID == u.ID
	case domain.RoleProfessional:
		return job.Status == domain.JobStatusPending || job.AssignedTo(u.ID)
	case domain.RoleAdmin:
		return true
	}
	return false
}
