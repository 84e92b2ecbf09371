package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/feed"
	"github.com/spec-kit/homeservices/internal/lifecycle"
	"github.com/spec-kit/homeservices/internal/observability"
	"github.com/spec-kit/homeservices/internal/store"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

type jobFixture struct {
	st   *store.Store
	gw   *fakeJobGateway
	d    events.Dispatcher
	svc  *JobService
	seen []events.Event
}

func newJobFixture(t *testing.T, requireApproval bool) *jobFixture {
	t.Helper()
	f := &jobFixture{st: store.New(), gw: &fakeJobGateway{}, d: events.NewInMemoryDispatcher()}
	record := func(_ context.Context, e events.Event) error {
		f.seen = append(f.seen, e)
		return nil
	}
	for _, et := range []events.EventType{events.EventJobCreated, events.EventJobStatusChanged, events.EventJobRated} {
		f.d.Subscribe(et, record)
	}
	f.svc = NewJobService(JobDependencies{
		Store:           f.st,
		Gateway:         f.gw,
		Dispatcher:      f.d,
		Recorder:        observability.NoopRecorder{},
		Logger:          zap.NewNop(),
		Clock:           fixedClock(),
		RequireApproval: requireApproval,
	})
	return f
}

func (f *jobFixture) signIn(u domain.User) {
	f.st.Dispatch(store.SetUser{User: u})
}

func hvacDraft() domain.JobDraft {
	return domain.JobDraft{
		Description:     "AC broken",
		Address:         "123 Main St",
		PreferredDate:   testNow.Format(domain.PreferredDateLayout),
		ServiceCategory: domain.CategoryHVAC,
	}
}

func TestJobService_EndToEndLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	cust := customer("cust-1")
	pro := professional("pro-1", true, domain.CategoryHVAC)

	f.signIn(cust)
	job, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusPending, job.Status)
	require.Nil(t, job.ProfessionalID)
	require.Equal(t, "cust-1", job.CustomerID)

	f.signIn(pro)
	job, err = f.svc.Accept(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusAccepted, job.Status)
	require.Equal(t, "pro-1", *job.ProfessionalID)

	job, err = f.svc.Start(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusInProgress, job.Status)

	job, err = f.svc.Complete(ctx, job.ID, 150)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCompleted, job.Status)
	require.Equal(t, 150.0, *job.FinalPrice)
	require.NotNil(t, job.CompletedAt)

	f.signIn(cust)
	job, err = f.svc.Rate(ctx, job.ID, 5, "great")
	require.NoError(t, err)
	require.Equal(t, 5, *job.Rating)
	require.Equal(t, "great", *job.Review)

	before, _ := f.st.State().JobByID(job.ID)
	_, err = f.svc.Rate(ctx, job.ID, 4, "again")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))
	after, _ := f.st.State().JobByID(job.ID)
	require.Equal(t, before, after)

	types := make([]events.EventType, 0, len(f.seen))
	for _, e := range f.seen {
		types = append(types, e.Type)
	}
	require.Equal(t, []events.EventType{
		events.EventJobCreated,
		events.EventJobStatusChanged,
		events.EventJobStatusChanged,
		events.EventJobStatusChanged,
		events.EventJobRated,
	}, types)
	require.Len(t, f.gw.submitted, 5)
}

func TestJobService_CreateJobNewestFirstWithIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))

	first, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)
	second, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)

	a, _ := strconv.ParseInt(first.ID, 10, 64)
	b, _ := strconv.ParseInt(second.ID, 10, 64)
	require.Greater(t, b, a)

	jobs := f.st.State().Jobs.Jobs
	require.Equal(t, second.ID, jobs[0].ID)
	require.Equal(t, first.ID, jobs[1].ID)
}

func TestJobService_CreateJobRequiresCustomer(t *testing.T) {
	f := newJobFixture(t, false)

	_, err := f.svc.CreateJob(context.Background(), hvacDraft())
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	f.signIn(professional("pro-1", true, domain.CategoryHVAC))
	_, err = f.svc.CreateJob(context.Background(), hvacDraft())
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestJobService_CreateJobValidation(t *testing.T) {
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	draft := hvacDraft()
	draft.Description = " "
	draft.Photos = []string{"a", "b", "c", "d"}

	_, err := f.svc.CreateJob(context.Background(), draft)
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	details := apperrors.ToDomainError(err).Details
	require.Contains(t, details, "description")
	require.Contains(t, details, "photos")
	require.Empty(t, f.st.State().Jobs.Jobs)
}

func TestJobService_CollaboratorFailureBecomesSetError(t *testing.T) {
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	f.gw.submitErr = apperrors.NewUnavailable("submit_job failed", errors.New("offline"))

	_, err := f.svc.CreateJob(context.Background(), hvacDraft())
	require.Error(t, err)

	jobs := f.st.State().Jobs
	require.Empty(t, jobs.Jobs)
	require.False(t, jobs.IsLoading)
	require.NotNil(t, jobs.Error)
	require.Equal(t, "submit_job failed", *jobs.Error)

	f.gw.submitErr = nil
	_, err = f.svc.CreateJob(context.Background(), hvacDraft())
	require.NoError(t, err)
	require.Nil(t, f.st.State().Jobs.Error)
}

func TestJobService_TransitionFailureLeavesJobUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	job, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)
	before := f.st.State()

	f.signIn(professional("pro-2", true, domain.CategoryPlumbing))
	_, err = f.svc.Accept(ctx, job.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = f.svc.Start(ctx, job.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))

	got, _ := f.st.State().JobByID(job.ID)
	want, _ := before.JobByID(job.ID)
	require.Equal(t, want, got)

	_, err = f.svc.Accept(ctx, "missing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestJobService_ApprovalPolicy(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name     string
		require  bool
		approved bool
		wantErr  bool
	}{
		{"policy off, unapproved", false, false, false},
		{"policy on, unapproved", true, false, true},
		{"policy on, approved", true, true, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newJobFixture(t, tc.require)
			f.signIn(customer("cust-1"))
			job, err := f.svc.CreateJob(ctx, hvacDraft())
			require.NoError(t, err)

			f.signIn(professional("pro-1", tc.approved, domain.CategoryHVAC))
			_, err = f.svc.Accept(ctx, job.ID)
			if tc.wantErr {
				require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestJobService_FeedByRole(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	hvac, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)
	plumbing := hvacDraft()
	plumbing.ServiceCategory = domain.CategoryPlumbing
	_, err = f.svc.CreateJob(ctx, plumbing)
	require.NoError(t, err)

	views, err := f.svc.Feed(FeedQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "Just now", views[0].PostedAgo)
	require.Contains(t, views[0].Distance, "miles away")
	require.Equal(t, []lifecycle.EventType{lifecycle.EventAccept, lifecycle.EventCancel}, views[0].AllowedEvents)

	views, err = f.svc.Feed(FeedQuery{Category: feed.CategoryFilter(domain.CategoryHVAC)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, hvac.ID, views[0].Job.ID)

	f.signIn(professional("pro-1", true, domain.CategoryHVAC))
	views, err = f.svc.Feed(FeedQuery{Available: true})
	require.NoError(t, err)
	require.Len(t, views, 1)

	views, err = f.svc.Feed(FeedQuery{})
	require.NoError(t, err)
	require.Empty(t, views)

	f.signIn(customer("cust-2"))
	views, err = f.svc.Feed(FeedQuery{})
	require.NoError(t, err)
	require.Empty(t, views)
	_, err = f.svc.Get(hvac.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestJobService_RefreshAndSelect(t *testing.T) {
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	f.gw.jobs = []domain.Job{
		{ID: "2", CustomerID: "cust-1", ServiceCategory: domain.CategoryHVAC, Status: domain.JobStatusPending, CreatedAt: testNow},
		{ID: "1", CustomerID: "cust-1", ServiceCategory: domain.CategoryPlumbing, Status: domain.JobStatusPending, CreatedAt: testNow.Add(-1)},
	}

	jobs, err := f.svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	selected, err := f.svc.Select("1")
	require.NoError(t, err)
	require.Equal(t, "1", selected.ID)
	require.Equal(t, "1", f.st.State().Jobs.CurrentJob.ID)

	f.svc.ClearSelection()
	require.Nil(t, f.st.State().Jobs.CurrentJob)

	f.gw.fetchErr = errors.New("offline")
	_, err = f.svc.Refresh(context.Background())
	require.Error(t, err)
	require.Len(t, f.st.State().Jobs.Jobs, 2)
	require.NotNil(t, f.st.State().Jobs.Error)
}

func TestJobIDGenerator_StrictlyIncreasing(t *testing.T) {
	gen := NewJobIDGenerator(fixedClock())
	prev := int64(0)
	for i := 0; i < 100; i++ {
		id, err := strconv.ParseInt(gen.Next(), 10, 64)
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

func (f *jobFixture) completedJob(t *testing.T) (domain.Job, domain.User) {
	t.Helper()
	ctx := context.Background()
	cust := customer("cust-1")
	f.signIn(cust)
	job, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)

	f.signIn(professional("pro-1", true, domain.CategoryHVAC))
	_, err = f.svc.Accept(ctx, job.ID)
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, job.ID)
	require.NoError(t, err)
	job, err = f.svc.Complete(ctx, job.ID, 150)
	require.NoError(t, err)
	f.signIn(cust)
	return job, cust
}

func TestJobService_ConcurrentRatingsApplyOnce(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	job, _ := f.completedJob(t)
	f.seen = nil

	entered, release := f.gw.hold()
	type result struct {
		job domain.Job
		err error
	}
	done := make(chan result, 1)
	go func() {
		j, err := f.svc.Rate(ctx, job.ID, 5, "great")
		done <- result{j, err}
	}()
	<-entered

	_, err := f.svc.Rate(ctx, job.ID, 1, "terrible")
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	release()
	first := <-done
	require.NoError(t, first.err)
	require.Equal(t, 5, *first.job.Rating)

	_, err = f.svc.Rate(ctx, job.ID, 1, "terrible")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))

	stored, _ := f.st.State().JobByID(job.ID)
	require.Equal(t, 5, *stored.Rating)
	require.Equal(t, "great", *stored.Review)
	require.Len(t, f.seen, 1)
	require.Equal(t, events.EventJobRated, f.seen[0].Type)
}

func TestJobService_ConcurrentStartAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	job, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)
	f.signIn(professional("pro-1", true, domain.CategoryHVAC))
	_, err = f.svc.Accept(ctx, job.ID)
	require.NoError(t, err)

	entered, release := f.gw.hold()
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Start(ctx, job.ID)
		done <- err
	}()
	<-entered

	_, err = f.svc.Cancel(ctx, job.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	release()
	require.NoError(t, <-done)
	stored, _ := f.st.State().JobByID(job.ID)
	require.Equal(t, domain.JobStatusInProgress, stored.Status)
}

func TestJobService_RefreshDuringTransitionWins(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t, false)
	f.signIn(customer("cust-1"))
	job, err := f.svc.CreateJob(ctx, hvacDraft())
	require.NoError(t, err)

	cancelled := job.Clone()
	cancelled.Status = domain.JobStatusCancelled
	f.gw.mu.Lock()
	f.gw.jobs = []domain.Job{cancelled}
	f.gw.mu.Unlock()

	f.signIn(professional("pro-1", true, domain.CategoryHVAC))
	entered, release := f.gw.hold()
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Accept(ctx, job.ID)
		done <- err
	}()
	<-entered

	_, err = f.svc.Refresh(ctx)
	require.NoError(t, err)
	release()

	err = <-done
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))
	stored, _ := f.st.State().JobByID(job.ID)
	require.Equal(t, domain.JobStatusCancelled, stored.Status)
	require.Nil(t, stored.ProfessionalID)
}
