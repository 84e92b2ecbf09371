package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservices/internal/domain"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

var (
	created = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	later   = created.Add(time.Hour)

	owner    = Actor{ID: "cust-1", Role: domain.RoleCustomer}
	stranger = Actor{ID: "cust-2", Role: domain.RoleCustomer}
	pro      = Actor{ID: "pro-1", Role: domain.RoleProfessional, Categories: []domain.ServiceCategory{domain.CategoryHVAC}}
	otherPro = Actor{ID: "pro-2", Role: domain.RoleProfessional, Categories: []domain.ServiceCategory{domain.CategoryHVAC}}
	plumber  = Actor{ID: "pro-3", Role: domain.RoleProfessional, Categories: []domain.ServiceCategory{domain.CategoryPlumbing}}
)

func pendingJob() domain.Job {
	return domain.Job{
		ID:              "1760691600000",
		CustomerID:      owner.ID,
		ServiceCategory: domain.CategoryHVAC,
		Description:     "AC broken",
		Address:         "123 Main St",
		PreferredDate:   created,
		Status:          domain.JobStatusPending,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func jobIn(status domain.JobStatus) domain.Job {
	j := pendingJob()
	j.Status = status
	if status != domain.JobStatusPending && status != domain.JobStatusCancelled {
		id := pro.ID
		j.ProfessionalID = &id
	}
	return j
}

func eventFor(t EventType) Event {
	switch t {
	case EventAccept:
		return Accept(pro)
	case EventStart:
		return Start(pro)
	case EventComplete:
		return Complete(pro, 150)
	case EventCancel:
		return Cancel(owner)
	default:
		return Rate(owner, 5, "great")
	}
}

func TestApply_OnlyTableEdgesSucceed(t *testing.T) {
	statuses := []domain.JobStatus{
		domain.JobStatusPending,
		domain.JobStatusAccepted,
		domain.JobStatusInProgress,
		domain.JobStatusCompleted,
		domain.JobStatusCancelled,
	}
	legal := map[domain.JobStatus][]EventType{
		domain.JobStatusPending:    {EventAccept, EventCancel},
		domain.JobStatusAccepted:   {EventStart, EventCancel},
		domain.JobStatusInProgress: {EventComplete},
		domain.JobStatusCompleted:  {EventRate},
		domain.JobStatusCancelled:  nil,
	}

	for _, status := range statuses {
		require.Equal(t, legal[status], AllowedEvents(status), "allowed events from %s", status)
		for _, evType := range eventOrder {
			job := jobIn(status)
			before := job.Clone()

			next, err := Apply(job, eventFor(evType), later)
			if CanApply(status, evType) {
				require.NoError(t, err, "%s --%s-->", status, evType)
				require.Equal(t, later, next.UpdatedAt)
				continue
			}
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition), "%s --%s--> should be rejected", status, evType)
			require.Equal(t, before, next)
			require.Equal(t, before, job)
		}
	}
}

func TestApply_AcceptSetsProfessional(t *testing.T) {
	job := pendingJob()

	next, err := Apply(job, Accept(pro), later)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusAccepted, next.Status)
	require.NotNil(t, next.ProfessionalID)
	require.Equal(t, "pro-1", *next.ProfessionalID)
	require.Nil(t, job.ProfessionalID, "input must not be modified")
	require.Equal(t, created, job.UpdatedAt)
}

func TestApply_AcceptRequiresMatchingCategory(t *testing.T) {
	job := pendingJob()

	next, err := Apply(job, Accept(plumber), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	require.Equal(t, job, next)

	_, err = Apply(job, Accept(owner), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestApply_CancelRules(t *testing.T) {
	_, err := Apply(pendingJob(), Cancel(stranger), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = Apply(pendingJob(), Cancel(pro), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden), "only the owner cancels a pending job")

	accepted := jobIn(domain.JobStatusAccepted)
	next, err := Apply(accepted, Cancel(pro), later)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCancelled, next.Status)
	require.Nil(t, next.ProfessionalID)
	require.NotNil(t, accepted.ProfessionalID)

	next, err = Apply(accepted, Cancel(owner), later)
	require.NoError(t, err)
	require.Nil(t, next.ProfessionalID)

	_, err = Apply(accepted, Cancel(otherPro), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestApply_StartAndCompleteRequireAssignee(t *testing.T) {
	_, err := Apply(jobIn(domain.JobStatusAccepted), Start(otherPro), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = Apply(jobIn(domain.JobStatusInProgress), Complete(otherPro, 100), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestApply_CompleteValidatesPrice(t *testing.T) {
	job := jobIn(domain.JobStatusInProgress)

	next, err := Apply(job, Complete(pro, 0), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	require.Equal(t, job, next)
}

func TestApply_RateRules(t *testing.T) {
	completed := jobIn(domain.JobStatusCompleted)

	_, err := Apply(completed, Rate(stranger, 5, ""), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = Apply(completed, Rate(owner, 6, ""), later)
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	rated, err := Apply(completed, Rate(owner, 4, ""), later)
	require.NoError(t, err)
	require.Equal(t, 4, *rated.Rating)
	require.Nil(t, rated.Review)
}

func TestApply_EndToEndScenario(t *testing.T) {
	job := pendingJob()
	require.Nil(t, job.ProfessionalID)

	job, err := Apply(job, Accept(pro), later)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusAccepted, job.Status)
	require.Equal(t, "pro-1", *job.ProfessionalID)

	job, err = Apply(job, Start(pro), later.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusInProgress, job.Status)

	doneAt := later.Add(2 * time.Hour)
	job, err = Apply(job, Complete(pro, 150), doneAt)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCompleted, job.Status)
	require.Equal(t, 150.0, *job.FinalPrice)
	require.Equal(t, doneAt, *job.CompletedAt)

	job, err = Apply(job, Rate(owner, 5, "great"), doneAt.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 5, *job.Rating)
	require.Equal(t, "great", *job.Review)

	again, err := Apply(job, Rate(owner, 4, "changed my mind"), doneAt.Add(2*time.Hour))
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))
	require.Equal(t, job, again)
	require.True(t, IsTerminal(job.Status))
}

func TestActorFromUser(t *testing.T) {
	u := domain.NewProfessional("pro-1", "Pat", "pat@fix.it", domain.ProfessionalProfile{
		ServiceCategories: []domain.ServiceCategory{domain.CategoryHVAC},
	}, created)

	actor := ActorFromUser(u)
	require.Equal(t, domain.RoleProfessional, actor.Role)
	require.Equal(t, []domain.ServiceCategory{domain.CategoryHVAC}, actor.Categories)

	c := ActorFromUser(domain.NewCustomer("cust-1", "John", "j@x.io", "", created))
	require.Empty(t, c.Categories)
}
