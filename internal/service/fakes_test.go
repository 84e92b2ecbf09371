package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/store"
)

var testNow = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

func fixedClock() Clock { return func() time.Time { return testNow } }

type fakeAuthGateway struct {
	user domain.User
	err  error

	// observed is the auth slice seen while the call was in flight.
	observed store.AuthState
	st       *store.Store
}

func (f *fakeAuthGateway) SignIn(_ context.Context, _ domain.Credentials) (domain.User, error) {
	f.capture()
	return f.user, f.err
}

func (f *fakeAuthGateway) SignUp(_ context.Context, _ domain.Registration) (domain.User, error) {
	f.capture()
	return f.user, f.err
}

func (f *fakeAuthGateway) capture() {
	if f.st != nil {
		f.observed = f.st.State().Auth
	}
}

type fakeJobGateway struct {
	mu        sync.Mutex
	submitted []domain.Job
	jobs      []domain.Job
	submitErr error
	fetchErr  error

	// gate, when set, parks SubmitJob after signalling entered.
	gate    chan struct{}
	entered chan struct{}
}

// hold makes the next SubmitJob calls block until the returned func runs.
func (f *fakeJobGateway) hold() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	gate := f.gate
	return f.entered, func() { close(gate) }
}

func (f *fakeJobGateway) FetchJobs(context.Context) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Job(nil), f.jobs...), f.fetchErr
}

func (f *fakeJobGateway) SubmitJob(_ context.Context, job domain.Job) error {
	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, job)
	return nil
}

type fakePaymentGateway struct {
	calls int
	err   error
}

func (f *fakePaymentGateway) Charge(_ context.Context, jobID string, _ float64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "ref-" + jobID, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
}

func (r *recordingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = append(r.channels, channel)
	r.payloads = append(r.payloads, payload)
	return nil
}

func customer(id string) domain.User {
	return domain.NewCustomer(id, "Casey", id+"@example.com", "123 Main St", testNow)
}

func professional(id string, approved bool, cats ...domain.ServiceCategory) domain.User {
	u := domain.NewProfessional(id, "Pat", id+"@example.com", domain.ProfessionalProfile{
		BusinessName:      "Pat's",
		LicenseNumber:     "L",
		InsuranceNumber:   "I",
		ServiceCategories: cats,
	}, testNow)
	p, _ := u.Professional()
	p.IsApproved = approved
	u.Profile = p
	return u
}
