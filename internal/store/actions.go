package store

import (
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/lifecycle"
)

// Action is a named state change. The set is closed: every action
// implements its own reduction, so adding one without a reduction does
// not compile.
type Action interface {
	Name() string
	reduce(s State) State
}

// SetUser signs a user in.
type SetUser struct{ User domain.User }

// ClearUser signs the current user out.
type ClearUser struct{}

// SetAuthLoading toggles the auth slice's loading flag.
type SetAuthLoading struct{ Loading bool }

// SetAuthError records or clears a sign-in failure.
type SetAuthError struct{ Message *string }

// AddJob prepends a newly created job.
type AddJob struct{ Job domain.Job }

// UpdateJob replaces the job with the same ID in place.
type UpdateJob struct{ Job domain.Job }

// SetJobs replaces the whole job list.
type SetJobs struct{ Jobs []domain.Job }

// SetLoading toggles the jobs slice's loading flag.
type SetLoading struct{ Loading bool }

// SetError records or clears a jobs slice failure.
type SetError struct{ Message *string }

// SelectJob makes the job with ID the current job.
type SelectJob struct{ ID string }

// ClearSelectedJob empties the current job.
type ClearSelectedJob struct{}

// ApplyTransition folds a lifecycle event already validated by
// lifecycle.Apply into state. Job is the transitioned job and From the
// status it was validated against; the action is dropped when the stored
// job has moved on since, or when a rate event meets an already rated job.
type ApplyTransition struct {
	Job   domain.Job
	Event lifecycle.EventType
	From  domain.JobStatus
}

// AddMessage appends a chat message.
type AddMessage struct{ Message domain.Message }

// SetMessages replaces the chat history.
type SetMessages struct{ Messages []domain.Message }

// SetChatLoading toggles the chat slice's loading flag.
type SetChatLoading struct{ Loading bool }

// SetChatError records or clears a chat failure.
type SetChatError struct{ Message *string }

func (SetUser) Name() string          { return "SetUser" }
func (ClearUser) Name() string        { return "ClearUser" }
func (SetAuthLoading) Name() string   { return "SetAuthLoading" }
func (SetAuthError) Name() string     { return "SetAuthError" }
func (AddJob) Name() string           { return "AddJob" }
func (UpdateJob) Name() string        { return "UpdateJob" }
func (SetJobs) Name() string          { return "SetJobs" }
func (SetLoading) Name() string       { return "SetLoading" }
func (SetError) Name() string         { return "SetError" }
func (SelectJob) Name() string        { return "SelectJob" }
func (ClearSelectedJob) Name() string { return "ClearSelectedJob" }
func (ApplyTransition) Name() string  { return "ApplyTransition" }
func (AddMessage) Name() string       { return "AddMessage" }
func (SetMessages) Name() string      { return "SetMessages" }
func (SetChatLoading) Name() string   { return "SetChatLoading" }
func (SetChatError) Name() string     { return "SetChatError" }

// ErrorMessage is a helper for the *string error fields.
func ErrorMessage(msg string) *string { return &msg }
