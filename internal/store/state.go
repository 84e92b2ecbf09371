// Package store holds the single authoritative application state. State
// changes only through dispatched actions; every dispatch publishes a new
// immutable snapshot.
package store

import "github.com/spec-kit/homeservices/internal/domain"

// AuthState is the session slice. IsAuthenticated is true exactly when
// User is non-nil.
type AuthState struct {
	User            *domain.User
	IsAuthenticated bool
	IsLoading       bool
	Error           *string
}

// JobState is the job collection slice. Jobs are unique by ID and ordered
// newest first.
type JobState struct {
	Jobs       []domain.Job
	CurrentJob *domain.Job
	IsLoading  bool
	Error      *string
}

// ChatState is the chat slice. Messages are append-only.
type ChatState struct {
	Messages  []domain.Message
	IsLoading bool
	Error     *string
}

// State is a snapshot of the whole tree. Snapshots are shared between
// readers and must be treated as read-only.
type State struct {
	Auth AuthState
	Jobs JobState
	Chat ChatState
}

// Initial returns the empty launch state.
func Initial() *State {
	return &State{
		Jobs: JobState{Jobs: []domain.Job{}},
		Chat: ChatState{Messages: []domain.Message{}},
	}
}

// JobByID looks a job up in the snapshot.
func (s *State) JobByID(id string) (domain.Job, bool) {
	if s == nil {
		return domain.Job{}, false
	}
	for _, j := range s.Jobs.Jobs {
		if j.ID == id {
			return j.Clone(), true
		}
	}
	return domain.Job{}, false
}

// MessagesForJob returns the thread of a job in append order.
func (s *State) MessagesForJob(jobID string) []domain.Message {
	if s == nil {
		return nil
	}
	out := []domain.Message{}
	for _, m := range s.Chat.Messages {
		if m.JobID == jobID {
			out = append(out, m)
		}
	}
	return out
}

// CurrentUser returns a copy of the signed-in user.
func (s *State) CurrentUser() (domain.User, bool) {
	if s == nil || s.Auth.User == nil {
		return domain.User{}, false
	}
	return *s.Auth.User, true
}
