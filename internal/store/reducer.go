package store

import (
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/lifecycle"
)

// Reduce applies action to state and returns a new snapshot. It never
// modifies state and always returns a fresh pointer, even when nothing
// changed.
func Reduce(state *State, action Action) *State {
	if state == nil {
		state = Initial()
	}
	if action == nil {
		next := *state
		return &next
	}
	next := action.reduce(*state)
	return &next
}

func (a SetUser) reduce(s State) State {
	u := a.User.Clone()
	s.Auth.User = &u
	s.Auth.IsAuthenticated = true
	s.Auth.Error = nil
	return s
}

func (ClearUser) reduce(s State) State {
	s.Auth.User = nil
	s.Auth.IsAuthenticated = false
	return s
}

func (a SetAuthLoading) reduce(s State) State {
	s.Auth.IsLoading = a.Loading
	return s
}

func (a SetAuthError) reduce(s State) State {
	s.Auth.Error = copyString(a.Message)
	return s
}

// AddJob prepends; an existing entry with the same ID is dropped so the
// list stays unique by ID.
func (a AddJob) reduce(s State) State {
	jobs := make([]domain.Job, 0, len(s.Jobs.Jobs)+1)
	jobs = append(jobs, a.Job.Clone())
	for _, j := range s.Jobs.Jobs {
		if j.ID != a.Job.ID {
			jobs = append(jobs, j)
		}
	}
	s.Jobs.Jobs = jobs
	if s.Jobs.CurrentJob != nil && s.Jobs.CurrentJob.ID == a.Job.ID {
		current := a.Job.Clone()
		s.Jobs.CurrentJob = &current
	}
	return s
}

func (a UpdateJob) reduce(s State) State {
	return replaceJob(s, a.Job)
}

func (a SetJobs) reduce(s State) State {
	jobs := make([]domain.Job, 0, len(a.Jobs))
	seen := make(map[string]struct{}, len(a.Jobs))
	for _, j := range a.Jobs {
		if _, dup := seen[j.ID]; dup {
			continue
		}
		seen[j.ID] = struct{}{}
		jobs = append(jobs, j.Clone())
	}
	s.Jobs.Jobs = jobs
	if s.Jobs.CurrentJob != nil {
		s.Jobs.CurrentJob = findJob(jobs, s.Jobs.CurrentJob.ID)
	}
	return s
}

func (a SetLoading) reduce(s State) State {
	s.Jobs.IsLoading = a.Loading
	return s
}

func (a SetError) reduce(s State) State {
	s.Jobs.Error = copyString(a.Message)
	return s
}

func (a SelectJob) reduce(s State) State {
	s.Jobs.CurrentJob = findJob(s.Jobs.Jobs, a.ID)
	return s
}

func (ClearSelectedJob) reduce(s State) State {
	s.Jobs.CurrentJob = nil
	return s
}

func (a ApplyTransition) reduce(s State) State {
	current := findJob(s.Jobs.Jobs, a.Job.ID)
	if current == nil {
		return s
	}
	if a.From != "" && current.Status != a.From {
		return s
	}
	if a.Event == lifecycle.EventRate && current.Rating != nil {
		return s
	}
	return replaceJob(s, a.Job)
}

func (a AddMessage) reduce(s State) State {
	msgs := make([]domain.Message, 0, len(s.Chat.Messages)+1)
	msgs = append(msgs, s.Chat.Messages...)
	msgs = append(msgs, a.Message)
	s.Chat.Messages = msgs
	return s
}

func (a SetMessages) reduce(s State) State {
	msgs := make([]domain.Message, len(a.Messages))
	copy(msgs, a.Messages)
	s.Chat.Messages = msgs
	return s
}

func (a SetChatLoading) reduce(s State) State {
	s.Chat.IsLoading = a.Loading
	return s
}

func (a SetChatError) reduce(s State) State {
	s.Chat.Error = copyString(a.Message)
	return s
}

// replaceJob swaps the entry with job.ID, keeping order. An unknown ID
// leaves the list as it was.
func replaceJob(s State, job domain.Job) State {
	idx := -1
	for i := range s.Jobs.Jobs {
		if s.Jobs.Jobs[i].ID == job.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	jobs := make([]domain.Job, len(s.Jobs.Jobs))
	copy(jobs, s.Jobs.Jobs)
	jobs[idx] = job.Clone()
	s.Jobs.Jobs = jobs
	if s.Jobs.CurrentJob != nil && s.Jobs.CurrentJob.ID == job.ID {
		current := job.Clone()
		s.Jobs.CurrentJob = &current
	}
	return s
}

func findJob(jobs []domain.Job, id string) *domain.Job {
	for i := range jobs {
		if jobs[i].ID == id {
			j := jobs[i].Clone()
			return &j
		}
	}
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
