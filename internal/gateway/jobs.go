package gateway

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/homeservices/internal/domain"
)

// SimulatedJobs is an in-process stand-in for the remote job backend.
type SimulatedJobs struct {
	sim *Simulator

	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// NewSimulatedJobs builds the job collaborator preloaded with seed.
func NewSimulatedJobs(sim *Simulator, seed ...domain.Job) *SimulatedJobs {
	g := &SimulatedJobs{sim: sim, jobs: make(map[string]domain.Job, len(seed))}
	for _, job := range seed {
		g.jobs[job.ID] = job.Clone()
	}
	return g
}

// FetchJobs returns every known job, newest first.
func (g *SimulatedJobs) FetchJobs(ctx context.Context) ([]domain.Job, error) {
	if err := g.sim.call(ctx, OpFetchJobs); err != nil {
		return nil, err
	}

	g.mu.RLock()
	out := make([]domain.Job, 0, len(g.jobs))
	for _, job := range g.jobs {
		out = append(out, job.Clone())
	}
	g.mu.RUnlock()

	sort.SliceStable(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID > out[k].ID
		}
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out, nil
}

// SubmitJob stores or replaces job.
func (g *SimulatedJobs) SubmitJob(ctx context.Context, job domain.Job) error {
	if err := g.sim.call(ctx, OpSubmitJob); err != nil {
		return err
	}
	g.mu.Lock()
	g.jobs[job.ID] = job.Clone()
	g.mu.Unlock()
	return nil
}
