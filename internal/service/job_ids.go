package service

import (
	"strconv"
	"sync"
)

// JobIDGenerator issues job IDs from the millisecond clock. IDs are
// strictly increasing within a process even when two jobs are created in
// the same millisecond or the clock steps backwards.
type JobIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  Clock
}

// NewJobIDGenerator builds a generator on clock.
func NewJobIDGenerator(clock Clock) *JobIDGenerator {
	return &JobIDGenerator{now: clockOrNow(clock)}
}

// Next returns the next ID.
func (g *JobIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
