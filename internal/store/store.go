package store

import "sync"

// Listener observes each dispatch after the new snapshot is published.
type Listener func(action Action, prev, next *State)

// Store owns the application state. Dispatches are applied one at a time
// in call order; readers only ever see whole snapshots.
type Store struct {
	mu        sync.Mutex
	state     *State
	listeners map[int]Listener
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithState seeds the store with an initial snapshot.
func WithState(s *State) Option {
	return func(st *Store) {
		if s != nil {
			st.state = s
		}
	}
}

// New creates a store holding the launch state.
func New(opts ...Option) *Store {
	st := &Store{
		state:     Initial(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// State returns the current snapshot.
func (st *Store) State() *State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Dispatch applies action and returns the new snapshot.
func (st *Store) Dispatch(action Action) *State {
	st.mu.Lock()
	prev := st.state
	next := Reduce(prev, action)
	st.state = next
	listeners := make([]Listener, 0, len(st.listeners))
	for id := 0; id < st.nextID; id++ {
		if fn, ok := st.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	st.mu.Unlock()

	for _, fn := range listeners {
		fn(action, prev, next)
	}
	return next
}

// Subscribe registers fn for every future dispatch. Listeners run in
// registration order. The returned func removes the listener.
func (st *Store) Subscribe(fn Listener) func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextID
	st.nextID++
	st.listeners[id] = fn
	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		delete(st.listeners, id)
	}
}
