package store

import (
	"sync"

	"github.com/existflow/controlcentre/internal/model"
)

// Origin says where a state change came from. Persistence side effects are
// wired to local-origin changes only, which is what keeps a remote update
// from echoing straight back to the remote store.
type Origin int

const (
	// OriginLocal marks a change produced by a dispatched action.
	OriginLocal Origin = iota
	// OriginRemote marks a hydration applied from a remote snapshot.
	OriginRemote
)

// Listener receives the new snapshot after every state change.
type Listener func(state model.State, origin Origin)

// Store is the state container. It is constructed explicitly and handed to
// consumers; there is no package-level instance. Actions apply atomically:
// the reducer runs under the lock, so no two applications interleave.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	reducer   Reducer
	state     model.State
	listeners map[int]Listener
	nextID    int
}

// New creates a store seeded with the given snapshot.
func New(initial model.State) *Store {
	return NewWithReducer(initial, NewReducer())
}

// NewWithReducer creates a store with a caller-supplied reducer, letting
// tests pin the id generator and clock.
func NewWithReducer(initial model.State, r Reducer) *Store {
	return &Store{
		reducer:   r,
		state:     initial.Normalize().Clone(),
		listeners: map[int]Listener{},
	}
}

// Dispatch applies a local action and notifies listeners with OriginLocal.
func (s *Store) Dispatch(action Action) {
	s.apply(action, OriginLocal)
}

// ApplyRemote replaces the state with a remote snapshot and notifies
// listeners with OriginRemote. This is the hydration entry point.
func (s *Store) ApplyRemote(snapshot model.State) {
	s.apply(Hydrate{Snapshot: snapshot}, OriginRemote)
}

func (s *Store) apply(action Action, origin Origin) {
	s.mu.Lock()
	s.state = s.reducer.Apply(s.state, action)
	snapshot := s.state.Clone()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	// Taking the notify lock before releasing the state lock keeps
	// deliveries in apply order, without holding the state lock through
	// the callbacks themselves.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range fns {
		fn(snapshot, origin)
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers a change listener and returns its unsubscribe
// function. Listeners run synchronously after the change settles, and
// successive snapshots arrive in the order the changes applied. A listener
// must not dispatch back into the store.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
