// Package syncer orchestrates the state container, the local snapshot file
// and the remote document store: hydrate from remote on start (falling back
// to whatever the store was seeded with), mirror every change to local
// storage, and push local edits (and only local edits) to the remote.
package syncer

import (
	"context"
	"sync"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/store"
)

// LocalStore is the durable local slot for the snapshot.
type LocalStore interface {
	Load() model.State
	Save(model.State)
}

// RemoteStore is the remote document store adapter.
type RemoteStore interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, state model.State) error
	Subscribe(onChange func(model.State)) (func(), error)
}

// Controller wires the store to both adapters for the lifetime of a
// session. Construct with New, call Start once, Stop on teardown.
type Controller struct {
	store  *store.Store
	local  LocalStore
	remote RemoteStore

	mu       sync.Mutex
	pushOpen bool
	pushes   sync.WaitGroup

	unsubStore  func()
	unsubRemote func()
}

// New creates a controller. The store should already be seeded with the
// local snapshot; Start layers the remote state on top of it.
func New(st *store.Store, local LocalStore, remote RemoteStore) *Controller {
	return &Controller{store: st, local: local, remote: remote}
}

// Start performs the initial remote load, hydrates the store when a
// snapshot exists, opens the push gate, and subscribes to ongoing remote
// changes. The gate stays shut until the load attempt resolves, success or
// failure, so a starting client never overwrites remote data with a stale
// local copy.
func (c *Controller) Start(ctx context.Context) {
	c.unsubStore = c.store.Subscribe(c.onStoreChange)

	snapshot, err := c.remote.Load(ctx)
	if err != nil {
		logger.Warn("initial remote load failed, using local state", logger.F("error", err))
	}
	if snapshot != nil {
		c.store.ApplyRemote(*snapshot)
	}

	c.mu.Lock()
	c.pushOpen = true
	c.mu.Unlock()

	unsub, err := c.remote.Subscribe(c.store.ApplyRemote)
	if err != nil {
		logger.Warn("remote subscription unavailable", logger.F("error", err))
		return
	}
	c.unsubRemote = unsub
}

// Stop tears down the remote subscription and the store listener, then
// waits for any in-flight pushes to finish.
func (c *Controller) Stop() {
	if c.unsubRemote != nil {
		c.unsubRemote()
		c.unsubRemote = nil
	}
	if c.unsubStore != nil {
		c.unsubStore()
		c.unsubStore = nil
	}
	c.pushes.Wait()
}

// onStoreChange runs after every state change. Local persistence is
// unconditional once the state has content; the remote push happens only
// for local-origin changes, so an incoming hydration never echoes back.
func (c *Controller) onStoreChange(state model.State, origin store.Origin) {
	if !state.IsEmpty() {
		c.local.Save(state)
	}

	if origin != store.OriginLocal {
		return
	}
	c.mu.Lock()
	open := c.pushOpen
	c.mu.Unlock()
	if !open {
		return
	}

	// The listener runs inside Dispatch, so the push goes to a goroutine
	// to keep mutations from stalling on the network.
	c.pushes.Add(1)
	go func() {
		defer c.pushes.Done()
		if err := c.remote.Save(context.Background(), state); err != nil {
			logger.Warn("remote push failed", logger.F("error", err))
		}
	}()
}
