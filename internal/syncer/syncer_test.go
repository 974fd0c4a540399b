package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/store"
)

type fakeLocal struct {
	saved []model.State
}

func (f *fakeLocal) Load() model.State  { return model.DefaultState() }
func (f *fakeLocal) Save(s model.State) { f.saved = append(f.saved, s) }

type fakeRemote struct {
	loadState *model.State
	loadErr   error
	subErr    error

	// when set, Save blocks until the channel is closed
	saveGate chan struct{}

	mu       sync.Mutex
	saved    []model.State
	onChange func(model.State)
}

func (f *fakeRemote) Load(ctx context.Context) (*model.State, error) {
	return f.loadState, f.loadErr
}

func (f *fakeRemote) Save(ctx context.Context, s model.State) error {
	if f.saveGate != nil {
		<-f.saveGate
	}
	f.mu.Lock()
	f.saved = append(f.saved, s)
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) pushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeRemote) Subscribe(onChange func(model.State)) (func(), error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.onChange = onChange
	return func() { f.onChange = nil }, nil
}

func remoteSnapshot() *model.State {
	s := model.DefaultState()
	s.Projects = append(s.Projects, model.Project{ID: "p1", Name: "Remote board"})
	s.Tasks["p1"] = []model.Task{}
	return &s
}

func TestStartHydratesFromRemote(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{loadState: remoteSnapshot()}

	c := New(st, local, remote)
	c.Start(context.Background())
	c.Stop()

	snap := st.Snapshot()
	if len(snap.Projects) != 1 || snap.Projects[0].Name != "Remote board" {
		t.Fatalf("store not hydrated: %+v", snap.Projects)
	}
	if remote.pushes() != 0 {
		t.Fatalf("hydration echoed back to remote: %d pushes", remote.pushes())
	}
	if len(local.saved) != 1 {
		t.Fatalf("hydration not mirrored locally: %d saves", len(local.saved))
	}
}

func TestLocalActionPushesOnce(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{}

	c := New(st, local, remote)
	c.Start(context.Background())

	st.Dispatch(store.AddProject{Name: "Atlas"})
	c.Stop()

	if remote.pushes() != 1 {
		t.Fatalf("remote pushes = %d, want 1", remote.pushes())
	}
	if len(remote.saved[0].Projects) != 1 {
		t.Fatalf("pushed snapshot missing the new board")
	}
	if len(local.saved) != 1 {
		t.Fatalf("local saves = %d, want 1", len(local.saved))
	}
}

func TestRemotePushDoesNotBlockDispatch(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{saveGate: make(chan struct{})}

	c := New(st, local, remote)
	c.Start(context.Background())

	done := make(chan struct{})
	go func() {
		st.Dispatch(store.AddProject{Name: "Atlas"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch stalled behind the remote push")
	}
	if remote.pushes() != 0 {
		t.Fatalf("push completed while gated: %d", remote.pushes())
	}

	close(remote.saveGate)
	c.Stop()
	if remote.pushes() != 1 {
		t.Fatalf("remote pushes = %d, want 1", remote.pushes())
	}
}

func TestRemoteChangeDoesNotEcho(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{}

	c := New(st, local, remote)
	c.Start(context.Background())

	remote.onChange(*remoteSnapshot())
	c.Stop()

	if remote.pushes() != 0 {
		t.Fatalf("remote-origin change pushed back: %d", remote.pushes())
	}
	if len(local.saved) != 1 {
		t.Fatalf("remote change not mirrored locally")
	}
}

func TestLoadFailureStillOpensPushGate(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{loadErr: errors.New("server unreachable")}

	c := New(st, local, remote)
	c.Start(context.Background())

	st.Dispatch(store.AddProject{Name: "Offline board"})
	c.Stop()

	if remote.pushes() != 1 {
		t.Fatalf("push gate shut after failed load: %d pushes", remote.pushes())
	}
}

func TestEmptyStateIsNotPersistedLocally(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{}

	c := New(st, local, remote)
	c.Start(context.Background())
	defer c.Stop()

	// a no-op action still notifies, but the empty snapshot must not be written
	st.Dispatch(store.AddProject{Name: "   "})
	if len(local.saved) != 0 {
		t.Fatalf("empty snapshot written to disk")
	}
}

func TestStopUnsubscribes(t *testing.T) {
	st := store.New(model.DefaultState())
	local := &fakeLocal{}
	remote := &fakeRemote{}

	c := New(st, local, remote)
	c.Start(context.Background())
	c.Stop()

	if remote.onChange != nil {
		t.Fatalf("remote subscription still active after Stop")
	}
	st.Dispatch(store.AddProject{Name: "Atlas"})
	if remote.pushes() != 0 {
		t.Fatalf("store listener still active after Stop")
	}
}
