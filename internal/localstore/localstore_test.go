package localstore

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/existflow/controlcentre/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	adapter := New(t.TempDir())

	state := model.DefaultState()
	state.Projects = append(state.Projects, model.Project{ID: "p1", Name: "Atlas", CreatedAt: 1700000000000})
	state.Tasks["p1"] = []model.Task{
		{ID: "t1", ProjectID: "p1", Title: "Fit thrusters", Status: model.StatusInProgress},
	}
	state.Protocols = append(state.Protocols, model.Protocol{
		ID: "proto-1", Description: "Hull breach", TaggedUserIDs: []string{"m1"}, FileIDs: []string{"f1"},
	})
	state.ProtocolFiles["f1"] = model.Attachment{
		Name: "hull.png", MimeType: "image/png", Size: 4, Content: []byte("data"),
	}

	adapter.Save(state)
	loaded := adapter.Load()
	if !reflect.DeepEqual(state, loaded) {
		t.Fatalf("round trip mismatch:\nwrote %+v\nread  %+v", state, loaded)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	adapter := New(filepath.Join(t.TempDir(), "never-created"))
	state := adapter.Load()
	if !state.IsEmpty() {
		t.Fatalf("missing file produced non-empty state: %+v", state)
	}
	if state.Tasks == nil || state.ProtocolFiles == nil {
		t.Fatalf("default state has nil collections")
	}
}

func TestLoadCorruptFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	adapter := New(dir)
	if err := os.WriteFile(adapter.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	state := adapter.Load()
	if !state.IsEmpty() {
		t.Fatalf("corrupt file produced non-empty state")
	}
}

func TestLoadNormalizesPartialSnapshot(t *testing.T) {
	dir := t.TempDir()
	adapter := New(dir)
	// a snapshot written by an older build may omit collections entirely
	if err := os.WriteFile(adapter.Path(), []byte(`{"projects":[{"id":"p1","name":"Atlas"}]}`), 0600); err != nil {
		t.Fatal(err)
	}
	state := adapter.Load()
	if _, ok := state.Tasks["p1"]; !ok {
		t.Fatalf("loaded project has no task list entry")
	}
	if state.Protocols == nil || state.ProtocolFiles == nil {
		t.Fatalf("omitted collections not initialized")
	}
}

func TestSaveCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	adapter := New(dir)
	state := model.DefaultState()
	state.Projects = append(state.Projects, model.Project{ID: "p1", Name: "Atlas"})
	adapter.Save(state)
	if _, err := os.Stat(adapter.Path()); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
}
