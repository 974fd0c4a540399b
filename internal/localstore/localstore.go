// Package localstore persists the application snapshot to a single JSON
// file, the durable local slot. Persistence is best-effort: loads fall back
// to the default empty state and save failures are logged, never surfaced.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/model"
)

const snapshotFile = "state.json"

// Adapter reads and writes the snapshot file.
type Adapter struct {
	path string
}

// New creates an adapter for the given data directory.
func New(dataDir string) *Adapter {
	return &Adapter{path: filepath.Join(dataDir, snapshotFile)}
}

// Path returns the snapshot file location.
func (a *Adapter) Path() string {
	return a.path
}

// Load returns the last-written snapshot, or the default empty state when
// the file is absent or unreadable. It never fails.
func (a *Adapter) Load() model.State {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return model.DefaultState()
	}
	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("local snapshot unreadable, starting empty",
			logger.F("path", a.path), logger.F("error", err))
		return model.DefaultState()
	}
	return state.Normalize()
}

// Save writes the full snapshot. Failures are logged and swallowed.
func (a *Adapter) Save(state model.State) {
	data, err := json.Marshal(state)
	if err != nil {
		logger.Warn("failed to encode snapshot", logger.F("error", err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		logger.Warn("failed to create data directory",
			logger.F("path", a.path), logger.F("error", err))
		return
	}
	if err := os.WriteFile(a.path, data, 0600); err != nil {
		logger.Warn("failed to save snapshot",
			logger.F("path", a.path), logger.F("error", err))
	}
}
