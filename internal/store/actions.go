package store

import "github.com/existflow/controlcentre/internal/model"

// Action is a request for a state transition. Every mutation of the
// snapshot funnels through Reducer.Apply with one of the types below.
type Action interface {
	actionKind() string
}

// FileInput is a to-be-ingested attachment. Size limits are re-checked by
// the reducer, not just by the submitting surface.
type FileInput struct {
	Name     string
	MimeType string
	Content  []byte
}

// AddProject creates a board. Name must be non-empty after trimming.
type AddProject struct {
	Name       string
	GithubRepo string
}

// EditProject updates only the supplied fields. Nil means "keep".
type EditProject struct {
	ID         string
	Name       *string
	GithubRepo *string
}

// DeleteProject removes a board and its whole task list.
type DeleteProject struct {
	ID string
}

// AddTask appends a pending task to a board.
type AddTask struct {
	ProjectID   string
	Title       string
	Description string
}

// EditTask updates only the supplied fields of an existing task.
type EditTask struct {
	ProjectID   string
	TaskID      string
	Title       *string
	Description *string
	Status      *string
}

// DeleteTask removes a single task.
type DeleteTask struct {
	ProjectID string
	TaskID    string
}

// AddProtocol posts an emergency-protocol entry with up to three files.
type AddProtocol struct {
	Description   string
	AuthorID      string
	TaggedUserIDs []string
	Files         []FileInput
}

// DeleteProtocol removes an entry together with all its attachments.
type DeleteProtocol struct {
	ID string
}

// Hydrate wholesale-replaces the state with a snapshot that arrived from
// the remote store. Never used for local edits.
type Hydrate struct {
	Snapshot model.State
}

func (AddProject) actionKind() string     { return "add_project" }
func (EditProject) actionKind() string    { return "edit_project" }
func (DeleteProject) actionKind() string  { return "delete_project" }
func (AddTask) actionKind() string        { return "add_task" }
func (EditTask) actionKind() string       { return "edit_task" }
func (DeleteTask) actionKind() string     { return "delete_task" }
func (AddProtocol) actionKind() string    { return "add_protocol" }
func (DeleteProtocol) actionKind() string { return "delete_protocol" }
func (Hydrate) actionKind() string        { return "hydrate" }
