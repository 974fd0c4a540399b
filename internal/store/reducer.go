package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/controlcentre/internal/model"
)

// Reducer turns (state, action) into the next state. Apply is pure apart
// from the injected id and clock sources, which tests may pin.
type Reducer struct {
	NewID func() string
	Now   func() time.Time
}

// NewReducer returns a reducer with real id and clock sources.
func NewReducer() Reducer {
	return Reducer{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Apply computes the next state. It is total: invalid or unmatched actions
// return the state unchanged, never an error. The input state is not
// mutated.
func (r Reducer) Apply(state model.State, action Action) model.State {
	switch a := action.(type) {
	case AddProject:
		return r.addProject(state, a)
	case EditProject:
		return r.editProject(state, a)
	case DeleteProject:
		return r.deleteProject(state, a)
	case AddTask:
		return r.addTask(state, a)
	case EditTask:
		return r.editTask(state, a)
	case DeleteTask:
		return r.deleteTask(state, a)
	case AddProtocol:
		return r.addProtocol(state, a)
	case DeleteProtocol:
		return r.deleteProtocol(state, a)
	case Hydrate:
		return a.Snapshot.Normalize().Clone()
	default:
		return state
	}
}

func (r Reducer) addProject(state model.State, a AddProject) model.State {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return state
	}
	next := state.Clone()
	id := r.NewID()
	next.Projects = append(next.Projects, model.Project{
		ID:         id,
		Name:       name,
		GithubRepo: a.GithubRepo,
		CreatedAt:  r.Now().UnixMilli(),
	})
	next.Tasks[id] = []model.Task{}
	return next
}

func (r Reducer) editProject(state model.State, a EditProject) model.State {
	if _, ok := state.Project(a.ID); !ok {
		return state
	}
	next := state.Clone()
	for i, p := range next.Projects {
		if p.ID != a.ID {
			continue
		}
		if a.Name != nil && strings.TrimSpace(*a.Name) != "" {
			p.Name = strings.TrimSpace(*a.Name)
		}
		if a.GithubRepo != nil {
			p.GithubRepo = *a.GithubRepo
		}
		next.Projects[i] = p
	}
	return next
}

func (r Reducer) deleteProject(state model.State, a DeleteProject) model.State {
	next := state.Clone()
	kept := next.Projects[:0]
	for _, p := range next.Projects {
		if p.ID != a.ID {
			kept = append(kept, p)
		}
	}
	next.Projects = kept
	delete(next.Tasks, a.ID)
	return next
}

func (r Reducer) addTask(state model.State, a AddTask) model.State {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return state
	}
	next := state.Clone()
	task := model.Task{
		ID:          r.NewID(),
		ProjectID:   a.ProjectID,
		Title:       title,
		Description: a.Description,
		Status:      model.StatusPending,
		CreatedAt:   r.Now().UnixMilli(),
	}
	next.Tasks[a.ProjectID] = append(next.Tasks[a.ProjectID], task)
	return next
}

func (r Reducer) editTask(state model.State, a EditTask) model.State {
	list, ok := state.Tasks[a.ProjectID]
	if !ok {
		return state
	}
	found := false
	for _, t := range list {
		if t.ID == a.TaskID {
			found = true
			break
		}
	}
	if !found {
		return state
	}
	next := state.Clone()
	tasks := next.Tasks[a.ProjectID]
	for i, t := range tasks {
		if t.ID != a.TaskID {
			continue
		}
		if a.Title != nil && strings.TrimSpace(*a.Title) != "" {
			t.Title = strings.TrimSpace(*a.Title)
		}
		if a.Description != nil {
			t.Description = *a.Description
		}
		if a.Status != nil && model.ValidStatus(*a.Status) {
			t.Status = *a.Status
		}
		tasks[i] = t
	}
	return next
}

func (r Reducer) deleteTask(state model.State, a DeleteTask) model.State {
	list, ok := state.Tasks[a.ProjectID]
	if !ok {
		return state
	}
	next := state.Clone()
	kept := make([]model.Task, 0, len(list))
	for _, t := range next.Tasks[a.ProjectID] {
		if t.ID != a.TaskID {
			kept = append(kept, t)
		}
	}
	next.Tasks[a.ProjectID] = kept
	return next
}

func (r Reducer) addProtocol(state model.State, a AddProtocol) model.State {
	if len(a.Files) > model.MaxAttachmentCount {
		return state
	}
	for _, f := range a.Files {
		if len(f.Content) > model.MaxAttachmentSize {
			return state
		}
	}
	next := state.Clone()
	fileIDs := make([]string, 0, len(a.Files))
	for _, f := range a.Files {
		fid := r.NewID()
		fileIDs = append(fileIDs, fid)
		next.ProtocolFiles[fid] = model.Attachment{
			Name:     f.Name,
			MimeType: f.MimeType,
			Size:     int64(len(f.Content)),
			Content:  append([]byte(nil), f.Content...),
		}
	}
	tagged := a.TaggedUserIDs
	if tagged == nil {
		tagged = []string{}
	}
	next.Protocols = append(next.Protocols, model.Protocol{
		ID:            r.NewID(),
		Description:   a.Description,
		AuthorID:      a.AuthorID,
		TaggedUserIDs: tagged,
		FileIDs:       fileIDs,
		CreatedAt:     r.Now().UnixMilli(),
	})
	return next
}

func (r Reducer) deleteProtocol(state model.State, a DeleteProtocol) model.State {
	next := state.Clone()
	kept := next.Protocols[:0]
	for _, p := range next.Protocols {
		if p.ID != a.ID {
			kept = append(kept, p)
			continue
		}
		for _, fid := range p.FileIDs {
			delete(next.ProtocolFiles, fid)
		}
	}
	next.Protocols = kept
	return next
}
