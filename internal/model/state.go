package model

// State is the whole application snapshot. The reducer is its sole writer;
// adapters only read it on load and write it on change.
type State struct {
	Projects      []Project             `json:"projects"`
	Tasks         map[string][]Task     `json:"tasks"`
	Protocols     []Protocol            `json:"protocols"`
	ProtocolFiles map[string]Attachment `json:"protocolFiles"`
}

// DefaultState returns the empty snapshot.
func DefaultState() State {
	return State{
		Projects:      []Project{},
		Tasks:         map[string][]Task{},
		Protocols:     []Protocol{},
		ProtocolFiles: map[string]Attachment{},
	}
}

// IsEmpty reports whether the state is indistinguishable from the default
// snapshot. Used to guard the first local write after startup.
func (s State) IsEmpty() bool {
	return len(s.Projects) == 0 && len(s.Tasks) == 0 &&
		len(s.Protocols) == 0 && len(s.ProtocolFiles) == 0
}

// Normalize fills in collections a partial snapshot may omit: nil top-level
// keys become empty, and every project gets a task-list entry.
func (s State) Normalize() State {
	out := s
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.Tasks == nil {
		out.Tasks = map[string][]Task{}
	}
	if out.Protocols == nil {
		out.Protocols = []Protocol{}
	}
	if out.ProtocolFiles == nil {
		out.ProtocolFiles = map[string]Attachment{}
	}
	for _, p := range out.Projects {
		if _, ok := out.Tasks[p.ID]; !ok {
			out.Tasks[p.ID] = []Task{}
		}
	}
	return out
}

// Clone returns a deep copy so callers can hold a snapshot without racing
// the container.
func (s State) Clone() State {
	out := State{
		Projects:      make([]Project, len(s.Projects)),
		Tasks:         make(map[string][]Task, len(s.Tasks)),
		Protocols:     make([]Protocol, len(s.Protocols)),
		ProtocolFiles: make(map[string]Attachment, len(s.ProtocolFiles)),
	}
	copy(out.Projects, s.Projects)
	for pid, list := range s.Tasks {
		tasks := make([]Task, len(list))
		copy(tasks, list)
		out.Tasks[pid] = tasks
	}
	for i, p := range s.Protocols {
		cp := p
		cp.TaggedUserIDs = append([]string(nil), p.TaggedUserIDs...)
		cp.FileIDs = append([]string(nil), p.FileIDs...)
		out.Protocols[i] = cp
	}
	for id, f := range s.ProtocolFiles {
		cf := f
		cf.Content = append([]byte(nil), f.Content...)
		out.ProtocolFiles[id] = cf
	}
	return out
}

// Project returns the project with the given id, if present.
func (s State) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
