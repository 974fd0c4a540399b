package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/controlcentre/internal/model"
)

// findProject resolves a board by id, id prefix, or exact name.
func findProject(state model.State, ref string) (model.Project, error) {
	ref = strings.TrimSpace(ref)
	var matches []model.Project
	for _, p := range state.Projects {
		if p.ID == ref {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Project{}, fmt.Errorf("no board matches %q", ref)
	default:
		return model.Project{}, fmt.Errorf("board reference %q is ambiguous", ref)
	}
}

// findTask resolves a task on a board by id or id prefix.
func findTask(state model.State, projectID, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	var matches []model.Task
	for _, t := range state.Tasks[projectID] {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Task{}, fmt.Errorf("no task matches %q", ref)
	default:
		return model.Task{}, fmt.Errorf("task reference %q is ambiguous", ref)
	}
}

// shortID trims a uuid down to something printable in a listing.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
