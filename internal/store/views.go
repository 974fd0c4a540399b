package store

import "github.com/existflow/controlcentre/internal/model"

// TaskCounts is the dashboard summary for one board.
type TaskCounts struct {
	Done  int
	Total int
}

// CountTasks returns done/total counts for a board.
func CountTasks(s model.State, projectID string) TaskCounts {
	c := TaskCounts{}
	for _, t := range s.Tasks[projectID] {
		c.Total++
		if t.Status == model.StatusDone {
			c.Done++
		}
	}
	return c
}

// TasksByStatus groups a board's tasks into the three workflow columns,
// preserving insertion order within each column.
func TasksByStatus(s model.State, projectID string) map[string][]model.Task {
	columns := map[string][]model.Task{
		model.StatusPending:    {},
		model.StatusInProgress: {},
		model.StatusDone:       {},
	}
	for _, t := range s.Tasks[projectID] {
		status := t.Status
		if !model.ValidStatus(status) {
			status = model.StatusPending
		}
		columns[status] = append(columns[status], t)
	}
	return columns
}
