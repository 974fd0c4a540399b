package model

// Task status workflow values
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Statuses lists the workflow states in board-column order.
var Statuses = []string{StatusPending, StatusInProgress, StatusDone}

// Task belongs to exactly one project for its lifetime.
type Task struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
}

// ValidStatus reports whether s is one of the workflow states.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
