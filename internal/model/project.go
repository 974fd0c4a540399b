package model

// Project is a board that owns an ordered list of tasks.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	GithubRepo string `json:"githubRepo"`
	CreatedAt  int64  `json:"createdAt"` // unix milliseconds
}
