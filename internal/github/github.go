// Package github is a read-only wrapper around the GitHub commits API,
// used to stamp outbound notifications with the newest commit of a board's
// repository.
package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/settings"
)

const defaultBaseURL = "https://api.github.com"

// Client fetches commit information.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against api.github.com.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is for tests pointing at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// LatestCommit returns the short (7-char) hash of the newest commit on the
// default branch of the given repository, accepting "owner/repo" or a full
// GitHub URL. Any failure (bad slug, network error, non-200, empty
// history) yields "".
func (c *Client) LatestCommit(repo string) string {
	slug := settings.ParseRepo(repo)
	if slug == "" {
		return ""
	}

	url := fmt.Sprintf("%s/repos/%s/commits?per_page=1", c.baseURL, slug)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "ControlCentre-Tracker (https://github.com)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("commit lookup failed", logger.F("repo", slug), logger.F("error", err))
		return ""
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		logger.Debug("commit lookup rejected", logger.F("repo", slug), logger.F("status", resp.StatusCode))
		return ""
	}

	var commits []struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return ""
	}
	if len(commits) == 0 || commits[0].SHA == "" {
		return ""
	}
	sha := commits[0].SHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return sha
}
