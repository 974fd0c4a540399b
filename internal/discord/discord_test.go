package discord

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/settings"
)

type stubCommits struct {
	byRepo map[string]string
	calls  []string
}

func (s *stubCommits) LatestCommit(repo string) string {
	s.calls = append(s.calls, repo)
	return s.byRepo[repo]
}

func webhookService(t *testing.T, url string) *settings.Service {
	t.Helper()
	svc := settings.NewService(t.TempDir())
	require.NoError(t, svc.Update(func(s *settings.Settings) {
		s.DiscordEnabled = true
		s.DiscordWebhookURL = url
		s.TeamMembers = []model.TeamMember{{ID: "m1", Name: "Alex"}}
		s.CurrentUserID = "m1"
	}))
	return svc
}

func fieldValue(e embed, name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func receivedEmbed(t *testing.T, body []byte) embed {
	t.Helper()
	var req struct {
		Embeds []embed `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(body, &req))
	require.Len(t, req.Embeds, 1)
	return req.Embeds[0]
}

func TestSendDisabledDoesNothing(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	svc := webhookService(t, srv.URL)
	require.NoError(t, svc.Update(func(s *settings.Settings) { s.DiscordEnabled = false }))

	New(svc, nil).Send(EventProjectCreated, Payload{Name: "Atlas"})
	assert.Zero(t, hits)
}

func TestSendMissionEmbed(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	n := New(webhookService(t, srv.URL), nil)
	n.now = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }
	n.Send(EventProjectCreated, Payload{Name: "Atlas", OverrideCommit: "abc1234"})

	e := receivedEmbed(t, body)
	assert.Equal(t, "NEW BOARD DEPLOYED", e.Title)
	assert.Equal(t, colorMission, e.Color)
	assert.Contains(t, e.Description, "**Atlas**")
	assert.Equal(t, "THE CONTROL CENTRE • MISSION TRACKER", e.Footer.Text)

	operator, ok := fieldValue(e, "OPERATOR")
	require.True(t, ok)
	assert.Equal(t, "Alex", operator)
	day, _ := fieldValue(e, "DAY")
	assert.Equal(t, "Saturday", day)
	date, _ := fieldValue(e, "DATE")
	assert.Equal(t, "29 August 2026", date)
	commit, _ := fieldValue(e, "COMMIT")
	assert.Equal(t, "`abc1234`", commit)
}

func TestSendTaskEmbedCarriesBoardAndStatus(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	n := New(webhookService(t, srv.URL), nil)
	n.Send(EventTaskEdited, Payload{
		Title: "Fit thrusters", ProjectName: "Atlas",
		StatusChange: true, OldStatus: "pending", NewStatus: "done",
	})

	e := receivedEmbed(t, body)
	assert.Equal(t, "TASK UPDATED", e.Title)
	board, _ := fieldValue(e, "BOARD")
	assert.Equal(t, "Atlas", board)
	status, _ := fieldValue(e, "TASK STATUS")
	assert.Equal(t, "done", status)
	assert.Contains(t, e.Description, "**pending** → **done**")
}

func TestSendProtocolEmbed(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	n := New(webhookService(t, srv.URL), nil)
	n.Send(EventProtocolAdded, Payload{
		Description: "Hull breach on deck 3",
		TaggedNames: []string{"Alex", "Sam"},
		FileNames:   []string{"hull.png"},
		FileCount:   1,
	})

	e := receivedEmbed(t, body)
	assert.Equal(t, "EMERGENCY PROTOCOL POSTED", e.Title)
	assert.Equal(t, colorEmergency, e.Color)
	assert.Equal(t, "THE CONTROL CENTRE • EMERGENCY PROTOCOLS", e.Footer.Text)
	crew, _ := fieldValue(e, "CREW TAGGED")
	assert.Equal(t, "Alex, Sam", crew)
	files, _ := fieldValue(e, "ATTACHMENTS")
	assert.Contains(t, files, "1 file(s)")
	assert.Contains(t, files, "hull.png")
	if _, ok := fieldValue(e, "COMMIT"); ok {
		t.Fatal("protocol embed should not carry a commit field")
	}
}

func TestResolveCommitFallbackChain(t *testing.T) {
	svc := settings.NewService(t.TempDir())
	require.NoError(t, svc.Update(func(s *settings.Settings) {
		s.GithubEnabled = true
		s.GithubRepo = "existflow/global"
	}))
	commits := &stubCommits{byRepo: map[string]string{
		"existflow/board":  "b0a4d12",
		"existflow/global": "91obal0",
	}}
	n := New(svc, commits)

	// explicit override wins without any lookup
	got := n.resolveCommit(svc.Get(), Payload{OverrideCommit: "f0rced1"})
	assert.Equal(t, "f0rced1", got)
	assert.Empty(t, commits.calls)

	// board repository beats the global fallback
	got = n.resolveCommit(svc.Get(), Payload{ProjectRepo: "existflow/board"})
	assert.Equal(t, "b0a4d12", got)

	// no board repo: fall through to the global one
	got = n.resolveCommit(svc.Get(), Payload{})
	assert.Equal(t, "91obal0", got)

	// integration off: nothing to stamp
	require.NoError(t, svc.Update(func(s *settings.Settings) { s.GithubEnabled = false }))
	got = n.resolveCommit(svc.Get(), Payload{})
	assert.Empty(t, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde…", truncate("abcdefgh", 5))
}
