// Package discord posts tracker updates to a Discord webhook as rich
// embeds. Delivery is fire-and-forget: disabled or failing webhooks never
// affect the caller.
package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/settings"
)

// Event identifies what changed.
type Event string

const (
	EventProjectCreated Event = "project_created"
	EventProjectEdited  Event = "project_edited"
	EventProjectDeleted Event = "project_deleted"
	EventTaskAdded      Event = "task_added"
	EventTaskEdited     Event = "task_edited"
	EventTaskDeleted    Event = "task_deleted"
	EventProtocolAdded  Event = "protocol_added"
)

// App accent colors carried over from the tracker theme.
const (
	colorMission   = 0x00d4aa
	colorEmergency = 0xffb347
)

const (
	descMax         = 800
	protocolDescMax = 600
)

// Payload carries the event-specific details for an embed.
type Payload struct {
	Name        string
	OldName     string
	Title       string
	Description string
	Details     string

	ProjectName string
	ProjectRepo string

	Status       string
	OldStatus    string
	NewStatus    string
	StatusChange bool

	TaggedNames []string
	FileNames   []string
	FileCount   int

	OverrideCommit string
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields"`
	Footer      footer  `json:"footer"`
	Timestamp   string  `json:"timestamp"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type footer struct {
	Text string `json:"text"`
}

// CommitSource resolves a repository to its newest short commit hash.
type CommitSource interface {
	LatestCommit(repo string) string
}

// Notifier sends webhook updates using the current settings.
type Notifier struct {
	settings   *settings.Service
	commits    CommitSource
	httpClient *http.Client
	now        func() time.Time
}

// New creates a notifier. commits may be nil to skip commit stamping.
func New(svc *settings.Service, commits CommitSource) *Notifier {
	return &Notifier{
		settings:   svc,
		commits:    commits,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Send posts an update if the webhook integration is enabled and
// configured. Failures are logged and swallowed.
func (n *Notifier) Send(event Event, payload Payload) {
	cfg := n.settings.Get()
	webhookURL := strings.TrimSpace(cfg.DiscordWebhookURL)
	if !cfg.DiscordEnabled || webhookURL == "" {
		return
	}

	operator := "Crew"
	if m, ok := cfg.Member(cfg.CurrentUserID); ok && strings.TrimSpace(m.Name) != "" {
		operator = strings.TrimSpace(m.Name)
	}

	now := n.now()
	day := now.Weekday().String()
	date := now.Format("2 January 2006")

	var e embed
	if event == EventProtocolAdded {
		e = buildProtocolEmbed(payload, operator, day, date, now)
	} else {
		commit := n.resolveCommit(cfg, payload)
		display := "—"
		if commit != "" {
			display = "`" + commit + "`"
		}
		e = buildMissionEmbed(event, payload, operator, day, date, display, now)
	}

	body, err := json.Marshal(map[string]interface{}{"embeds": []embed{e}})
	if err != nil {
		return
	}
	resp, err := n.httpClient.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Warn("discord webhook failed", logger.F("error", err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		logger.Warn("discord webhook rejected", logger.F("status", resp.StatusCode))
	}
}

// resolveCommit walks the fallback chain: explicit override, the board's
// own repository, then the global repository when the integration is on.
func (n *Notifier) resolveCommit(cfg settings.Settings, payload Payload) string {
	if c := strings.TrimSpace(payload.OverrideCommit); c != "" {
		return c
	}
	if n.commits == nil {
		return ""
	}
	if repo := strings.TrimSpace(payload.ProjectRepo); repo != "" {
		if c := n.commits.LatestCommit(repo); c != "" {
			return c
		}
	}
	if cfg.GithubEnabled && strings.TrimSpace(cfg.GithubRepo) != "" {
		return n.commits.LatestCommit(strings.TrimSpace(cfg.GithubRepo))
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func buildMissionEmbed(event Event, p Payload, operator, day, date, commitDisplay string, now time.Time) embed {
	titles := map[Event]string{
		EventProjectCreated: "NEW BOARD DEPLOYED",
		EventProjectEdited:  "BOARD RENAMED",
		EventProjectDeleted: "BOARD DECOMMISSIONED",
		EventTaskAdded:      "TASK ADDED",
		EventTaskEdited:     "TASK UPDATED",
		EventTaskDeleted:    "TASK REMOVED",
	}

	var description string
	switch event {
	case EventProjectCreated:
		description = fmt.Sprintf("**%s** is now live. Ready for tasks.", p.Name)
	case EventProjectEdited:
		description = fmt.Sprintf("Board is now called **%s**", p.Name)
		if p.OldName != "" {
			description += fmt.Sprintf(" (was %s)", p.OldName)
		}
		description += "."
	case EventProjectDeleted:
		description = fmt.Sprintf("**%s** has been decommissioned.", p.Name)
	case EventTaskAdded:
		description = fmt.Sprintf("**%s**\n\n", p.Title)
		if p.Description != "" {
			description += "_" + truncate(p.Description, descMax) + "_"
		} else {
			description += "_No description._"
		}
	case EventTaskEdited:
		description = fmt.Sprintf("**%s**\n\n", p.Title)
		if p.StatusChange {
			description += fmt.Sprintf("Status: **%s** → **%s**", p.OldStatus, p.NewStatus)
		}
		if p.Details != "" {
			description += "\n" + p.Details
		}
	case EventTaskDeleted:
		description = fmt.Sprintf("**%s** removed from **%s**.", p.Title, p.ProjectName)
	default:
		description = "Something changed."
	}

	title, ok := titles[event]
	if !ok {
		title = "CONTROL CENTRE UPDATE"
	}

	fields := []field{{Name: "OPERATOR", Value: operator}}
	isTask := event == EventTaskAdded || event == EventTaskEdited || event == EventTaskDeleted
	if isTask && p.ProjectName != "" {
		fields = append(fields, field{Name: "BOARD", Value: p.ProjectName})
	}
	if isTask {
		statusValue := ""
		switch event {
		case EventTaskAdded:
			statusValue = p.Status
			if statusValue == "" {
				statusValue = "Pending"
			}
		case EventTaskEdited:
			statusValue = p.NewStatus
			if statusValue == "" {
				statusValue = p.Status
			}
			if statusValue == "" {
				statusValue = "—"
			}
		case EventTaskDeleted:
			statusValue = "Removed"
		}
		if statusValue != "" {
			fields = append(fields, field{Name: "TASK STATUS", Value: statusValue})
		}
	}
	fields = append(fields,
		field{Name: "DAY", Value: day},
		field{Name: "DATE", Value: date},
		field{Name: "COMMIT", Value: commitDisplay},
	)

	return embed{
		Title:       title,
		Description: description,
		Color:       colorMission,
		Fields:      fields,
		Footer:      footer{Text: "THE CONTROL CENTRE • MISSION TRACKER"},
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}

func buildProtocolEmbed(p Payload, operator, day, date string, now time.Time) embed {
	description := "_No description._"
	if p.Description != "" {
		description = "_" + truncate(p.Description, protocolDescMax) + "_"
	}

	fields := []field{
		{Name: "OPERATOR", Value: operator},
		{Name: "DAY", Value: day},
		{Name: "DATE", Value: date},
	}
	if len(p.TaggedNames) > 0 {
		fields = append(fields, field{Name: "CREW TAGGED", Value: strings.Join(p.TaggedNames, ", ")})
	}
	if p.FileCount > 0 {
		names := p.FileNames
		suffix := ""
		if len(names) > 5 {
			names = names[:5]
			suffix = "…"
		}
		fields = append(fields, field{
			Name:  "ATTACHMENTS",
			Value: fmt.Sprintf("%d file(s): %s%s", p.FileCount, strings.Join(names, ", "), suffix),
		})
	}

	return embed{
		Title:       "EMERGENCY PROTOCOL POSTED",
		Description: description,
		Color:       colorEmergency,
		Fields:      fields,
		Footer:      footer{Text: "THE CONTROL CENTRE • EMERGENCY PROTOCOLS"},
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}
