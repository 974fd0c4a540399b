// Package settings holds the configuration surface that lives alongside
// the tracked state but is never synced: integration toggles, the team
// roster, and the active user.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/model"
)

const settingsFile = "settings.yaml"

// Settings models settings.yaml.
type Settings struct {
	DiscordEnabled    bool               `yaml:"discord_enabled"`
	DiscordWebhookURL string             `yaml:"discord_webhook_url"`
	GithubEnabled     bool               `yaml:"github_enabled"`
	GithubRepo        string             `yaml:"github_repo"` // "owner/repo" or full URL, global fallback
	TeamMembers       []model.TeamMember `yaml:"team_members"`
	CurrentUserID     string             `yaml:"current_user_id"`
}

// DefaultSettings returns empty settings.
func DefaultSettings() Settings {
	return Settings{TeamMembers: []model.TeamMember{}}
}

func (s Settings) clone() Settings {
	out := s
	out.TeamMembers = append([]model.TeamMember(nil), s.TeamMembers...)
	return out
}

// Member resolves a member id against the roster.
func (s Settings) Member(id string) (model.TeamMember, bool) {
	for _, m := range s.TeamMembers {
		if m.ID == id {
			return m, true
		}
	}
	return model.TeamMember{}, false
}

// Service owns the settings file and broadcasts changes to subscribers,
// so components depending on the configuration react without a global
// event bus.
type Service struct {
	path string

	mu          sync.Mutex
	current     Settings
	subscribers map[int]func(Settings)
	nextID      int
}

// NewService loads settings from the data directory, falling back to
// defaults when the file is absent or unreadable.
func NewService(dataDir string) *Service {
	svc := &Service{
		path:        filepath.Join(dataDir, settingsFile),
		current:     DefaultSettings(),
		subscribers: map[int]func(Settings){},
	}
	data, err := os.ReadFile(svc.path)
	if err != nil {
		return svc
	}
	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		logger.Warn("settings file unreadable, using defaults",
			logger.F("path", svc.path), logger.F("error", err))
		return svc
	}
	if loaded.TeamMembers == nil {
		loaded.TeamMembers = []model.TeamMember{}
	}
	svc.current = loaded
	return svc
}

// Get returns a copy of the current settings.
func (s *Service) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Update applies fn to the settings, persists them, and notifies
// subscribers. The write is best-effort; subscribers are notified even if
// persisting fails.
func (s *Service) Update(fn func(*Settings)) error {
	s.mu.Lock()
	next := s.current.clone()
	fn(&next)
	s.current = next
	snapshot := next.clone()
	fns := make([]func(Settings), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		fns = append(fns, sub)
	}
	s.mu.Unlock()

	err := s.write(snapshot)
	for _, sub := range fns {
		sub(snapshot.clone())
	}
	return err
}

// Subscribe registers a settings-changed observer and returns its
// unsubscribe function.
func (s *Service) Subscribe(fn func(Settings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Service) write(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
