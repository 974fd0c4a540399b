// Package auth covers roster credentials and the client session. Password
// hashes live in the team roster; the session is just the active member id
// persisted next to the other client files.
package auth

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const sessionFile = "session"

// HashPassword hashes a password for roster storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a password against a stored hash.
func VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

// Session persists the active member id across invocations.
type Session struct {
	path string
}

// NewSession creates a session handle under the data directory.
func NewSession(dataDir string) *Session {
	return &Session{path: filepath.Join(dataDir, sessionFile)}
}

// Set records the active member.
func (s *Session) Set(memberID string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(memberID), 0600)
}

// Clear ends the session.
func (s *Session) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Current returns the active member id, or "" when logged out.
func (s *Session) Current() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
