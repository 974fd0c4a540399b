package server

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// openDatabase opens PostgreSQL for postgres:// URLs and a SQLite file for
// anything else. Queries use $1-style placeholders, which both drivers
// accept.
func openDatabase(databaseURL string) (*sql.DB, error) {
	driver := "sqlite"
	dsn := databaseURL

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	} else {
		if dsn == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			dsn = filepath.Join(home, ".controlcentre", "server.db")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// migrate runs database migrations
func (s *Server) migrate() error {
	migrations := []string{
		migrationDocument,
		migrationAttachments,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// The singleton document holds the snapshot minus the attachment
// collection, one JSON column per top-level field so merge writes can
// preserve absent fields.
const migrationDocument = `
CREATE TABLE IF NOT EXISTS document (
    id INTEGER PRIMARY KEY,
    projects TEXT NOT NULL DEFAULT '[]',
    tasks TEXT NOT NULL DEFAULT '{}',
    protocols TEXT NOT NULL DEFAULT '[]',
    updated_at TEXT NOT NULL DEFAULT ''
);
`

// Attachment content is stored base64-encoded so the column type is
// portable across both backends.
const migrationAttachments = `
CREATE TABLE IF NOT EXISTS attachments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size BIGINT NOT NULL,
    content TEXT NOT NULL
);
`
