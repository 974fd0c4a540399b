package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const documentID = 1

// documentBody is the wire shape of the singleton document. RawMessage
// fields keep the server agnostic to the snapshot's inner structure and
// make merge semantics explicit: a nil field was not supplied.
type documentBody struct {
	Projects  json.RawMessage `json:"projects,omitempty"`
	Tasks     json.RawMessage `json:"tasks,omitempty"`
	Protocols json.RawMessage `json:"protocols,omitempty"`
}

// handleGetDocument returns the document, or 404 before the first write.
func (s *Server) handleGetDocument(c echo.Context) error {
	var projects, tasks, protocols string
	err := s.db.QueryRow(
		`SELECT projects, tasks, protocols FROM document WHERE id = $1`,
		documentID,
	).Scan(&projects, &tasks, &protocols)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no document"})
	}
	if err != nil {
		c.Logger().Error("document read failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSONBlob(http.StatusOK, assembleDocument(projects, tasks, protocols))
}

// handlePutDocument upserts the document with merge semantics: top-level
// fields absent from the request keep their stored value.
func (s *Server) handlePutDocument(c echo.Context) error {
	var body documentBody
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	projects, tasks, protocols := `[]`, `{}`, `[]`
	err := s.db.QueryRow(
		`SELECT projects, tasks, protocols FROM document WHERE id = $1`,
		documentID,
	).Scan(&projects, &tasks, &protocols)
	if err != nil && err != sql.ErrNoRows {
		c.Logger().Error("document read failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	if body.Projects != nil {
		projects = string(body.Projects)
	}
	if body.Tasks != nil {
		tasks = string(body.Tasks)
	}
	if body.Protocols != nil {
		protocols = string(body.Protocols)
	}

	_, err = s.db.Exec(
		`INSERT INTO document (id, projects, tasks, protocols, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		     projects = $2,
		     tasks = $3,
		     protocols = $4,
		     updated_at = $5`,
		documentID, projects, tasks, protocols, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		c.Logger().Error("document write failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	merged := assembleDocument(projects, tasks, protocols)
	s.hub.broadcast(merged)

	return c.JSONBlob(http.StatusOK, merged)
}

func assembleDocument(projects, tasks, protocols string) []byte {
	doc := map[string]json.RawMessage{
		"projects":  json.RawMessage(projects),
		"tasks":     json.RawMessage(tasks),
		"protocols": json.RawMessage(protocols),
	}
	data, _ := json.Marshal(doc)
	return data
}
