package server

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"
)

// wireAttachment matches the client's attachment document shape.
type wireAttachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Content  []byte `json:"content"`
}

type batchRequest struct {
	Put    []wireAttachment `json:"put"`
	Delete []string         `json:"delete"`
}

// handleListAttachments returns the full attachment collection.
func (s *Server) handleListAttachments(c echo.Context) error {
	rows, err := s.db.Query(`SELECT id, name, mime_type, size, content FROM attachments`)
	if err != nil {
		c.Logger().Error("attachment read failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	items := []wireAttachment{}
	for rows.Next() {
		var item wireAttachment
		var encoded string
		if err := rows.Scan(&item.ID, &item.Name, &item.MimeType, &item.Size, &encoded); err != nil {
			continue
		}
		item.Content, _ = base64.StdEncoding.DecodeString(encoded)
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, items)
}

// handleAttachmentIDs returns just the stored ids, for client-side
// reconciliation diffs.
func (s *Server) handleAttachmentIDs(c echo.Context) error {
	rows, err := s.db.Query(`SELECT id FROM attachments`)
	if err != nil {
		c.Logger().Error("attachment read failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err == nil {
			ids = append(ids, id)
		}
	}

	return c.JSON(http.StatusOK, ids)
}

// handleAttachmentBatch applies upserts and deletes in one transaction.
func (s *Server) handleAttachmentBatch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	tx, err := s.db.Begin()
	if err != nil {
		c.Logger().Error("batch begin failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range req.Put {
		_, err := tx.Exec(
			`INSERT INTO attachments (id, name, mime_type, size, content)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET
			     name = $2,
			     mime_type = $3,
			     size = $4,
			     content = $5`,
			item.ID, item.Name, item.MimeType, item.Size,
			base64.StdEncoding.EncodeToString(item.Content),
		)
		if err != nil {
			c.Logger().Error("batch upsert failed: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}
	for _, id := range req.Delete {
		if _, err := tx.Exec(`DELETE FROM attachments WHERE id = $1`, id); err != nil {
			c.Logger().Error("batch delete failed: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}

	if err := tx.Commit(); err != nil {
		c.Logger().Error("batch commit failed: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
