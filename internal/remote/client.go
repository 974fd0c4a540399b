// Package remote talks to the controlcentre document server: a singleton
// application document with merge-write semantics, a per-file attachment
// collection reconciled by id diff, and a websocket watch channel for live
// change notifications.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/model"
)

// Document is the singleton remote document: the snapshot minus the
// attachment collection.
type Document struct {
	Projects  []model.Project         `json:"projects"`
	Tasks     map[string][]model.Task `json:"tasks"`
	Protocols []model.Protocol        `json:"protocols"`
}

// WireAttachment is one document in the remote attachment collection.
type WireAttachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Content  []byte `json:"content"`
}

// BatchRequest reconciles the attachment collection in one atomic write.
type BatchRequest struct {
	Put    []WireAttachment `json:"put"`
	Delete []string         `json:"delete"`
}

// Client is the remote store adapter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an adapter for the given server. Token may be empty
// when the server runs without auth.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// Load fetches the singleton document and the attachment collection and
// reassembles the snapshot. Returns (nil, nil) when no document exists yet;
// callers fall back to local state on any nil result.
func (c *Client) Load(ctx context.Context) (*model.State, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/document", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("remote load failed", logger.F("error", err))
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server error: %s", string(respBody))
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	files, err := c.fetchAttachments(ctx)
	if err != nil {
		return nil, err
	}

	state := model.State{
		Projects:      doc.Projects,
		Tasks:         doc.Tasks,
		Protocols:     doc.Protocols,
		ProtocolFiles: files,
	}.Normalize()
	return &state, nil
}

// Save upserts the singleton document (merge semantics on the server) and
// reconciles the attachment collection: every current attachment is
// written, every remote id no longer present is deleted, in one batch.
func (c *Client) Save(ctx context.Context, state model.State) error {
	doc := Document{
		Projects:  state.Projects,
		Tasks:     state.Tasks,
		Protocols: state.Protocols,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/api/v1/document", bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server error: %s", string(respBody))
	}

	return c.reconcileAttachments(ctx, state.ProtocolFiles)
}

func (c *Client) reconcileAttachments(ctx context.Context, current map[string]model.Attachment) error {
	existing, err := c.fetchAttachmentIDs(ctx)
	if err != nil {
		return err
	}

	batch := BatchRequest{Put: []WireAttachment{}, Delete: []string{}}
	for id, f := range current {
		batch.Put = append(batch.Put, WireAttachment{
			ID:       id,
			Name:     f.Name,
			MimeType: f.MimeType,
			Size:     f.Size,
			Content:  f.Content,
		})
	}
	for _, id := range existing {
		if _, ok := current[id]; !ok {
			batch.Delete = append(batch.Delete, id)
		}
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/attachments/batch", bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server error: %s", string(respBody))
	}
	return nil
}

func (c *Client) fetchAttachments(ctx context.Context) (map[string]model.Attachment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/attachments", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server error: %s", string(respBody))
	}

	var wire []WireAttachment
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	files := make(map[string]model.Attachment, len(wire))
	for _, w := range wire {
		files[w.ID] = model.Attachment{
			Name:     w.Name,
			MimeType: w.MimeType,
			Size:     w.Size,
			Content:  w.Content,
		}
	}
	return files, nil
}

func (c *Client) fetchAttachmentIDs(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/attachments/ids", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server error: %s", string(respBody))
	}
	var ids []string
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decode attachment ids: %w", err)
	}
	return ids, nil
}
