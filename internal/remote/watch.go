package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/internal/model"
)

// Subscribe opens a live-change listener on the singleton document. The
// server notifies on every document write, including this client's own
// prior writes. Each notification carries the new document; the attachment
// collection is refetched before onChange is invoked with the reassembled
// snapshot.
//
// The returned function cancels the subscription: it stops future
// invocations and closes the underlying connection.
func (c *Client) Subscribe(onChange func(model.State)) (func(), error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/watch"
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		closed bool
	)
	cancel := func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		closed = true
		_ = conn.Close()
	}

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				mu.Lock()
				wasClosed := closed
				mu.Unlock()
				if !wasClosed {
					logger.Warn("watch connection lost", logger.F("error", err))
					_ = conn.Close()
				}
				return
			}

			var doc Document
			if err := json.Unmarshal(data, &doc); err != nil {
				logger.Warn("bad watch payload", logger.F("error", err))
				continue
			}
			files, err := c.fetchAttachments(context.Background())
			if err != nil {
				logger.Warn("attachment refetch failed", logger.F("error", err))
				continue
			}

			mu.Lock()
			wasClosed := closed
			mu.Unlock()
			if wasClosed {
				return
			}
			onChange(model.State{
				Projects:      doc.Projects,
				Tasks:         doc.Tasks,
				Protocols:     doc.Protocols,
				ProtocolFiles: files,
			}.Normalize())
		}
	}()

	return cancel, nil
}
