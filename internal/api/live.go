package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only telemetry; cross-origin dashboards may attach
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleLive handles GET /api/analytics/live, streaming new transactions
// over a websocket as they are recorded.
func (h *AnalyticsHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events := h.tracker.Subscribe()
	defer h.tracker.Unsubscribe(events)

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case tx, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(tx); err != nil {
				return
			}
		}
	}
}
