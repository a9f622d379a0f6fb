package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"constellation/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the outgoing WebSocket message format. Snapshot frames
// carry the full diagram state; error frames report a rejected command.
type wsMessage struct {
	Type     string           `json:"type"` // "snapshot" or "error"
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// wsConn serializes writes; snapshots and error frames come from
// different goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Server] WebSocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	wc := &wsConn{conn: conn}

	snaps, cancel := s.eng.Subscribe()
	defer cancel()

	// Pump snapshots out until the subscription or connection dies.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range snaps {
			snap := snap
			if err := wc.writeJSON(wsMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Server] WebSocket read: %v", err)
			}
			break
		}

		var cmd engine.Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.sendError(wc, "invalid message format")
			continue
		}
		if cmd.Kind == "" {
			s.sendError(wc, "kind is required")
			continue
		}

		s.eng.Do(cmd)
	}

	cancel()
	<-done
}

func (s *Server) sendError(wc *wsConn, message string) {
	if err := wc.writeJSON(wsMessage{Type: "error", Error: message}); err != nil {
		log.Printf("[Server] WebSocket write error: %v", err)
	}
}
