package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"DispoCeSoir/internal/observe"
	"DispoCeSoir/internal/workspace"
)

const (
	liveSendBuffer = 16
	liveWriteWait  = 10 * time.Second
	livePingPeriod = 30 * time.Second
)

type liveMessage struct {
	Type   string          `json:"type"`
	Change *observe.Change `json:"change,omitempty"`

	SessionVersion uint64 `json:"session_version,omitempty"`
	SocialVersion  uint64 `json:"social_version,omitempty"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// push never blocks the publishing store. A client that falls behind is
// dropped.
func (c *liveClient) push(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		c.closed = true
		close(c.send)
	}
}

func (c *liveClient) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *liveClient) readLoop() {
	defer c.conn.Close()
	c.conn.SetReadLimit(4 * 1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *liveClient) writeLoop() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleLive streams one message per store change in the visitor's
// workspace. The first message reports the versions current at subscribe
// time.
func (a *api) handleLive(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Debug("live: upgrade failed", "err", err)
		return
	}

	c := &liveClient{conn: conn, send: make(chan []byte, liveSendBuffer)}
	forward := func(ch observe.Change) {
		payload, err := json.Marshal(liveMessage{Type: "change", Change: &ch})
		if err != nil {
			return
		}
		c.push(payload)
	}
	cancelSession := ws.Session.Subscribe(forward)
	cancelSocial := ws.Social.Subscribe(forward)

	ready, _ := json.Marshal(liveMessage{
		Type:           "ready",
		SessionVersion: ws.Session.Version(),
		SocialVersion:  ws.Social.Snapshot().Version,
	})
	c.push(ready)

	a.logger.Debug("live: client connected", "workspace_id", ws.ID)
	go c.writeLoop()
	c.readLoop()

	cancelSession()
	cancelSocial()
	c.stop()
	a.logger.Debug("live: client disconnected", "workspace_id", ws.ID)
}
