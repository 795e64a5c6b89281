package service

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isAllowedOrigin(r.Header.Get("Origin"))
	},
}

// wsClient is one connected WebSocket subscriber, adapted from the ARM
// emulator's WebSocketClient: the read/write pump split and ping/pong
// keepalive are unchanged, only the payload (BroadcastEvent) differs. It
// also holds a reference to the session manager so a fresh subscription can
// be caught up with the session's existing value history (see
// replayHistory) — a deci-specific feature the ARM debugger's step-event
// stream had no equivalent of.
type wsClient struct {
	conn         *websocket.Conn
	send         chan BroadcastEvent
	subscription *Subscription
	broadcaster  *Broadcaster
	sessions     *SessionManager
	mu           sync.Mutex
}

// subscribeRequest is a client's request to (re)subscribe, sent as the
// first WebSocket text message after connecting.
type subscribeRequest struct {
	Type       string   `json:"type"` // "subscribe"
	SessionID  string   `json:"sessionId"`
	EventTypes []string `json:"events"`
}

// handleWebSocket upgrades GET /api/v1/ws and starts the client's pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn:        conn,
		send:        make(chan BroadcastEvent, 256),
		broadcaster: s.broadcaster,
		sessions:    s.sessions,
	}

	go client.writePump()
	go client.readPump()
}

func (c *wsClient) readPump() {
	defer func() {
		c.cleanup()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var req subscribeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			continue
		}
		if req.Type == "subscribe" {
			c.handleSubscribe(req)
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) handleSubscribe(req subscribeRequest) {
	c.mu.Lock()
	if c.subscription != nil {
		c.broadcaster.Unsubscribe(c.subscription)
	}

	eventTypes := make([]EventType, 0, len(req.EventTypes))
	for _, et := range req.EventTypes {
		eventTypes = append(eventTypes, EventType(et))
	}

	c.subscription = c.broadcaster.Subscribe(req.SessionID, eventTypes)
	c.mu.Unlock()

	go c.forwardEvents()

	if req.SessionID != "" && c.sessions != nil {
		c.replayHistory(req.SessionID)
	}
}

// replayHistory sends a single EventTypeHistory event carrying everything
// the session has computed so far, so a dashboard that subscribes mid-way
// through a session sees its existing values immediately instead of only
// evaluations made after it connected.
func (c *wsClient) replayHistory(sessionID string) {
	values := c.sessions.GetOrCreate(sessionID).History()
	if len(values) == 0 {
		return
	}
	select {
	case c.send <- BroadcastEvent{
		Type:      EventTypeHistory,
		SessionID: sessionID,
		Data:      map[string]interface{}{"values": values},
	}:
	default:
	}
}

func (c *wsClient) forwardEvents() {
	c.mu.Lock()
	sub := c.subscription
	c.mu.Unlock()
	if sub == nil {
		return
	}

	for event := range sub.Channel {
		select {
		case c.send <- event:
		default:
		}
	}
}

func (c *wsClient) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscription != nil {
		c.broadcaster.Unsubscribe(c.subscription)
		c.subscription = nil
	}
}
