package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// pingPeriod is the period for sending pings to peer. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize is the maximum inbound frame size allowed from a peer.
	maxMessageSize = 4096
)

// Client is one websocket connection. The identity is resolved exactly once
// at handshake time and never changes afterwards; nil means anonymous. Room
// membership fields are owned by the hub loop.
type Client struct {
	id       string          // Connection id
	hub      *Hub            // Owning hub
	conn     *websocket.Conn // Underlying connection
	send     chan *Event     // Buffered outbound queue
	identity *Identity       // Resolved user, nil for anonymous
	gameRoom string          // Current game room, "" when in none; hub-owned
}

// NewClient wraps an upgraded connection. identity may be nil.
func NewClient(id string, hub *Hub, conn *websocket.Conn, identity *Identity) *Client {
	return &Client{
		id:       id,
		hub:      hub,
		conn:     conn,
		send:     make(chan *Event, 64),
		identity: identity,
	}
}

// ReadPump pumps inbound frames to the hub. It is the sole reader of the
// connection and triggers disconnect teardown on any read failure, abnormal
// ones included.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithFields(logrus.Fields{"conn_id": c.id, "error": err.Error()}).Warn("Read error")
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			// Malformed frames are dropped, not fatal
			continue
		}

		select {
		case c.hub.events <- inbound{client: c, envelope: env}:
		default:
			logrus.WithField("conn_id", c.id).Warn("Hub event queue full, frame dropped")
		}
	}
}

// WritePump pumps outbound events to the connection and keeps it alive with
// pings. It is the sole writer of the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the queue; say goodbye
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
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
