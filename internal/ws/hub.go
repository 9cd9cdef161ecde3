package ws

import (
	"encoding/json"
	"strings"
	"time"

	"playhub/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// serverChatID tags durable chat rows with the room they belong to
const serverChatID = "main"

// inbound couples a decoded client envelope with its origin connection
type inbound struct {
	client   *Client
	envelope Envelope
}

// Hub routes room membership, chat and game-action broadcasts for all live
// connections. All membership mutation happens on the Run loop, one event at
// a time, so rooms and client state need no locking of their own. Delivery is
// fire-and-forget: a client whose send buffer is full is dropped, never
// waited on.
type Hub struct {
	registry *Registry  // Live connection -> identity mapping, injected
	history  *History   // Recent chat buffer, injected
	store    ChatStore  // Durable chat persistence, injected

	clients   map[*Client]bool            // All live connections
	chatRoom  map[*Client]bool            // Server chat room membership
	gameRooms map[string]map[*Client]bool // game id -> member set

	register   chan *Client
	unregister chan *Client
	events     chan inbound
}

// NewHub wires a hub over its injected collaborators
func NewHub(registry *Registry, history *History, store ChatStore) *Hub {
	return &Hub{
		registry:   registry,
		history:    history,
		store:      store,
		clients:    make(map[*Client]bool),
		chatRoom:   make(map[*Client]bool),
		gameRooms:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan inbound, 256), // Buffered to absorb bursts
	}
}

// Registry exposes the presence registry for HTTP consumers
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Register queues a freshly upgraded connection for the Run loop
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Run is the hub's event loop. Start it once, as a goroutine, before serving
// connections.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.handleConnect(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.events:
			h.handleEvent(in.client, in.envelope)
		}
	}
}

// handleConnect admits a connection: registry entry, presence announcement
// for identified users, and the one-time chat history replay.
func (h *Hub) handleConnect(c *Client) {
	h.clients[c] = true
	h.registry.Add(c.id, c.identity)

	if c.identity != nil {
		// Tell everyone else this user is online
		h.broadcastOthers(c, &Event{
			Event: EventUserOnline,
			Data:  PresenceData{UserID: c.identity.UserID, Username: c.identity.Username},
		})
		logrus.WithFields(logrus.Fields{"conn_id": c.id, "user_id": c.identity.UserID}).Info("Connection identified")
	} else {
		logrus.WithField("conn_id", c.id).Info("Anonymous connection")
	}

	// One-time catch-up, oldest first; no further history is pushed
	if recent := h.history.Recent(); len(recent) > 0 {
		h.send(c, &Event{Event: EventChatHistory, Data: recent})
	}
}

// handleDisconnect tears a connection down. Game-room peers are notified
// before the global offline announcement.
func (h *Hub) handleDisconnect(c *Client) {
	if !h.clients[c] {
		return
	}
	h.leaveGameRoom(c)

	identity := h.registry.Remove(c.id)
	delete(h.chatRoom, c)
	delete(h.clients, c)
	close(c.send)

	// Only connections that had been identified announce going offline
	if identity != nil {
		h.broadcastAll(&Event{Event: EventUserOffline, Data: PresenceData{UserID: identity.UserID}})
	}
}

// handleEvent validates and dispatches one inbound envelope. Events queued
// before a disconnect can still arrive after it; those are dropped, since the
// client's send channel is already closed.
func (h *Hub) handleEvent(c *Client, env Envelope) {
	if !h.clients[c] {
		return
	}
	switch env.Event {
	case EventJoinServer:
		// Idempotent: joining twice has no additional effect
		h.chatRoom[c] = true

	case EventChatMessage:
		var data ChatMessageData
		if env.Data != nil {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				h.send(c, &Event{Event: EventChatError, Data: ChatErrorData{Message: "invalid message, max length exceeded"}})
				return
			}
		}
		h.handleChatMessage(c, data.Message)

	case EventJoinGame:
		var data JoinGameData
		if env.Data == nil || json.Unmarshal(env.Data, &data) != nil || data.GameID == "" {
			return
		}
		h.handleJoinGame(c, data.GameID)

	case EventGameAction:
		var payload map[string]any
		if env.Data != nil {
			// Actions must be JSON objects; anything else is discarded
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return
			}
		}
		h.handleGameAction(c, payload)

	case EventLeaveGame:
		h.leaveGameRoom(c)

	default:
		logrus.WithFields(logrus.Fields{"conn_id": c.id, "event": env.Event}).Warn("Unknown event discarded")
	}
}

// handleChatMessage validates, records and fans out one chat message
func (h *Hub) handleChatMessage(c *Client, text string) {
	if c.identity == nil {
		h.send(c, &Event{Event: EventChatError, Data: ChatErrorData{Message: "must be authenticated to chat"}})
		return
	}
	msg := strings.TrimSpace(text)
	if len(msg) == 0 || len(msg) > domain.MessageMax {
		h.send(c, &Event{Event: EventChatError, Data: ChatErrorData{Message: "invalid message, max length exceeded"}})
		return
	}

	chatMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		ServerID:  serverChatID,
		UserID:    c.identity.UserID,
		Username:  c.identity.Username,
		Message:   msg,
		CreatedAt: time.Now().UnixMilli(),
	}

	h.history.Append(chatMsg)
	if err := h.store.SaveMessage(&chatMsg); err != nil {
		// Fatal to this message only; it is still delivered live
		logrus.WithFields(logrus.Fields{"user_id": chatMsg.UserID, "error": err.Error()}).Error("Chat persist failed")
	}

	out := &Event{Event: EventChatMessage, Data: chatMsg}
	for member := range h.chatRoom {
		h.send(member, out)
	}
}

// handleJoinGame moves a connection into a game room. A connection belongs to
// at most one game room; joining another leaves the previous one first.
func (h *Hub) handleJoinGame(c *Client, gameID string) {
	if c.gameRoom == gameID {
		return
	}
	h.leaveGameRoom(c)

	room := h.gameRooms[gameID]
	if room == nil {
		room = make(map[*Client]bool)
		h.gameRooms[gameID] = room
	}
	room[c] = true
	c.gameRoom = gameID

	// Announce the newcomer to the rest of the room
	joined := &Event{Event: EventPlayerJoined, Data: playerInfo(c.identity)}
	for member := range room {
		if member != c {
			h.send(member, joined)
		}
	}

	// Reply with the identified members currently in the room
	players := make([]PlayerInfo, 0, len(room))
	for member := range room {
		if member.identity != nil {
			players = append(players, playerInfo(member.identity))
		}
	}
	h.send(c, &Event{Event: EventGamePlayers, Data: players})
}

// handleGameAction relays an action to the other members of the sender's
// room. A connection outside any game room is a no-op.
func (h *Hub) handleGameAction(c *Client, payload map[string]any) {
	if c.gameRoom == "" {
		return
	}
	merged := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		merged[k] = v
	}
	// Sender identity and server timestamp override whatever the client sent
	if c.identity != nil {
		merged["userId"] = c.identity.UserID
		merged["username"] = c.identity.Username
	} else {
		merged["userId"] = nil
		merged["username"] = GuestName
	}
	merged["timestamp"] = time.Now().UnixMilli()

	out := &Event{Event: EventGameStateUpdate, Data: merged}
	for member := range h.gameRooms[c.gameRoom] {
		if member != c {
			h.send(member, out)
		}
	}
}

// leaveGameRoom announces the departure to the remaining members, then drops
// the membership. Idempotent when the connection is in no room.
func (h *Hub) leaveGameRoom(c *Client) {
	if c.gameRoom == "" {
		return
	}
	room := h.gameRooms[c.gameRoom]
	if room != nil {
		delete(room, c)
		left := &Event{Event: EventPlayerLeft, Data: playerInfo(c.identity)}
		for member := range room {
			h.send(member, left)
		}
		if len(room) == 0 {
			delete(h.gameRooms, c.gameRoom)
		}
	}
	c.gameRoom = ""
}

// broadcastAll fans an event out to every live connection
func (h *Hub) broadcastAll(ev *Event) {
	for c := range h.clients {
		h.send(c, ev)
	}
}

// broadcastOthers fans an event out to every live connection except one
func (h *Hub) broadcastOthers(except *Client, ev *Event) {
	for c := range h.clients {
		if c != except {
			h.send(c, ev)
		}
	}
}

// send delivers an event without blocking the loop. A full buffer means the
// client is slow or gone; it gets scheduled for disconnect.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.send <- ev:
	default:
		logrus.WithField("conn_id", c.id).Warn("Send buffer full, dropping client")
		go func(cl *Client) { h.unregister <- cl }(c)
	}
}
