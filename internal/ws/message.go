package ws

import "encoding/json"

// Event names consumed from clients
const (
	EventJoinServer  = "join-server"  // Join the server chat room
	EventChatMessage = "chat-message" // Send a chat message
	EventJoinGame    = "join-game"    // Join a game room
	EventGameAction  = "game-action"  // Broadcast an action to the current game room
	EventLeaveGame   = "leave-game"   // Leave the current game room
)

// Event names produced by the server
const (
	EventUserOnline      = "user-online"       // An identified user connected
	EventUserOffline     = "user-offline"      // An identified user disconnected
	EventChatHistory     = "chat-history"      // One-time replay of recent chat messages
	EventChatError       = "chat-error"        // Chat rejection, sent to the sender only
	EventPlayerJoined    = "player-joined"     // A player entered the game room
	EventGamePlayers     = "game-players"      // Current member list of a game room
	EventGameStateUpdate = "game-state-update" // A game action relayed to room peers
	EventPlayerLeft      = "player-left"       // A player left the game room
)

// Envelope is the wire format for both directions. Data is interpreted
// according to Event; inbound payloads are validated before dispatch.
type Envelope struct {
	Event string          `json:"event"`          // Tag selecting the payload schema
	Data  json.RawMessage `json:"data,omitempty"` // Raw payload, decoded per event
}

// Event is an outbound message with an already-built payload
type Event struct {
	Event string `json:"event"`          // Event name
	Data  any    `json:"data,omitempty"` // Payload for the event
}

// Identity is a resolved user behind a connection
type Identity struct {
	UserID   string `json:"userId"`   // User id
	Username string `json:"username"` // Display name at connect time
}

// PlayerInfo describes a game-room member; guests carry a nil UserID and a
// placeholder name rather than ad-hoc nulled fields
type PlayerInfo struct {
	UserID   *string `json:"userId"`   // User id, nil for guests
	Username string  `json:"username"` // Display name or "Guest"
}

// GuestName is the placeholder label for anonymous game-room members
const GuestName = "Guest"

// playerInfo builds a PlayerInfo from an optional identity
func playerInfo(id *Identity) PlayerInfo {
	if id == nil {
		return PlayerInfo{UserID: nil, Username: GuestName}
	}
	uid := id.UserID
	return PlayerInfo{UserID: &uid, Username: id.Username}
}

// ChatMessageData is the payload of an inbound chat-message event
type ChatMessageData struct {
	Message string `json:"message"` // Message body
}

// JoinGameData is the payload of an inbound join-game event
type JoinGameData struct {
	GameID string `json:"gameId"` // Target game id
}

// ChatErrorData is the payload of a chat-error event
type ChatErrorData struct {
	Message string `json:"message"` // Human-readable reason
}

// PresenceData is the payload of user-online / user-offline events
type PresenceData struct {
	UserID   string `json:"userId"`             // User id
	Username string `json:"username,omitempty"` // Display name, online only
}
