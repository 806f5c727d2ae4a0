package model

// MessageType identifies the type of an inbound realtime frame
type MessageType string

const (
	MessageConnectedUsers MessageType = "connected_users"
	MessageCardRequest    MessageType = "card_request"
	MessageHandRequest    MessageType = "hand_request"
	MessageAddCardToHand  MessageType = "add_card_to_hand"
	MessagePlayerAction   MessageType = "player_action"
)

// ClientMessage is one decoded inbound frame. Frames carry a type tag except
// for chat, which is identified by a bare "message" field.
type ClientMessage struct {
	AuthToken string      `json:"auth_token"`
	Type      MessageType `json:"type,omitempty"`
	Message   string      `json:"message,omitempty"`
	GameID    GameID      `json:"gameId,omitempty"`
	Action    *GameAction `json:"action,omitempty"`
}

// IsChat reports whether the frame is a chat send
func (m *ClientMessage) IsChat() bool {
	return m.Type == "" && m.Message != ""
}

// EventType identifies the type of an outbound event
type EventType string

const (
	EventChat           EventType = "message"
	EventConnectedUsers EventType = "connected_users"
	EventCardChange     EventType = "card_change"
	EventPlayerHand     EventType = "player_hand"
	EventGameState      EventType = "game_state"
	EventError          EventType = "error"
)

// ChatEvent echoes a chat message to every connected client
type ChatEvent struct {
	Type     EventType `json:"type"`
	Message  string    `json:"message"`
	Owner    UserID    `json:"owner"`
	PPPath   string    `json:"user_pp_path"`
	Username string    `json:"username"`
}

// ConnectedUsersEvent carries the current presence list
type ConnectedUsersEvent struct {
	Type  EventType     `json:"type"`
	Users []PlayerState `json:"users"`
}

// CardChangeEvent carries the shared face-up card
type CardChangeEvent struct {
	Type EventType `json:"type"`
	Card Card      `json:"card"`
}

// PlayerHandEvent carries one player's own hand, sent only to that player
type PlayerHandEvent struct {
	Type EventType `json:"type"`
	Hand []Card    `json:"hand"`
}

// GameStateEvent carries the authoritative state of a game after a move
type GameStateEvent struct {
	Type   EventType `json:"type"`
	GameID GameID    `json:"gameId"`
	State  GameState `json:"state"`
}

// ErrorEvent reports a rejected message to the offending connection only
type ErrorEvent struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}
