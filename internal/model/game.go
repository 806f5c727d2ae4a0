package model

import "time"

// GameID uniquely identifies a game
type GameID string

// PlayerID identifies a seat in a game. Players are keyed by username, which
// the registry guarantees is unique among live connections.
type PlayerID string

// GamePhase is the current phase of a game's life cycle.
// Transitions are monotonic: waiting -> setup -> playing -> finished.
type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"  // created, fewer than required players
	PhaseSetup    GamePhase = "setup"    // roster full, shuffling and dealing
	PhasePlaying  GamePhase = "playing"  // accepting player actions
	PhaseFinished GamePhase = "finished" // terminal, all actions rejected
)

// GameTypeWar is the only game type currently implemented
const GameTypeWar = "war"

// GameState is the authoritative, serializable state of a single game.
// It is mutated only by the game controller and snapshotted under the same
// lock, so a broadcast never observes a torn view.
type GameState struct {
	Phase       GamePhase              `json:"phase"`
	CurrentTurn PlayerID               `json:"currentTurn,omitempty"`
	Round       int                    `json:"round"`
	Hands       map[PlayerID][]CardID  `json:"playerHands"`
	Played      map[PlayerID]CardID    `json:"playedCards"`
	WarPile     []CardID               `json:"warPile"`
	LastWinner  PlayerID               `json:"lastWinner,omitempty"`
}

// Game is the persisted record of a game. Status mirrors State.Phase.
type Game struct {
	ID        GameID     `json:"gameId"`
	Type      string     `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Players   []PlayerID `json:"players"`
	State     GameState  `json:"state"`
}

// ActionPlayCard is the turn-consuming action of playing one card from hand
const ActionPlayCard = "play_card"

// GameAction is a single player action applied to a game
type GameAction struct {
	Type   string `json:"type"`
	CardID CardID `json:"cardId,omitempty"`
}
