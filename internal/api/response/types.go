package response

import (
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

// User represents an identity in API responses
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"pp_path"`
}

// UserFromIdentity converts a model.Identity to a response User
func UserFromIdentity(id model.Identity) User {
	return User{
		ID:             string(id.ID),
		Username:       id.Username,
		ProfilePicture: id.ProfilePicture,
	}
}

// AuthResponse is the response for login
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Game represents a game record in API responses. The state payload is the
// same authoritative GameState the realtime channel broadcasts.
type Game struct {
	ID      string          `json:"gameId"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	Players []string        `json:"players"`
	State   model.GameState `json:"state"`
}

// GameFromModel converts a model.Game snapshot
func GameFromModel(g model.Game) Game {
	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = string(p)
	}
	return Game{
		ID:      string(g.ID),
		Type:    g.Type,
		Status:  string(g.State.Phase),
		Players: players,
		State:   g.State,
	}
}
