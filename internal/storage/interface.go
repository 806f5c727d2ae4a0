package storage

import (
	"context"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

// Storage defines the interface for data persistence. The realtime core
// treats writes as fire-and-forget: a storage failure must never corrupt
// in-memory state.
type Storage interface {
	// User operations (keyed by username, which is unique)
	SaveUser(ctx context.Context, user *model.RegisteredUser) error
	GetUser(ctx context.Context, username string) (*model.RegisteredUser, error)
	DeleteUser(ctx context.Context, username string) error

	// Card image catalog (id -> image reference)
	SaveCardImage(ctx context.Context, id model.CardID, path string) error
	GetCardImage(ctx context.Context, id model.CardID) (string, error)

	// Game records (mirror of in-memory game state)
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
}
