package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.RegisteredUser{
		ID:             "user-1",
		Username:       "alice",
		PasswordHash:   "$2a$10$hash",
		ProfilePicture: "/pp/alice.png",
		CreatedAt:      time.Now(),
	}

	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	got, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user, got)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestDeleteUser() {
	user := &model.RegisteredUser{ID: "user-1", Username: "alice"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	s.Require().NoError(s.storage.DeleteUser(s.ctx, "alice"))

	_, err := s.storage.GetUser(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestDeleteUserNotFoundIsANoOp() {
	s.NoError(s.storage.DeleteUser(s.ctx, "nobody"))
}

// Card image tests

func (s *StorageSuite) TestSaveAndGetCardImage() {
	s.Require().NoError(s.storage.SaveCardImage(s.ctx, 12, "/cards/king_hearts.png"))

	path, err := s.storage.GetCardImage(s.ctx, 12)
	s.Require().NoError(err)
	s.Equal("/cards/king_hearts.png", path)
}

func (s *StorageSuite) TestGetCardImageNotFound() {
	_, err := s.storage.GetCardImage(s.ctx, 12)
	s.ErrorIs(err, model.ErrCardNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:      "game-1",
		Type:    model.GameTypeWar,
		Players: []model.PlayerID{"alice", "bob"},
		State: model.GameState{
			Phase:       model.PhasePlaying,
			CurrentTurn: "alice",
			Hands: map[model.PlayerID][]model.CardID{
				"alice": {1, 2},
				"bob":   {3, 4},
			},
		},
	}

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, got)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameOverwrites() {
	game := &model.Game{ID: "game-1", State: model.GameState{Phase: model.PhaseWaiting}}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	updated := &model.Game{ID: "game-1", State: model.GameState{Phase: model.PhaseFinished}}
	s.Require().NoError(s.storage.SaveGame(s.ctx, updated))

	got, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.PhaseFinished, got.State.Phase)
}

func (s *StorageSuite) TestDeleteGame() {
	game := &model.Game{ID: "game-1"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}
