package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.RegisteredUser{
		ID:             "user-1",
		Username:       "alice",
		PasswordHash:   "$2a$10$hash",
		ProfilePicture: "/pp/alice.png",
		CreatedAt:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
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
			Round:       3,
			Hands: map[model.PlayerID][]model.CardID{
				"alice": {1, 2},
				"bob":   {3, 4},
			},
			Played:  map[model.PlayerID]model.CardID{"alice": 5},
			WarPile: []model.CardID{},
		},
	}

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
	s.Equal(game.State, got.State)
	s.Equal(game.Players, got.Players)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestLiveGameDoesNotExpire() {
	game := &model.Game{ID: "game-1", State: model.GameState{Phase: model.PhasePlaying}}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	s.mini.FastForward(48 * time.Hour)

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.NoError(err)
}

func (s *StorageSuite) TestFinishedGameExpires() {
	game := &model.Game{ID: "game-1", State: model.GameState{Phase: model.PhaseFinished}}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	// Still present before the TTL
	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)

	s.mini.FastForward(2 * time.Hour)

	_, err = s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	game := &model.Game{ID: "game-1"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}
