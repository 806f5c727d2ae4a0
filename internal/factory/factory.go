package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/clock"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/random"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/auth"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/game"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/registry"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/token"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage/memory"
	redisstorage "github.com/ASAPmarius/Projet-WEB-sub000/internal/storage/redis"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	TokenService   *token.Service
	AuthService    *auth.Service
	Registry       *registry.Service
	GameController *game.Controller

	// Realtime layer
	SocketRouter  *ws.Router
	SocketHandler *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// TokenConfig holds signing settings for session tokens (optional)
	// A zero value generates an ephemeral signing secret
	TokenConfig token.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.TokenConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, tokenCfg token.Config, logger *slog.Logger) *App {
	// Create services
	tokenService := token.New(clk, tokenCfg)
	authService := auth.New(store, tokenService, clk, logger)
	reg := registry.New(store, logger)
	gameController := game.NewController(store, clk, rnd, logger)

	// Every accepted state change fans out to all live connections, whether
	// it originated over HTTP (join filling the roster) or the socket.
	gameController.SetChangeHook(func(snap model.Game) {
		reg.Broadcast(model.GameStateEvent{
			Type:   model.EventGameState,
			GameID: snap.ID,
			State:  snap.State,
		})
	})

	socketRouter := ws.NewRouter(tokenService, reg, gameController, store, rnd, logger)
	socketHandler := ws.NewHandler(tokenService, reg, socketRouter, store, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		TokenService:   tokenService,
		AuthService:    authService,
		Registry:       reg,
		GameController: gameController,
		SocketRouter:   socketRouter,
		SocketHandler:  socketHandler,
	}
}
