package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/handler"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/middleware"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/auth"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
	// SocketHandler serves the realtime websocket endpoint. It authenticates
	// its own token query parameter, so it mounts outside the Auth middleware.
	SocketHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for registering/logging in)
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	userProtected := api.PathPrefix("/users").Subrouter()
	userProtected.Use(authMiddleware)
	userProtected.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)
	userProtected.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{gameId}/join", gameHandler.Join).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Realtime endpoint. Recovery only: the connection is long-lived, so the
	// per-request logging wrapper would report it as a single giant request.
	if cfg.SocketHandler != nil {
		r.Handle("/ws", recoveryMiddleware(cfg.SocketHandler)).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
