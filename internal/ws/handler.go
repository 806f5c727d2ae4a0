package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/registry"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/token"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage"
)

// Handler upgrades HTTP requests to websocket connections and runs them
// through admission and the read loop.
type Handler struct {
	tokens   *token.Service
	registry *registry.Service
	router   *Router
	storage  storage.Storage
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates the websocket endpoint handler
func NewHandler(tokens *token.Service, reg *registry.Service, router *Router, store storage.Storage, logger *slog.Logger) *Handler {
	return &Handler{
		tokens:   tokens,
		registry: reg,
		router:   router,
		storage:  store,
		logger:   logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The HTTP layer serves the same origin as the socket; trusted
			// client posture per the rest of the protocol
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP authenticates the connection token, upgrades the transport and
// admits the connection into the registry. Authentication failures are
// terminal for the attempted connection: they refuse before upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	connToken := r.URL.Query().Get("token")
	username, err := h.tokens.Verify(connToken)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	identity := model.Identity{Username: username}
	if user, err := h.storage.GetUser(r.Context(), username); err == nil {
		identity = user.Identity()
	} else {
		h.logger.Warn("identity lookup failed at admission, degrading",
			slog.String("username", username))
	}

	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(sock, h.logger.With(slog.String("username", username)))

	conn, err := h.registry.Admit(identity, client)
	if err != nil {
		// Duplicate session: distinct close reason so the client can show
		// a specific message
		deadline := time.Now().Add(writeWait)
		_ = sock.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "already connected"),
			deadline)
		_ = sock.Close()
		return
	}

	h.broadcastPresence(r.Context())

	// The request context dies with the handshake request; the connection
	// outlives it
	ctx := context.Background()
	client.ReadLoop(func(msg *model.ClientMessage) {
		h.router.Dispatch(ctx, conn, msg)
	})

	// Every exit from the read loop is a disconnect: graceful close,
	// transport error or protocol violation all land here exactly once
	h.registry.Remove(conn)
	h.broadcastPresence(ctx)
}

func (h *Handler) broadcastPresence(ctx context.Context) {
	h.registry.Broadcast(model.ConnectedUsersEvent{
		Type:  model.EventConnectedUsers,
		Users: h.registry.Snapshot(ctx),
	})
}
