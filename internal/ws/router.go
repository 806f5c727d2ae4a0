package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/random"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/deck"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/game"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/registry"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/token"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage"
)

// Router decodes inbound typed messages, resolves the acting identity per
// message, dispatches to the right handler and serializes outbound events.
// A bad message is logged and dropped; the connection only tears down when
// the transport itself errors.
type Router struct {
	tokens   *token.Service
	registry *registry.Service
	games    *game.Controller
	storage  storage.Storage
	logger   *slog.Logger

	// Legacy single-pile mode: one shared table deck for ad hoc draws
	tableMu sync.Mutex
	table   *deck.Deck
	current model.CardID // last revealed shared card, 0 = none yet
}

// NewRouter creates a message router with a freshly shuffled table deck
func NewRouter(
	tokens *token.Service,
	reg *registry.Service,
	games *game.Controller,
	store storage.Storage,
	rnd random.Random,
	logger *slog.Logger,
) *Router {
	table := deck.New()
	table.Shuffle(rnd)
	return &Router{
		tokens:   tokens,
		registry: reg,
		games:    games,
		storage:  store,
		logger:   logger.With(slog.String("component", "router")),
		table:    table,
	}
}

// Dispatch handles one decoded inbound message from a connection. Messages
// from the same connection arrive here in order because each connection has
// a single read loop.
func (r *Router) Dispatch(ctx context.Context, conn *registry.Connection, msg *model.ClientMessage) {
	username, err := r.tokens.Verify(msg.AuthToken)
	if err != nil {
		// Fail the message silently; the channel stays open
		r.logger.Warn("dropping message with bad token",
			slog.String("connection_user", conn.Identity.Username))
		return
	}

	switch {
	case msg.IsChat():
		r.handleChat(ctx, username, msg.Message)
	case msg.Type == model.MessageConnectedUsers:
		r.handlePresence(ctx)
	case msg.Type == model.MessageCardRequest:
		r.handleCardRequest(ctx, conn)
	case msg.Type == model.MessageHandRequest:
		r.handleHandRequest(ctx, conn)
	case msg.Type == model.MessageAddCardToHand:
		r.handleAddCard(ctx, conn)
	case msg.Type == model.MessagePlayerAction:
		r.handlePlayerAction(ctx, conn, username, msg)
	default:
		r.logger.Warn("unknown message type",
			slog.String("type", string(msg.Type)),
			slog.String("username", username))
		_ = r.registry.Send(conn, model.ErrorEvent{
			Type:    model.EventError,
			Code:    "UNKNOWN_MESSAGE",
			Message: model.ErrUnknownMessage.Error(),
		})
	}
}

// handleChat broadcasts a chat message to everyone, attributed to the
// identity the token resolved to.
func (r *Router) handleChat(ctx context.Context, username, text string) {
	event := model.ChatEvent{
		Type:     model.EventChat,
		Message:  text,
		Username: username,
	}
	// Identity lookup is best-effort; a missing profile degrades the
	// attribution, never the delivery
	if user, err := r.storage.GetUser(ctx, username); err == nil {
		event.Owner = user.ID
		event.PPPath = user.ProfilePicture
	}
	r.registry.Broadcast(event)
}

// handlePresence broadcasts the current presence list to everyone
func (r *Router) handlePresence(ctx context.Context) {
	r.registry.Broadcast(model.ConnectedUsersEvent{
		Type:  model.EventConnectedUsers,
		Users: r.registry.Snapshot(ctx),
	})
}

// handleCardRequest replies to the requester with the shared face-up card,
// revealing the next pile card the first time. An exhausted pile answers
// with the card back.
func (r *Router) handleCardRequest(ctx context.Context, conn *registry.Connection) {
	r.tableMu.Lock()
	if r.current == 0 {
		if id, ok := r.table.Pop(); ok {
			r.current = id
		}
	}
	current := r.current
	r.tableMu.Unlock()

	if current == 0 {
		current = model.CardBackID
	}
	_ = r.registry.Send(conn, model.CardChangeEvent{
		Type: model.EventCardChange,
		Card: r.cardWithImage(ctx, current),
	})
}

// handleHandRequest replies to the requester with its own legacy-mode hand
func (r *Router) handleHandRequest(ctx context.Context, conn *registry.Connection) {
	_ = r.registry.Send(conn, model.PlayerHandEvent{
		Type: model.EventPlayerHand,
		Hand: r.cardsWithImages(ctx, r.registry.HandOf(conn)),
	})
}

// handleAddCard draws one card from the shared table pile into the
// requester's connection hand. An exhausted pile deals nothing; the reply
// simply reflects the unchanged hand.
func (r *Router) handleAddCard(ctx context.Context, conn *registry.Connection) {
	r.tableMu.Lock()
	id, ok := r.table.Pop()
	r.tableMu.Unlock()

	if ok {
		r.registry.AppendToHand(conn, id)
	}
	r.handleHandRequest(ctx, conn)
}

// handlePlayerAction applies a game move. Acceptance reaches everyone via
// the controller's change hook; a rule violation is reported to the
// offending connection only and produces no state change.
func (r *Router) handlePlayerAction(ctx context.Context, conn *registry.Connection, username string, msg *model.ClientMessage) {
	if msg.Action == nil || msg.GameID == "" {
		_ = r.registry.Send(conn, model.ErrorEvent{
			Type:    model.EventError,
			Code:    "INVALID_ACTION",
			Message: "player_action requires gameId and action",
		})
		return
	}

	if _, err := r.games.Apply(ctx, msg.GameID, model.PlayerID(username), *msg.Action); err != nil {
		r.logger.Info("game action rejected",
			slog.String("game_id", string(msg.GameID)),
			slog.String("username", username),
			slog.String("reason", err.Error()))
		_ = r.registry.Send(conn, model.ErrorEvent{
			Type:    model.EventError,
			Code:    rejectionCode(err),
			Message: err.Error(),
		})
	}
}

// cardWithImage expands a card id into its catalog entry plus stored image
// reference. A missing image reference degrades to an empty path.
func (r *Router) cardWithImage(ctx context.Context, id model.CardID) model.Card {
	card, err := deck.Metadata(id)
	if err != nil {
		return model.Card{ID: id}
	}
	if path, err := r.storage.GetCardImage(ctx, id); err == nil {
		card.Image = path
	}
	return card
}

func (r *Router) cardsWithImages(ctx context.Context, ids []model.CardID) []model.Card {
	cards := make([]model.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, r.cardWithImage(ctx, id))
	}
	return cards
}

// rejectionCode maps game-rule violations to wire error codes
func rejectionCode(err error) string {
	switch {
	case errors.Is(err, model.ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, model.ErrCardNotInHand):
		return "CARD_NOT_IN_HAND"
	case errors.Is(err, model.ErrGameOver):
		return "GAME_OVER"
	case errors.Is(err, model.ErrGameNotFound):
		return "GAME_NOT_FOUND"
	case errors.Is(err, model.ErrNotInGame):
		return "NOT_IN_GAME"
	case errors.Is(err, model.ErrInvalidAction):
		return "INVALID_ACTION"
	default:
		return "INTERNAL_ERROR"
	}
}
