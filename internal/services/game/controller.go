package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/clock"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/random"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/deck"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage"
)

// ChangeHook is invoked with a snapshot after every accepted state change.
// Invocations for the same game arrive in application order; a slow hook
// delays later notifications for that game, never later actions.
type ChangeHook func(model.Game)

// game is the in-memory aggregate for one running game. The mutex serializes
// every mutation and every snapshot, so broadcast readers never observe a
// torn state.
type game struct {
	mu sync.Mutex
	// dispatchMu serializes persist+notify in application order. It is
	// acquired before mu is released, so snapshots leave in the order they
	// were produced, and held without mu, so fan-out never blocks play.
	dispatchMu sync.Mutex

	id        model.GameID
	gameType  string
	createdAt time.Time
	updatedAt time.Time
	rules     Rules

	players     []model.PlayerID // join order
	phase       model.GamePhase
	currentTurn model.PlayerID
	round       int
	lastWinner  model.PlayerID

	deck  *deck.Deck
	trick []play // plays of the current trick, in order
}

// Controller owns every in-progress game and is the only component that
// mutates game state. Actions from different connections serialize at the
// per-game lock in arrival order.
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	onChange ChangeHook

	mu    sync.RWMutex
	games map[model.GameID]*game
}

// NewController creates a game controller
func NewController(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "game")),
		games:   make(map[model.GameID]*game),
	}
}

// SetChangeHook registers the game-state-changed callback. Call before the
// controller starts receiving actions.
func (c *Controller) SetChangeHook(hook ChangeHook) {
	c.onChange = hook
}

// Create starts a new game in the waiting phase
func (c *Controller) Create(ctx context.Context, gameType string) (model.Game, error) {
	now := c.clock.Now()
	g := &game{
		id:        model.GameID(uuid.NewString()),
		gameType:  gameType,
		createdAt: now,
		updatedAt: now,
		rules:     NewWarRules(),
		phase:     model.PhaseWaiting,
		deck:      deck.New(),
	}

	c.mu.Lock()
	c.games[g.id] = g
	c.mu.Unlock()

	snap := g.snapshot()
	c.persist(ctx, snap)

	c.logger.Info("game created",
		slog.String("game_id", string(g.id)),
		slog.String("type", gameType))
	return snap, nil
}

// Get returns a consistent snapshot of a game
func (c *Controller) Get(ctx context.Context, id model.GameID) (model.Game, error) {
	g, err := c.lookup(id)
	if err != nil {
		return model.Game{}, err
	}
	return g.snapshot(), nil
}

// Join seats a player. Joining a game you are already seated in is a no-op.
// When the roster fills, the game runs setup (shuffle, deal, first turn to
// the first joiner) and moves straight to playing.
func (c *Controller) Join(ctx context.Context, id model.GameID, player model.PlayerID) (model.Game, error) {
	g, err := c.lookup(id)
	if err != nil {
		return model.Game{}, err
	}

	g.mu.Lock()
	for _, p := range g.players {
		if p == player {
			snap := g.snapshotLocked()
			g.mu.Unlock()
			return snap, nil
		}
	}
	if g.phase != model.PhaseWaiting {
		g.mu.Unlock()
		return model.Game{}, model.ErrGameFull
	}

	g.players = append(g.players, player)
	g.updatedAt = c.clock.Now()

	if len(g.players) == g.rules.RequiredPlayers() {
		g.phase = model.PhaseSetup
		g.deck.Shuffle(c.random)
		g.rules.InitialDeal(g.deck, g.players)
		g.currentTurn = g.players[0]
		g.phase = model.PhasePlaying
		c.logger.Info("game started",
			slog.String("game_id", string(g.id)),
			slog.Int("players", len(g.players)))
	}

	snap := g.snapshotLocked()
	g.dispatchMu.Lock()
	g.mu.Unlock()

	c.persist(ctx, snap)
	c.notify(snap)
	g.dispatchMu.Unlock()
	return snap, nil
}

// Apply validates and applies one player action. Rejections leave the state
// untouched; accepted actions may resolve a trick, run a full war, or finish
// the game before returning.
func (c *Controller) Apply(ctx context.Context, id model.GameID, player model.PlayerID, action model.GameAction) (model.Game, error) {
	g, err := c.lookup(id)
	if err != nil {
		return model.Game{}, err
	}

	g.mu.Lock()
	snap, err := g.apply(player, action, c.clock.Now())
	if err != nil {
		g.mu.Unlock()
		return model.Game{}, err
	}
	g.dispatchMu.Lock()
	g.mu.Unlock()

	c.persist(ctx, snap)
	c.notify(snap)
	g.dispatchMu.Unlock()
	return snap, nil
}

func (c *Controller) lookup(id model.GameID) (*game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return g, nil
}

// persist mirrors the snapshot to storage. Fire-and-forget: a storage
// failure is logged and never touches in-memory state.
func (c *Controller) persist(ctx context.Context, snap model.Game) {
	if err := c.storage.SaveGame(ctx, &snap); err != nil {
		c.logger.Warn("game persist failed",
			slog.String("game_id", string(snap.ID)),
			slog.String("error", err.Error()))
	}
}

func (c *Controller) notify(snap model.Game) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}

// apply runs under the game lock
func (g *game) apply(player model.PlayerID, action model.GameAction, now time.Time) (model.Game, error) {
	if g.phase == model.PhaseFinished {
		return model.Game{}, model.ErrGameOver
	}
	if action.Type != model.ActionPlayCard {
		return model.Game{}, model.ErrInvalidAction
	}
	if !g.seated(player) {
		return model.Game{}, model.ErrNotInGame
	}
	if g.phase != model.PhasePlaying || player != g.currentTurn {
		return model.Game{}, model.ErrNotYourTurn
	}

	if err := g.deck.RemoveFromHand(player, action.CardID); err != nil {
		return model.Game{}, err
	}

	// The played card sits in the contention pile until the trick resolves,
	// so the catalog partition stays closed between the two plays.
	g.deck.PushWar(action.CardID)
	g.trick = append(g.trick, play{player: player, card: action.CardID})
	g.currentTurn = g.nextAfter(player)

	if len(g.trick) == g.rules.RequiredPlayers() {
		g.lastWinner = g.rules.ResolveTrick(g.deck, g.trick)
		g.trick = g.trick[:0]
		g.round++
	}

	if winner, done := g.rules.IsTerminal(g.deck, g.players); done {
		g.phase = model.PhaseFinished
		g.lastWinner = winner
		g.currentTurn = ""
	}

	g.updatedAt = now
	return g.snapshotLocked(), nil
}

func (g *game) seated(player model.PlayerID) bool {
	for _, p := range g.players {
		if p == player {
			return true
		}
	}
	return false
}

func (g *game) nextAfter(player model.PlayerID) model.PlayerID {
	for i, p := range g.players {
		if p == player {
			return g.players[(i+1)%len(g.players)]
		}
	}
	return player
}

func (g *game) snapshot() model.Game {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// snapshotLocked builds the serializable view. Caller holds g.mu.
func (g *game) snapshotLocked() model.Game {
	played := make(map[model.PlayerID]model.CardID, len(g.trick))
	inTrick := make(map[model.CardID]bool, len(g.trick))
	for _, p := range g.trick {
		played[p.player] = p.card
		inTrick[p.card] = true
	}

	// The view separates cards merely played this trick from cards escalated
	// into a war, even though both live in the contention pile internally.
	warPile := make([]model.CardID, 0)
	for _, id := range g.deck.WarPile() {
		if !inTrick[id] {
			warPile = append(warPile, id)
		}
	}

	return model.Game{
		ID:        g.id,
		Type:      g.gameType,
		CreatedAt: g.createdAt,
		UpdatedAt: g.updatedAt,
		Players:   append([]model.PlayerID(nil), g.players...),
		State: model.GameState{
			Phase:       g.phase,
			CurrentTurn: g.currentTurn,
			Round:       g.round,
			Hands:       g.deck.Hands(),
			Played:      played,
			WarPile:     warPile,
			LastWinner:  g.lastWinner,
		},
	}
}
