package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

// captureSender records events in place of a live socket
type captureSender struct {
	events []any
}

func (c *captureSender) SendEvent(event any) error {
	c.events = append(c.events, event)
	return nil
}

func (c *captureSender) Close() error { return nil }

func stateEvents(events []any) []model.GameStateEvent {
	var out []model.GameStateEvent
	for _, e := range events {
		if gs, ok := e.(model.GameStateEvent); ok {
			out = append(out, gs)
		}
	}
	return out
}

// TestFullSessionFlow drives the wired application through a complete
// session: account creation, login, socket admission, game setup and play,
// using only the services the factory assembled.
func TestFullSessionFlow(t *testing.T) {
	app := NewTestApp()
	ctx := context.Background()

	// Accounts
	_, err := app.AuthService.Register(ctx, "alice", "hunter2", "/pp/alice.png")
	require.NoError(t, err)
	_, err = app.AuthService.Register(ctx, "bob", "hunter2", "")
	require.NoError(t, err)

	aliceToken, aliceID, err := app.AuthService.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	bobToken, bobID, err := app.AuthService.Login(ctx, "bob", "hunter2")
	require.NoError(t, err)

	// The login token is the same credential the socket layer verifies
	username, err := app.TokenService.Verify(aliceToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// Registration timestamps come from the injected clock
	user, err := app.Storage.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, app.MockClock.Now(), user.CreatedAt)

	// Socket admission
	aliceSender := &captureSender{}
	bobSender := &captureSender{}
	aliceConn, err := app.Registry.Admit(aliceID, aliceSender)
	require.NoError(t, err)
	_, err = app.Registry.Admit(bobID, bobSender)
	require.NoError(t, err)
	require.Equal(t, 2, app.Registry.Count())

	// Game setup over the controller, as the HTTP handlers drive it
	g, err := app.GameController.Create(ctx, model.GameTypeWar)
	require.NoError(t, err)
	_, err = app.GameController.Join(ctx, g.ID, "alice")
	require.NoError(t, err)
	snap, err := app.GameController.Join(ctx, g.ID, "bob")
	require.NoError(t, err)

	require.Equal(t, model.PhasePlaying, snap.State.Phase)
	require.Len(t, snap.State.Hands["alice"], 26)
	require.Len(t, snap.State.Hands["bob"], 26)

	// The roster-filling join reached both sockets through the change hook
	require.NotEmpty(t, stateEvents(aliceSender.events))
	require.NotEmpty(t, stateEvents(bobSender.events))
	aliceSender.events = nil
	bobSender.events = nil

	// Alice plays through the socket router
	card := snap.State.Hands["alice"][0]
	app.SocketRouter.Dispatch(ctx, aliceConn, &model.ClientMessage{
		AuthToken: aliceToken,
		Type:      model.MessagePlayerAction,
		GameID:    g.ID,
		Action:    &model.GameAction{Type: model.ActionPlayCard, CardID: card},
	})

	bobStates := stateEvents(bobSender.events)
	require.Len(t, bobStates, 1)
	assert.Equal(t, model.PlayerID("bob"), bobStates[0].State.CurrentTurn)
	assert.Equal(t, card, bobStates[0].State.Played["alice"])

	// The accepted play was persisted
	stored, err := app.Storage.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, card, stored.State.Played["alice"])

	// Bob's login token still works; logging out ends his session everywhere
	_, err = app.TokenService.Verify(bobToken)
	require.NoError(t, err)
	app.AuthService.Logout(bobToken)
	_, err = app.TokenService.Verify(bobToken)
	require.Error(t, err)
}

// TestMockedDealsAreReproducible pins the test factory's shuffle: two apps
// with identical (empty) random queues must deal identical hands.
func TestMockedDealsAreReproducible(t *testing.T) {
	ctx := context.Background()

	deal := func(app *TestApp) model.GameState {
		g, err := app.GameController.Create(ctx, model.GameTypeWar)
		require.NoError(t, err)
		_, err = app.GameController.Join(ctx, g.ID, "alice")
		require.NoError(t, err)
		snap, err := app.GameController.Join(ctx, g.ID, "bob")
		require.NoError(t, err)
		return snap.State
	}

	a := deal(NewTestApp())
	b := deal(NewTestApp())

	assert.Equal(t, a.Hands["alice"], b.Hands["alice"])
	assert.Equal(t, a.Hands["bob"], b.Hands["bob"])
}
