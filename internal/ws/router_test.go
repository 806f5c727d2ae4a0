package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/mocks"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/game"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/registry"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/token"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage/memory"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/testutil"
)

// recorderSender captures outbound events instead of writing to a socket
type recorderSender struct {
	events []any
}

func (r *recorderSender) SendEvent(event any) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recorderSender) Close() error {
	return nil
}

type RouterSuite struct {
	suite.Suite
	storage  *memory.Storage
	tokens   *token.Service
	registry *registry.Service
	games    *game.Controller
	router   *Router
	ctx      context.Context

	aliceConn   *registry.Connection
	aliceSender *recorderSender
	aliceToken  string
	bobConn     *registry.Connection
	bobSender   *recorderSender
	bobToken    string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()

	s.storage = memory.New()
	s.tokens = token.New(clk, token.Config{Secret: []byte("test-secret")})
	s.registry = registry.New(s.storage, logger)
	s.games = game.NewController(s.storage, clk, rnd, logger)
	s.router = NewRouter(s.tokens, s.registry, s.games, s.storage, rnd, logger)
	s.ctx = context.Background()

	// Mirror the production wiring: accepted actions broadcast through the
	// registry via the controller's change hook
	s.games.SetChangeHook(func(snap model.Game) {
		s.registry.Broadcast(model.GameStateEvent{
			Type:   model.EventGameState,
			GameID: snap.ID,
			State:  snap.State,
		})
	})

	s.aliceConn, s.aliceSender, s.aliceToken = s.connect("alice")
	s.bobConn, s.bobSender, s.bobToken = s.connect("bob")
}

func (s *RouterSuite) connect(username string) (*registry.Connection, *recorderSender, string) {
	sender := &recorderSender{}
	conn, err := s.registry.Admit(model.Identity{ID: model.UserID("id-" + username), Username: username}, sender)
	s.Require().NoError(err)
	t, err := s.tokens.Issue(username)
	s.Require().NoError(err)
	return conn, sender, t
}

func (s *RouterSuite) dispatch(conn *registry.Connection, msg model.ClientMessage) {
	s.router.Dispatch(s.ctx, conn, &msg)
}

// Authentication

func (s *RouterSuite) TestBadTokenDropsTheMessageSilently() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: "garbage", Message: "hi"})

	s.Empty(s.aliceSender.events)
	s.Empty(s.bobSender.events)
}

func (s *RouterSuite) TestRevokedTokenDropsTheMessage() {
	s.tokens.Revoke(s.aliceToken)

	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Message: "hi"})

	s.Empty(s.bobSender.events)
}

// Chat

func (s *RouterSuite) TestChatBroadcastsToEveryone() {
	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.RegisteredUser{
		ID:             "id-alice",
		Username:       "alice",
		ProfilePicture: "/pp/alice.png",
	}))

	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Message: "hello"})

	want := model.ChatEvent{
		Type:     model.EventChat,
		Message:  "hello",
		Owner:    "id-alice",
		PPPath:   "/pp/alice.png",
		Username: "alice",
	}
	s.Equal([]any{want}, s.aliceSender.events)
	s.Equal([]any{want}, s.bobSender.events)
}

func (s *RouterSuite) TestChatAttributionDegradesWithoutAStoredUser() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Message: "hello"})

	s.Require().Len(s.bobSender.events, 1)
	evt, ok := s.bobSender.events[0].(model.ChatEvent)
	s.Require().True(ok)
	s.Equal("alice", evt.Username)
	s.Empty(evt.Owner)
	s.Empty(evt.PPPath)
}

// Presence

func (s *RouterSuite) TestPresenceBroadcast() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageConnectedUsers})

	s.Require().Len(s.bobSender.events, 1)
	evt, ok := s.bobSender.events[0].(model.ConnectedUsersEvent)
	s.Require().True(ok)
	s.Require().Len(evt.Users, 2)
	s.Equal("alice", evt.Users[0].Username)
	s.Equal("bob", evt.Users[1].Username)
}

// Shared card

func (s *RouterSuite) TestCardRequestAnswersOnlyTheRequester() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageCardRequest})

	s.Require().Len(s.aliceSender.events, 1)
	s.Empty(s.bobSender.events)

	evt, ok := s.aliceSender.events[0].(model.CardChangeEvent)
	s.Require().True(ok)
	s.GreaterOrEqual(int(evt.Card.ID), 1)
	s.LessOrEqual(int(evt.Card.ID), model.CatalogSize)
}

func (s *RouterSuite) TestCardRequestIsStableAcrossRequesters() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageCardRequest})
	s.dispatch(s.bobConn, model.ClientMessage{AuthToken: s.bobToken, Type: model.MessageCardRequest})

	aliceEvt := s.aliceSender.events[0].(model.CardChangeEvent)
	bobEvt := s.bobSender.events[0].(model.CardChangeEvent)
	s.Equal(aliceEvt.Card.ID, bobEvt.Card.ID)
}

func (s *RouterSuite) TestCardRequestJoinsTheStoredImage() {
	// Peek at the card the table will reveal, then register an image for it
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageCardRequest})
	first := s.aliceSender.events[0].(model.CardChangeEvent)
	s.Require().NoError(s.storage.SaveCardImage(s.ctx, first.Card.ID, "/cards/img.png"))

	s.dispatch(s.bobConn, model.ClientMessage{AuthToken: s.bobToken, Type: model.MessageCardRequest})

	bobEvt := s.bobSender.events[0].(model.CardChangeEvent)
	s.Equal("/cards/img.png", bobEvt.Card.Image)
}

// Hands

func (s *RouterSuite) TestHandRequestStartsEmpty() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageHandRequest})

	s.Require().Len(s.aliceSender.events, 1)
	evt, ok := s.aliceSender.events[0].(model.PlayerHandEvent)
	s.Require().True(ok)
	s.Empty(evt.Hand)
	s.Empty(s.bobSender.events)
}

func (s *RouterSuite) TestAddCardGrowsTheRequestersHand() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageAddCardToHand})
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessageAddCardToHand})

	s.Require().Len(s.aliceSender.events, 2)
	evt, ok := s.aliceSender.events[1].(model.PlayerHandEvent)
	s.Require().True(ok)
	s.Len(evt.Hand, 2)
	s.Empty(s.bobSender.events)
}

// Game actions

func (s *RouterSuite) startedGame() model.Game {
	g, err := s.games.Create(s.ctx, model.GameTypeWar)
	s.Require().NoError(err)
	_, err = s.games.Join(s.ctx, g.ID, "alice")
	s.Require().NoError(err)
	snap, err := s.games.Join(s.ctx, g.ID, "bob")
	s.Require().NoError(err)

	// The two joins broadcast through the change hook; clear the recorders
	// so each test observes only its own traffic
	s.aliceSender.events = nil
	s.bobSender.events = nil
	return snap
}

func (s *RouterSuite) TestPlayerActionWithoutPayload() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: model.MessagePlayerAction})

	s.Require().Len(s.aliceSender.events, 1)
	evt, ok := s.aliceSender.events[0].(model.ErrorEvent)
	s.Require().True(ok)
	s.Equal("INVALID_ACTION", evt.Code)
	s.Empty(s.bobSender.events)
}

func (s *RouterSuite) TestAcceptedActionBroadcastsTheNewState() {
	snap := s.startedGame()
	card := snap.State.Hands["alice"][0]

	s.dispatch(s.aliceConn, model.ClientMessage{
		AuthToken: s.aliceToken,
		Type:      model.MessagePlayerAction,
		GameID:    snap.ID,
		Action:    &model.GameAction{Type: model.ActionPlayCard, CardID: card},
	})

	s.Require().Len(s.aliceSender.events, 1)
	s.Require().Len(s.bobSender.events, 1)

	evt, ok := s.bobSender.events[0].(model.GameStateEvent)
	s.Require().True(ok)
	s.Equal(snap.ID, evt.GameID)
	s.Equal(model.PlayerID("bob"), evt.State.CurrentTurn)
	s.Equal(card, evt.State.Played["alice"])
}

func (s *RouterSuite) TestRejectedActionAnswersOnlyTheOffender() {
	snap := s.startedGame()
	card := snap.State.Hands["bob"][0]

	// Bob acts out of turn
	s.dispatch(s.bobConn, model.ClientMessage{
		AuthToken: s.bobToken,
		Type:      model.MessagePlayerAction,
		GameID:    snap.ID,
		Action:    &model.GameAction{Type: model.ActionPlayCard, CardID: card},
	})

	s.Require().Len(s.bobSender.events, 1)
	evt, ok := s.bobSender.events[0].(model.ErrorEvent)
	s.Require().True(ok)
	s.Equal("NOT_YOUR_TURN", evt.Code)
	s.Empty(s.aliceSender.events)
}

func (s *RouterSuite) TestActionCannotImpersonateAnotherPlayer() {
	snap := s.startedGame()
	card := snap.State.Hands["alice"][0]

	// Bob's token acts; alice's card is not in bob's hand and it is not
	// bob's turn, so the play must fail regardless of the connection used
	s.dispatch(s.bobConn, model.ClientMessage{
		AuthToken: s.bobToken,
		Type:      model.MessagePlayerAction,
		GameID:    snap.ID,
		Action:    &model.GameAction{Type: model.ActionPlayCard, CardID: card},
	})

	s.Require().Len(s.bobSender.events, 1)
	_, ok := s.bobSender.events[0].(model.ErrorEvent)
	s.True(ok)
}

func (s *RouterSuite) TestActionOnUnknownGame() {
	s.dispatch(s.aliceConn, model.ClientMessage{
		AuthToken: s.aliceToken,
		Type:      model.MessagePlayerAction,
		GameID:    "nope",
		Action:    &model.GameAction{Type: model.ActionPlayCard, CardID: 1},
	})

	s.Require().Len(s.aliceSender.events, 1)
	evt, ok := s.aliceSender.events[0].(model.ErrorEvent)
	s.Require().True(ok)
	s.Equal("GAME_NOT_FOUND", evt.Code)
}

// Unknown messages

func (s *RouterSuite) TestUnknownTypeAnswersOnlyTheSender() {
	s.dispatch(s.aliceConn, model.ClientMessage{AuthToken: s.aliceToken, Type: "telepathy"})

	s.Require().Len(s.aliceSender.events, 1)
	evt, ok := s.aliceSender.events[0].(model.ErrorEvent)
	s.Require().True(ok)
	s.Equal("UNKNOWN_MESSAGE", evt.Code)
	s.Empty(s.bobSender.events)
}
