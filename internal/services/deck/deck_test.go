package deck

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/mocks"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/random"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

type CatalogSuite struct {
	suite.Suite
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) TestMetadataFirstCard() {
	card, err := Metadata(1)
	s.Require().NoError(err)
	s.Equal(model.SuitHearts, card.Suit)
	s.Equal("2", card.Rank)
	s.Equal(2, card.Value)
}

func (s *CatalogSuite) TestMetadataAceOfHearts() {
	card, err := Metadata(13)
	s.Require().NoError(err)
	s.Equal(model.SuitHearts, card.Suit)
	s.Equal("ace", card.Rank)
	s.Equal(14, card.Value)
}

func (s *CatalogSuite) TestMetadataSuitBoundaries() {
	for id, want := range map[model.CardID]model.Suit{
		1:  model.SuitHearts,
		13: model.SuitHearts,
		14: model.SuitDiamonds,
		26: model.SuitDiamonds,
		27: model.SuitClubs,
		39: model.SuitClubs,
		40: model.SuitSpades,
		52: model.SuitSpades,
	} {
		card, err := Metadata(id)
		s.Require().NoError(err)
		s.Equal(want, card.Suit, "card %d", id)
	}
}

func (s *CatalogSuite) TestMetadataJokerAndBack() {
	joker, err := Metadata(model.JokerID)
	s.Require().NoError(err)
	s.Equal("joker", joker.Rank)
	s.Empty(joker.Suit)
	s.Zero(joker.Value)

	back, err := Metadata(model.CardBackID)
	s.Require().NoError(err)
	s.Equal("back", back.Rank)
	s.Zero(back.Value)
}

func (s *CatalogSuite) TestMetadataUnknownID() {
	_, err := Metadata(0)
	s.ErrorIs(err, model.ErrCardNotFound)

	_, err = Metadata(55)
	s.ErrorIs(err, model.ErrCardNotFound)
}

func (s *CatalogSuite) TestValueMatchesMetadata() {
	for id := model.CardID(1); id <= 52; id++ {
		card, err := Metadata(id)
		s.Require().NoError(err)
		s.Equal(card.Value, Value(id))
	}
}

func (s *CatalogSuite) TestMetadataReconstructsTheID() {
	// (suit, rank) must round-trip to the id that produced it
	suitIndex := map[model.Suit]int{
		model.SuitHearts:   0,
		model.SuitDiamonds: 1,
		model.SuitClubs:    2,
		model.SuitSpades:   3,
	}
	for id := 1; id <= model.StandardCardCount; id++ {
		card, err := Metadata(model.CardID(id))
		s.Require().NoError(err)
		rebuilt := suitIndex[card.Suit]*13 + (card.Value - 2) + 1
		s.Equal(id, rebuilt, "card %d", id)
	}
}

func (s *CatalogSuite) TestValueZeroForNonStandard() {
	s.Zero(Value(model.JokerID))
	s.Zero(Value(model.CardBackID))
	s.Zero(Value(0))
}

type DeckSuite struct {
	suite.Suite
	deck *Deck
}

func TestDeckSuite(t *testing.T) {
	suite.Run(t, new(DeckSuite))
}

func (s *DeckSuite) SetupTest() {
	s.deck = New()
}

// assertClosed verifies every catalog card lives in exactly one location
func (s *DeckSuite) assertClosed() {
	s.Len(s.deck.Partition(), model.CatalogSize)
}

func (s *DeckSuite) TestNewDeckHoldsFullCatalog() {
	s.Equal(model.CatalogSize, s.deck.PileSize())
	for id, loc := range s.deck.Partition() {
		s.Equal(LocationPile, loc, "card %d", id)
	}
}

func (s *DeckSuite) TestShufflePreservesTheCatalog() {
	s.deck.Shuffle(random.New())

	s.Equal(model.CatalogSize, s.deck.PileSize())
	s.assertClosed()
}

func (s *DeckSuite) TestShuffleIsDeterministicWithMockRandom() {
	a, b := New(), New()
	ra, rb := mocks.NewMockRandom(), mocks.NewMockRandom()
	ra.QueueIntn(1, 2, 3)
	rb.QueueIntn(1, 2, 3)

	a.Shuffle(ra)
	b.Shuffle(rb)

	s.Equal(a.pile, b.pile)
}

func (s *DeckSuite) TestShuffleFrequenciesAreUniform() {
	// Deal the pile down to four cards and shuffle repeatedly: each of the
	// 24 orderings should land near trials/24. The delta band is ~7 standard
	// deviations, so a correct shuffle essentially cannot trip it.
	d := New()
	d.Deal("x", model.CatalogSize-4)
	s.Require().Equal(4, d.PileSize())

	rnd := random.New()
	const trials = 12000
	counts := make(map[string]int, 24)
	for i := 0; i < trials; i++ {
		d.Shuffle(rnd)
		counts[fmt.Sprint(d.pile)]++
	}

	s.Len(counts, 24)
	for perm, n := range counts {
		s.InDelta(trials/24, n, 150, "ordering %s", perm)
	}
}

func (s *DeckSuite) TestDealMovesCardsToHand() {
	dealt := s.deck.Deal("alice", 5)

	s.Len(dealt, 5)
	s.Equal(5, s.deck.HandSize("alice"))
	s.Equal(model.CatalogSize-5, s.deck.PileSize())
	s.Equal(dealt, s.deck.Hand("alice"))
	s.assertClosed()
}

func (s *DeckSuite) TestDealShortPile() {
	s.deck.Deal("alice", 50)
	dealt := s.deck.Deal("bob", 10)

	s.Len(dealt, 4)
	s.Zero(s.deck.PileSize())
	s.assertClosed()
}

func (s *DeckSuite) TestPopDiscardsFromPileFront() {
	id, ok := s.deck.Pop()
	s.True(ok)
	s.Equal(model.CardID(1), id)
	s.Equal(LocationDiscard, s.deck.Partition()[id])
	s.assertClosed()
}

func (s *DeckSuite) TestPopEmptyPile() {
	s.deck.Deal("alice", model.CatalogSize)

	_, ok := s.deck.Pop()
	s.False(ok)
}

func (s *DeckSuite) TestRemoveFromHand() {
	s.deck.Deal("alice", 3)

	s.Require().NoError(s.deck.RemoveFromHand("alice", 2))
	s.Equal([]model.CardID{1, 3}, s.deck.Hand("alice"))
}

func (s *DeckSuite) TestRemoveFromHandMissingCard() {
	s.deck.Deal("alice", 3)

	err := s.deck.RemoveFromHand("alice", 50)
	s.ErrorIs(err, model.ErrCardNotInHand)
	s.Equal(3, s.deck.HandSize("alice"))
}

func (s *DeckSuite) TestPopFromHandTakesTheFront() {
	s.deck.Deal("alice", 3)

	id, ok := s.deck.PopFromHand("alice")
	s.True(ok)
	s.Equal(model.CardID(1), id)
	s.Equal(2, s.deck.HandSize("alice"))
}

func (s *DeckSuite) TestPopFromEmptyHand() {
	_, ok := s.deck.PopFromHand("alice")
	s.False(ok)
}

func (s *DeckSuite) TestCollectWarAppendsInAccumulationOrder() {
	s.deck.Deal("alice", 2)
	s.deck.Deal("bob", 2)

	a, _ := s.deck.PopFromHand("alice")
	b, _ := s.deck.PopFromHand("bob")
	s.deck.PushWar(a, b)
	s.deck.CollectWar("bob")

	s.Empty(s.deck.WarPile())
	s.Equal([]model.CardID{4, 1, 3}, s.deck.Hand("bob"))
	s.assertClosed()
}

func (s *DeckSuite) TestDiscardSetsCardsAside() {
	s.deck.Discard(model.JokerID, model.CardBackID)

	s.Equal(model.StandardCardCount, s.deck.PileSize())
	part := s.deck.Partition()
	s.Equal(LocationDiscard, part[model.JokerID])
	s.Equal(LocationDiscard, part[model.CardBackID])
	s.assertClosed()
}

func (s *DeckSuite) TestLoadRestoresAKnownOrder() {
	order := []model.CardID{3, 1, 2}
	d := &Deck{hands: make(map[model.PlayerID][]model.CardID)}
	d.Load(order)

	id, ok := d.Pop()
	s.True(ok)
	s.Equal(model.CardID(3), id)
}

func (s *DeckSuite) TestPartitionStaysClosedThroughAGame() {
	s.deck.Discard(model.JokerID, model.CardBackID)
	s.deck.Shuffle(random.New())
	s.deck.Deal("alice", 26)
	s.deck.Deal("bob", 26)

	for i := 0; i < 10; i++ {
		a, _ := s.deck.PopFromHand("alice")
		b, _ := s.deck.PopFromHand("bob")
		s.deck.PushWar(a, b)
		if i%2 == 0 {
			s.deck.CollectWar("alice")
		} else {
			s.deck.CollectWar("bob")
		}
		s.assertClosed()
	}

	s.Equal(model.StandardCardCount,
		s.deck.HandSize("alice")+s.deck.HandSize("bob")+len(s.deck.WarPile()))
}
