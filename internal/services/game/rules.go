package game

import (
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/deck"
)

// play is one card played into the current trick, in play order
type play struct {
	player model.PlayerID
	card   model.CardID
}

// Rules is the variant capability: base game mechanics stay in the
// controller, everything specific to a particular card game lives behind
// this interface.
type Rules interface {
	// RequiredPlayers is the roster size at which the game starts
	RequiredPlayers() int
	// InitialDeal partitions a freshly shuffled deck into starting hands
	InitialDeal(d *deck.Deck, players []model.PlayerID)
	// ResolveTrick resolves a completed trick. The played cards are already
	// in the war pile, in play order; the returned winner has collected it.
	ResolveTrick(d *deck.Deck, plays []play) model.PlayerID
	// IsTerminal reports whether the game is over and who won
	IsTerminal(d *deck.Deck, players []model.PlayerID) (model.PlayerID, bool)
}

// WarRules implements two-player War: higher card takes the trick, ties
// escalate into a war of one face-down plus one face-up card per player,
// recursively until the face-up cards differ or a hand runs out.
type WarRules struct{}

// NewWarRules creates the War rule set
func NewWarRules() *WarRules {
	return &WarRules{}
}

var _ Rules = (*WarRules)(nil)

// RequiredPlayers returns 2; War is strictly a two-seat game
func (r *WarRules) RequiredPlayers() int {
	return 2
}

// InitialDeal sets aside the joker and the card back (they carry no
// comparison value) and splits the remaining 52 cards 26/26 in join order.
func (r *WarRules) InitialDeal(d *deck.Deck, players []model.PlayerID) {
	d.Discard(model.JokerID, model.CardBackID)
	per := d.PileSize() / len(players)
	for _, p := range players {
		d.Deal(p, per)
	}
}

// ResolveTrick compares the two played cards. The higher value collects the
// pile; equal values trigger a war. A player whose hand is exhausted mid-war
// cannot contribute and loses the war, with the opponent collecting the
// entire pile.
func (r *WarRules) ResolveTrick(d *deck.Deck, plays []play) model.PlayerID {
	first, second := plays[0], plays[1]
	va, vb := deck.Value(first.card), deck.Value(second.card)

	for {
		if va != vb {
			winner := first.player
			if vb > va {
				winner = second.player
			}
			d.CollectWar(winner)
			return winner
		}

		// War: each player adds one face-down card, then one face-up card.
		// The face-down cards are consumed but never revealed.
		for _, p := range []model.PlayerID{first.player, second.player} {
			faceDown, ok := d.PopFromHand(p)
			if !ok {
				winner := other(p, first.player, second.player)
				d.CollectWar(winner)
				return winner
			}
			d.PushWar(faceDown)
		}

		faceUpA, ok := d.PopFromHand(first.player)
		if !ok {
			d.CollectWar(second.player)
			return second.player
		}
		d.PushWar(faceUpA)

		faceUpB, ok := d.PopFromHand(second.player)
		if !ok {
			d.CollectWar(first.player)
			return first.player
		}
		d.PushWar(faceUpB)

		va, vb = deck.Value(faceUpA), deck.Value(faceUpB)
	}
}

// IsTerminal reports the game over once a hand is empty while the opponent
// still holds cards; the opponent wins.
func (r *WarRules) IsTerminal(d *deck.Deck, players []model.PlayerID) (model.PlayerID, bool) {
	for i, p := range players {
		if d.HandSize(p) == 0 {
			opponent := players[(i+1)%len(players)]
			if d.HandSize(opponent) >= 1 {
				return opponent, true
			}
		}
	}
	return "", false
}

// other returns whichever of a, b is not p
func other(p, a, b model.PlayerID) model.PlayerID {
	if p == a {
		return b
	}
	return a
}
