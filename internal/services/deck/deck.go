package deck

import (
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/random"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

// Location is where a card currently lives
type Location string

const (
	LocationPile    Location = "pile"
	LocationHand    Location = "hand"
	LocationWar     Location = "war"
	LocationDiscard Location = "discard"
)

// Deck is a mutable partition of the 54-card catalog into mutually exclusive
// locations. Every card id belongs to exactly one location at all times; the
// union of all locations is the full catalog. Deck is not safe for concurrent
// use; callers serialize access (the game controller holds a per-game lock).
type Deck struct {
	pile    []model.CardID
	hands   map[model.PlayerID][]model.CardID
	war     []model.CardID
	discard []model.CardID
}

// New creates a deck with the full catalog in the pile, in id order
func New() *Deck {
	return &Deck{
		pile:  CatalogOrder(),
		hands: make(map[model.PlayerID][]model.CardID),
	}
}

// Load replaces the pile with a known ordering. Only cards currently in the
// pile may appear; used to restore a persisted deck and by tests that need a
// reproducible deal.
func (d *Deck) Load(order []model.CardID) {
	d.pile = append(d.pile[:0], order...)
}

// Shuffle permutes the pile in place with an unbiased Fisher-Yates walk.
// Each permutation of the pile is equally likely given a uniform source.
func (d *Deck) Shuffle(r random.Random) {
	for i := len(d.pile) - 1; i >= 1; i-- {
		j := r.Intn(i + 1)
		d.pile[i], d.pile[j] = d.pile[j], d.pile[i]
	}
}

// Deal pops up to n cards from the front of the pile into the player's hand,
// appended at the back. It returns the cards actually dealt, which is fewer
// than n when the pile runs out; it never blocks or errors.
func (d *Deck) Deal(player model.PlayerID, n int) []model.CardID {
	if n > len(d.pile) {
		n = len(d.pile)
	}
	dealt := make([]model.CardID, n)
	copy(dealt, d.pile[:n])
	d.pile = d.pile[n:]
	d.hands[player] = append(d.hands[player], dealt...)
	return dealt
}

// Pop removes one card from the front of the pile without assigning it to a
// hand; the card moves to the discard location. Used for the legacy shared
// card reveal. Returns false if the pile is empty.
func (d *Deck) Pop() (model.CardID, bool) {
	if len(d.pile) == 0 {
		return 0, false
	}
	id := d.pile[0]
	d.pile = d.pile[1:]
	d.discard = append(d.discard, id)
	return id, true
}

// PileSize returns the number of undealt cards
func (d *Deck) PileSize() int {
	return len(d.pile)
}

// Hand returns a copy of the player's hand in order
func (d *Deck) Hand(player model.PlayerID) []model.CardID {
	return append([]model.CardID(nil), d.hands[player]...)
}

// HandSize returns the number of cards the player holds
func (d *Deck) HandSize(player model.PlayerID) int {
	return len(d.hands[player])
}

// RemoveFromHand takes a specific card out of the player's hand.
// Returns ErrCardNotInHand if the player does not hold it.
func (d *Deck) RemoveFromHand(player model.PlayerID, id model.CardID) error {
	hand := d.hands[player]
	for i, c := range hand {
		if c == id {
			d.hands[player] = append(hand[:i], hand[i+1:]...)
			return nil
		}
	}
	return model.ErrCardNotInHand
}

// PopFromHand removes and returns the front card of the player's hand.
// Used for automatic war contributions. Returns false on an empty hand.
func (d *Deck) PopFromHand(player model.PlayerID) (model.CardID, bool) {
	hand := d.hands[player]
	if len(hand) == 0 {
		return 0, false
	}
	d.hands[player] = hand[1:]
	return hand[0], true
}

// AppendToHand places cards at the back of the player's hand.
// The cards must have been removed from another location first.
func (d *Deck) AppendToHand(player model.PlayerID, ids ...model.CardID) {
	d.hands[player] = append(d.hands[player], ids...)
}

// PushWar adds cards to the back of the war pile
func (d *Deck) PushWar(ids ...model.CardID) {
	d.war = append(d.war, ids...)
}

// WarPile returns a copy of the war pile in accumulation order
func (d *Deck) WarPile() []model.CardID {
	return append([]model.CardID(nil), d.war...)
}

// CollectWar moves the entire war pile to the back of the player's hand,
// in accumulation order, and empties the pile.
func (d *Deck) CollectWar(player model.PlayerID) {
	d.hands[player] = append(d.hands[player], d.war...)
	d.war = d.war[:0]
}

// Discard moves cards out of play. The cards must come from the pile front;
// setup uses this to set aside the joker and the card back.
func (d *Deck) Discard(ids ...model.CardID) {
	for _, id := range ids {
		for i, c := range d.pile {
			if c == id {
				d.pile = append(d.pile[:i], d.pile[i+1:]...)
				d.discard = append(d.discard, id)
				break
			}
		}
	}
}

// Hands returns a copy of every hand, keyed by player
func (d *Deck) Hands() map[model.PlayerID][]model.CardID {
	out := make(map[model.PlayerID][]model.CardID, len(d.hands))
	for p, h := range d.hands {
		out[p] = append([]model.CardID(nil), h...)
	}
	return out
}

// Partition maps every card id to its current location. The game tests use
// this to check that no card is ever duplicated or lost.
func (d *Deck) Partition() map[model.CardID]Location {
	out := make(map[model.CardID]Location, model.CatalogSize)
	for _, id := range d.pile {
		out[id] = LocationPile
	}
	for _, hand := range d.hands {
		for _, id := range hand {
			out[id] = LocationHand
		}
	}
	for _, id := range d.war {
		out[id] = LocationWar
	}
	for _, id := range d.discard {
		out[id] = LocationDiscard
	}
	return out
}
