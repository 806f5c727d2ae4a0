package deck

import (
	"fmt"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

var suits = [4]model.Suit{model.SuitHearts, model.SuitDiamonds, model.SuitClubs, model.SuitSpades}

var ranks = [13]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "jack", "queen", "king", "ace"}

// Metadata derives the suit, rank and comparison value of a card from its id.
// Ids 1-52 map to the standard deck (suit = (id-1)/13, rank = (id-1)%13, ace
// high). The joker (53) and card back (54) carry no suit, rank or value and
// must never be passed to a value comparison; that is the caller's invariant.
func Metadata(id model.CardID) (model.Card, error) {
	switch {
	case id.IsStandard():
		suitIdx := (int(id) - 1) / 13
		rankIdx := (int(id) - 1) % 13
		return model.Card{
			ID:    id,
			Suit:  suits[suitIdx],
			Rank:  ranks[rankIdx],
			Value: rankIdx + 2,
		}, nil
	case id == model.JokerID:
		return model.Card{ID: id, Rank: "joker"}, nil
	case id == model.CardBackID:
		return model.Card{ID: id, Rank: "back"}, nil
	default:
		return model.Card{}, fmt.Errorf("card id %d: %w", id, model.ErrCardNotFound)
	}
}

// Value returns the comparison value of a standard card, 0 otherwise
func Value(id model.CardID) int {
	if !id.IsStandard() {
		return 0
	}
	return (int(id)-1)%13 + 2
}

// CatalogOrder returns the full catalog in id order
func CatalogOrder() []model.CardID {
	ids := make([]model.CardID, model.CatalogSize)
	for i := range ids {
		ids[i] = model.CardID(i + 1)
	}
	return ids
}
