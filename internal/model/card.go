package model

// CardID identifies a card in the 54-card catalog (1-52 standard, 53 joker, 54 back)
type CardID int

// Suit is one of the four standard suits
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Special card ids
const (
	JokerID    CardID = 53
	CardBackID CardID = 54
)

// Catalog sizes
const (
	StandardCardCount = 52
	CatalogSize       = 54
)

// Card is an immutable catalog entry. Suit, Rank and Value are empty/zero for
// the joker and the card back, which never enter a value comparison.
type Card struct {
	ID    CardID `json:"id"`
	Suit  Suit   `json:"suit,omitempty"`
	Rank  string `json:"rank,omitempty"`
	Value int    `json:"value,omitempty"`
	Image string `json:"image,omitempty"`
}

// IsStandard reports whether the card is one of the 52 playable cards
func (c CardID) IsStandard() bool {
	return c >= 1 && c <= StandardCardCount
}
