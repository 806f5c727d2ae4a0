package redis

import (
	"fmt"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

// Key prefix for all card-table data
const keyPrefix = "cardtable"

// userKey returns the Redis key for a RegisteredUser
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// cardImageKey returns the Redis key for a card's image reference
func cardImageKey(id model.CardID) string {
	return fmt.Sprintf("%s:card_image:%d", keyPrefix, id)
}

// gameKey returns the Redis key for a Game record
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}
