package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	// Card errors
	ErrCardNotFound = errors.New("card not found")

	// Registry errors
	ErrAlreadyConnected = errors.New("user already has a live connection")
	ErrConnectionClosed = errors.New("connection is closed")

	// Game errors
	ErrGameNotFound  = errors.New("game not found")
	ErrGameFull      = errors.New("game already has its full roster")
	ErrNotInGame     = errors.New("player is not in this game")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrCardNotInHand = errors.New("card is not in this player's hand")
	ErrInvalidAction = errors.New("invalid action type")
	ErrGameOver      = errors.New("game is already finished")

	// Message errors
	ErrUnknownMessage = errors.New("unknown message type")
)
