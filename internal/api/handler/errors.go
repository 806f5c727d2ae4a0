package handler

import (
	"net/http"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeUsernameExists     = apierr.CodeUsernameExists
	CodeUserNotFound       = apierr.CodeUserNotFound
	CodeAlreadyConnected   = apierr.CodeAlreadyConnected
	CodeGameNotFound       = apierr.CodeGameNotFound
	CodeGameFull           = apierr.CodeGameFull
	CodeNotInGame          = apierr.CodeNotInGame
	CodeNotYourTurn        = apierr.CodeNotYourTurn
	CodeCardNotInHand      = apierr.CodeCardNotInHand
	CodeInvalidAction      = apierr.CodeInvalidAction
	CodeGameOver           = apierr.CodeGameOver
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
