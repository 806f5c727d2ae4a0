package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/api/apierr"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/auth"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// Auth creates authentication middleware: it resolves the bearer token to a
// stored identity and refuses the request otherwise.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := ExtractToken(r)
			if t == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := authService.IdentityFor(r.Context(), t)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, identityContextKey, identity)
			ctx = context.WithValue(ctx, tokenContextKey, t)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

// MustGetIdentity returns the authenticated identity, panicking if absent.
// Only call from handlers behind the Auth middleware.
func MustGetIdentity(ctx context.Context) model.Identity {
	identity, ok := GetIdentity(ctx)
	if !ok {
		panic("identity not found in context - is the auth middleware mounted?")
	}
	return identity
}

// GetToken returns the session token from the request context
func GetToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenContextKey).(string)
	return t
}
