package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid or revoked token")
)

// Claims are the signed contents of a session token
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service is the token store: it issues signed session tokens and tracks the
// single live token per username. Re-issuing for the same username revokes
// the previous token, so a user never holds two simultaneously valid sessions.
type Service struct {
	secret []byte
	clock  clock.Clock

	mu     sync.RWMutex
	live   map[string]string // token -> username
	byUser map[string]string // username -> live token

	maxAge time.Duration
}

// Config holds configuration for the token service
type Config struct {
	// Secret signs tokens; generated randomly when empty (tokens then do not
	// survive a restart, which matches the in-memory store anyway)
	Secret []byte
	// MaxAge bounds token lifetime; zero means no expiry beyond revocation
	MaxAge time.Duration
}

// New creates a token service
func New(clk clock.Clock, cfg Config) *Service {
	secret := cfg.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	return &Service{
		secret: secret,
		clock:  clk,
		live:   make(map[string]string),
		byUser: make(map[string]string),
		maxAge: cfg.MaxAge,
	}
}

// Issue generates a fresh signed token bound to the username and revokes any
// prior token for that username.
func (s *Service) Issue(username string) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       randomID(),
		},
	}
	if s.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.maxAge))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	s.mu.Lock()
	if prev, ok := s.byUser[username]; ok {
		delete(s.live, prev)
	}
	s.live[signed] = username
	s.byUser[username] = signed
	s.mu.Unlock()

	return signed, nil
}

// Verify checks the token signature and its claims against the store's
// current binding. A token whose signature is valid but which is no longer
// the live token for its username fails with ErrInvalidToken.
func (s *Service) Verify(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	s.mu.RLock()
	bound, ok := s.live[token]
	s.mu.RUnlock()

	if !ok || bound != claims.Username {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

// Revoke invalidates a token, e.g. on logout. Unknown tokens are a no-op.
func (s *Service) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.live[token]
	if !ok {
		return
	}
	delete(s.live, token)
	if s.byUser[username] == token {
		delete(s.byUser, username)
	}
}

// randomID produces a unique jti so two tokens issued within the same second
// still differ.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}
