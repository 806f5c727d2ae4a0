package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage"
)

// Sender is the transport half of a realtime connection. The websocket client
// implements it; tests substitute a recorder.
type Sender interface {
	// SendEvent serializes and writes one outbound event
	SendEvent(event any) error
	// Close tears down the transport
	Close() error
}

// Connection is one live realtime connection, bound to exactly one identity.
// It is owned by the registry for its lifetime: created on admit, destroyed
// on remove. The legacy-mode hand is guarded by the registry's lock.
type Connection struct {
	Identity model.Identity
	sender   Sender
	hand     []model.CardID
}

// Service tracks the set of live connections and enforces at most one active
// connection per username. It is the single source of truth for who is online.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu     sync.Mutex
	conns  map[*Connection]struct{}
	byUser map[string]*Connection
}

// New creates a connection registry
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "registry")),
		conns:   make(map[*Connection]struct{}),
		byUser:  make(map[string]*Connection),
	}
}

// Admit registers a new connection for the identity. The duplicate check and
// the insertion happen under one lock, so two concurrent admissions of the
// same username cannot both succeed.
func (s *Service) Admit(identity model.Identity, sender Sender) (*Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUser[identity.Username]; ok {
		return nil, model.ErrAlreadyConnected
	}

	conn := &Connection{Identity: identity, sender: sender}
	s.conns[conn] = struct{}{}
	s.byUser[identity.Username] = conn

	s.logger.Info("connection admitted",
		slog.String("username", identity.Username),
		slog.Int("total_connections", len(s.conns)))
	return conn, nil
}

// Remove unregisters a connection and closes its transport. It is idempotent:
// removing an already-removed connection is a no-op, so every disconnect path
// (graceful close, transport error, protocol violation) can call it safely.
func (s *Service) Remove(conn *Connection) {
	s.mu.Lock()
	_, ok := s.conns[conn]
	if ok {
		delete(s.conns, conn)
		if s.byUser[conn.Identity.Username] == conn {
			delete(s.byUser, conn.Identity.Username)
		}
	}
	remaining := len(s.conns)
	s.mu.Unlock()

	if !ok {
		return
	}
	_ = conn.sender.Close()
	s.logger.Info("connection removed",
		slog.String("username", conn.Identity.Username),
		slog.Int("total_connections", remaining))
}

// Broadcast sends an event to every registered connection. A failed send to
// one connection removes that connection and never aborts delivery to the
// others.
func (s *Service) Broadcast(event any) {
	s.mu.Lock()
	members := make([]*Connection, 0, len(s.conns))
	for conn := range s.conns {
		members = append(members, conn)
	}
	s.mu.Unlock()

	for _, conn := range members {
		if err := conn.sender.SendEvent(event); err != nil {
			s.logger.Warn("broadcast send failed, removing connection",
				slog.String("username", conn.Identity.Username),
				slog.String("error", err.Error()))
			s.Remove(conn)
		}
	}
}

// Send delivers an event to a single connection, removing it on failure
func (s *Service) Send(conn *Connection, event any) error {
	if err := conn.sender.SendEvent(event); err != nil {
		s.logger.Warn("targeted send failed, removing connection",
			slog.String("username", conn.Identity.Username),
			slog.String("error", err.Error()))
		s.Remove(conn)
		return err
	}
	return nil
}

// Snapshot returns the current presence list, sorted by username, joining
// registry entries with stored identity data. A member whose identity lookup
// fails degrades to {username, pp_path: ""} rather than erroring.
func (s *Service) Snapshot(ctx context.Context) []model.PlayerState {
	s.mu.Lock()
	usernames := make([]string, 0, len(s.byUser))
	for username := range s.byUser {
		usernames = append(usernames, username)
	}
	s.mu.Unlock()

	sort.Strings(usernames)

	users := make([]model.PlayerState, 0, len(usernames))
	for _, username := range usernames {
		state := model.PlayerState{Username: username}
		if user, err := s.storage.GetUser(ctx, username); err == nil {
			state.PPPath = user.ProfilePicture
		}
		users = append(users, state)
	}
	return users
}

// Lookup returns the live connection for a username, if any
func (s *Service) Lookup(username string) (*Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.byUser[username]
	return conn, ok
}

// Count returns the number of live connections
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// AppendToHand adds cards to the connection's legacy-mode hand
func (s *Service) AppendToHand(conn *Connection, ids ...model.CardID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn.hand = append(conn.hand, ids...)
}

// HandOf returns a copy of the connection's legacy-mode hand
func (s *Service) HandOf(conn *Connection) []model.CardID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CardID(nil), conn.hand...)
}
