package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Identity is the immutable public view of a user, referenced by value
// everywhere in the realtime core.
type Identity struct {
	ID             UserID `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"pp_path"`
}

// RegisteredUser extends Identity with authentication data.
// Stored separately so the password hash never rides along with presence data.
type RegisteredUser struct {
	ID             UserID
	Username       string // login username (immutable, unique)
	PasswordHash   string // bcrypt hash
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity returns the public view of the user
func (u *RegisteredUser) Identity() Identity {
	return Identity{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// PlayerState is one entry of the presence list sent as connected_users
type PlayerState struct {
	Username string `json:"username"`
	PPPath   string `json:"pp_path"`
}
