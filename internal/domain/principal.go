package domain

import (
	"errors"
	"time"
)

// Role identifies which kind of principal is acting. Each role maps to its
// own table; the rest of the code stays generic over the role value.
type Role string

const (
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

// ErrUnknownRole signals a role outside the three supported kinds.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a wire-level role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleArtist, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether the role is one of the supported kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// Table returns the backing table for the role.
func (r Role) Table() string {
	switch r {
	case RoleArtist:
		return "artists"
	case RoleAdmin:
		return "admins"
	default:
		return "users"
	}
}

// IsAdmin reports whether tokens for this role carry the admin flag.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// IsArtist reports whether tokens for this role carry the artist flag.
func (r Role) IsArtist() bool { return r == RoleArtist }

// Principal is a stored identity record. The same shape backs all three
// role tables; phone and bio are empty where a role does not collect them.
type Principal struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Bio          string
	CreatedAt    time.Time
}
