package domain

import "time"

// Role is the authorization level attached to a user. New accounts always
// get RoleUser; RoleAdmin is only assignable by trusted internal callers.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a string onto a known role, defaulting to RoleUser for
// anything unrecognized.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleUser, false
	}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser carries the fields needed to insert a user; id and timestamps
// are assigned by storage.
type NewUser struct {
	Email        string
	PasswordHash string
	Role         Role
}
