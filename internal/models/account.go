// Package models defines the records kept in the local store.
package models

import "time"

// Role grants access to administrative actions.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account is a local login. The password is kept only as a salted hash.
type Account struct {
	Username     string
	PasswordHash []byte
	Salt         []byte
	Role         Role
	CreatedAt    time.Time
}

// Snapshot returns the copy of the account that is kept in the session area.
func (a Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{Username: a.Username, Role: a.Role, CreatedAt: a.CreatedAt}
}

// AccountSnapshot is the session's copy of the signed-in account. It carries
// no credentials.
type AccountSnapshot struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s AccountSnapshot) IsAdmin() bool {
	return s.Role == RoleAdmin
}
