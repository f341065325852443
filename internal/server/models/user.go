// Package models holds the persistent records of the authentication service.
package models

import "time"

// User is the authenticated principal. The core treats it read-only except
// for the Active/Enabled flag checks; profile fields belong to the user
// module. Email doubles as the login handle and the access-token subject.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Disabled reports whether the account may not authenticate.
func (u *User) Disabled() bool {
	return !u.Active || !u.Enabled
}

// Roles returns the authorization roles derived from the single role tag.
func (u *User) Roles() []string {
	if u.Role == "" {
		return nil
	}
	return []string{u.Role}
}
