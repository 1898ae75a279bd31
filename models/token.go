package models

import "time"

// StoredToken is the part of a session the client keeps between runs:
// the bearer token and the account it was issued for. Vault items are never
// persisted.
type StoredToken struct {
	// UserID is the account the token belongs to.
	UserID int64

	// Token is the bearer token as received from the server.
	Token string

	// SavedAt is the moment the token was written locally.
	SavedAt time.Time
}

// Empty reports whether there is no token to present to the server.
func (t StoredToken) Empty() bool {
	return t.Token == ""
}
