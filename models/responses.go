package models

import "encoding/json"

// APIResponse is the envelope wrapped around every response body of the
// vault server.
type APIResponse struct {
	// Success is false for every error response.
	Success bool `json:"success"`

	// Message is a human-readable outcome description
	// (e.g. "Validation failed", "Username already exists: bob").
	Message string `json:"message"`

	// Data holds the payload. It is decoded lazily because its shape depends
	// on the endpoint: a user, an item, a list of items, or a map of field
	// errors for validation failures.
	Data json.RawMessage `json:"data,omitempty"`

	// Error is an optional machine-oriented error description.
	Error string `json:"error,omitempty"`

	// Timestamp is the server time of the response in its own format.
	Timestamp string `json:"timestamp,omitempty"`
}

// User is the account representation returned by the auth endpoints.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	Enabled     bool   `json:"enabled"`
	CreatedAt   string `json:"createdAt,omitempty"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
}

// DisplayName returns the full name when present and the username otherwise.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
