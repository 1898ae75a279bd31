// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session describes the authenticated identity of the current user.
// A nil *Session means that nobody is signed in.
type Session struct {
	// UserID is the server-side identifier of the account.
	UserID int64 `json:"userId"`

	// DisplayName is the human-readable name shown in the UI
	// (full name when present, username otherwise).
	DisplayName string `json:"displayName"`

	// Email is the e-mail address registered for the account.
	Email string `json:"email"`

	// IssuedAt is the moment the server issued the session.
	IssuedAt time.Time `json:"issuedAt"`
}

// SessionState is the lifecycle state of the session manager.
type SessionState int32

const (
	// StateUnauthenticated means no session is held.
	StateUnauthenticated SessionState = iota
	// StateAuthenticating means a bootstrap, login or register call is in flight.
	StateAuthenticating
	// StateAuthenticated means a valid session is held.
	StateAuthenticated
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Credentials are submitted by the login form.
type Credentials struct {
	// Login is either the username or the e-mail of the account.
	Login string `json:"usernameOrEmail"`

	// Password is the plaintext account password. It is sent to the server
	// once and never stored by the client.
	Password string `json:"password"`
}

// Profile is submitted by the registration form.
type Profile struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName,omitempty"`
}

// ProfileUpdate is submitted by the account settings form. Empty fields are
// left unchanged by the server.
type ProfileUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PasswordChange is submitted by the change password form.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
