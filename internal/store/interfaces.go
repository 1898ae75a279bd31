// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists the client's bearer token between runs.
//
// Only the token and the id of the account it belongs to are stored; the
// vault itself lives in memory and is rebuilt from the server on every
// session.
package store

import (
	"context"

	"github.com/MKhiriev/go-vault-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_repository_mock.go -package=mock

// SessionRepository keeps at most one stored token.
type SessionRepository interface {
	// Load returns the stored token or [ErrLocalSessionNotFound].
	Load(ctx context.Context) (models.StoredToken, error)
	// Save replaces the stored token.
	Save(ctx context.Context, token models.StoredToken) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
