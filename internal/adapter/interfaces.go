// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the remote vault server.
//
// The primary abstraction is [ServerAdapter], which decouples the service layer
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]).
//
// Non-2xx answers are mapped by mapHTTPError to a *ResponseError wrapping one
// of the sentinels in errors.go, so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401). Failures below HTTP wrap [ErrTransport].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-vault-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the vault
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package. Implementations must be safe for concurrent use.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests. An empty token removes the header.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if none has been set.
	Token() string

	// CheckSession asks the server who the current session belongs to.
	// Returns [ErrUnauthorized] (wrapped) when the session is not valid.
	CheckSession(ctx context.Context) (models.User, error)

	// Login authenticates with a username or e-mail and a password. On
	// success a bearer token issued by the server, if any, is stored via
	// SetToken.
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)

	// Register creates an account and signs it in. Returns [ErrConflict]
	// (wrapped) when the username or e-mail is taken.
	Register(ctx context.Context, profile models.Profile) (models.User, error)

	// Logout terminates the server-side session.
	Logout(ctx context.Context) error

	// ListItems returns every vault item of the signed-in user.
	ListItems(ctx context.Context) ([]models.VaultItem, error)

	// CreateItem stores a new item and returns it with its server id.
	CreateItem(ctx context.Context, draft models.VaultItemDraft) (models.VaultItem, error)

	// UpdateItem fully replaces the editable fields of item id.
	UpdateItem(ctx context.Context, id int64, draft models.VaultItemDraft) (models.VaultItem, error)

	// DeleteItem removes item id.
	DeleteItem(ctx context.Context, id int64) error

	// ToggleFavorite flips the favorite flag of item id on the server and
	// returns the canonical item.
	ToggleFavorite(ctx context.Context, id int64) (models.VaultItem, error)

	// UsernameAvailable reports whether no account uses username.
	UsernameAvailable(ctx context.Context, username string) (bool, error)

	// EmailAvailable reports whether no account uses email.
	EmailAvailable(ctx context.Context, email string) (bool, error)

	// GetProfile returns the account of the signed-in user.
	GetProfile(ctx context.Context) (models.User, error)

	// UpdateProfile changes the full name and e-mail of the signed-in user.
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error)

	// ChangePassword replaces the account password. A wrong current password
	// is reported as [ErrBadRequest] (wrapped).
	ChangePassword(ctx context.Context, change models.PasswordChange) error

	// DeleteAccount removes the account and all its items after checking
	// password.
	DeleteAccount(ctx context.Context, password string) error
}
