// Package service holds the client core: the session manager, the optimistic
// vault engine built on the cache store, and the background refresh job.
//
// Consumers read derived views and write intents through the interfaces in
// this file and learn about changes by subscribing to [ClientServices.Events].
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/models"
)

// ClientSessionService owns the authentication state of the client.
//
// States move Unauthenticated → Authenticating → Authenticated →
// Unauthenticated. A failed attempt returns to the previous state and is
// reported only through the returned error.
type ClientSessionService interface {
	// Bootstrap resolves the session restored from local storage. It runs
	// once per process; a second call returns ErrAlreadyBootstrapped. A valid
	// session triggers the first vault refresh, an invalid one clears the
	// stored token and fetches nothing.
	Bootstrap(ctx context.Context) error

	// Login validates creds locally, signs in and refreshes the vault. A
	// vault refresh failure is logged and does not fail the login.
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)

	// Register validates profile locally, creates the account and signs it in.
	Register(ctx context.Context, profile models.Profile) (models.Session, error)

	// Logout signs out on the server when possible and always clears the
	// local session, the stored token and the vault cache.
	Logout(ctx context.Context) error

	// Invalidate drops the session after an authorization failure observed
	// elsewhere. It does nothing unless the client is authenticated.
	Invalidate(reason error)

	// Refresh re-checks the session with the server. Only an authorization
	// failure invalidates the session; network and server failures are
	// returned with the session kept.
	Refresh(ctx context.Context) error

	// Profile fetches the account of the signed-in user and refreshes the
	// session from it.
	Profile(ctx context.Context) (models.User, error)

	// UpdateProfile changes the full name and/or e-mail. Empty fields are
	// left unchanged. The session picks up the new values on success.
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.Session, error)

	// ChangePassword replaces the account password. A wrong current password
	// is reported as a validation error on the currentPassword field.
	ChangePassword(ctx context.Context, change models.PasswordChange) error

	// DeleteAccount removes the account and all its items, then signs out
	// locally the same way Logout does.
	DeleteAccount(ctx context.Context, password string) error

	// UsernameAvailable and EmailAvailable ask the server whether a sign-up
	// would clash. They work without a session.
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)

	// Current returns the session, if any.
	Current() (models.Session, bool)

	State() models.SessionState

	// Bootstrapped reports whether Bootstrap has finished.
	Bootstrapped() bool
}

// ClientVaultService exposes the cached vault and applies writes
// optimistically. Reads never block and never touch the network.
type ClientVaultService interface {
	// Items returns the items of the current snapshot that satisfy filter,
	// ordered by sort.
	Items(filter models.Filter, sort models.Sort) []models.VaultItem

	// Stats returns the aggregates of the current snapshot.
	Stats() models.Stats

	// Categories returns the distinct categories of the current snapshot.
	Categories() []string

	Get(id int64) (models.VaultItem, bool)

	// Create shows a placeholder with a temporary negative id at once and
	// swaps it for the server item on success.
	Create(ctx context.Context, draft models.VaultItemDraft) (models.VaultItem, error)

	// Update shows the edited item at once and restores the previous version
	// if the server refuses.
	Update(ctx context.Context, id int64, draft models.VaultItemDraft) (models.VaultItem, error)

	// Delete hides the item at once and puts it back at its position if the
	// server refuses. Deleting an item the server no longer has succeeds.
	Delete(ctx context.Context, id int64) error

	// ToggleFavorite flips the favorite flag of the item as it is when the
	// call gets its turn.
	ToggleFavorite(ctx context.Context, id int64) (models.VaultItem, error)

	// Refresh replaces the cache with the server content. It requires an
	// authenticated session.
	Refresh(ctx context.Context) error

	// Pending returns the mutation currently running for id, if any.
	Pending(id int64) (PendingMutation, bool)
}

// ClientEvents lets consumers subscribe to change notifications. After
// receiving an event a consumer re-reads whatever it displays.
type ClientEvents interface {
	Subscribe() (<-chan events.Event, func())
}

// ClientSessionRefreshJob periodically re-checks the session while the client
// is signed in.
type ClientSessionRefreshJob interface {
	// Start launches the background goroutine. A zero or negative interval
	// defaults to 5 minutes. Any previously running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
