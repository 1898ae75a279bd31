// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/adapter"
	"github.com/MKhiriev/go-vault-client/internal/cache"
	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/store"
	"github.com/MKhiriev/go-vault-client/internal/utils"
	"github.com/MKhiriev/go-vault-client/internal/validators"
	"github.com/MKhiriev/go-vault-client/models"
)

// vaultRefresher is the part of the vault service the session manager
// needs after a successful sign-in.
type vaultRefresher interface {
	Refresh(ctx context.Context) error
}

type clientSessionService struct {
	adapter   adapter.ServerAdapter
	sessions  store.SessionRepository
	cache     *cache.Store
	validator validators.Validator
	publisher cache.Publisher
	vault     vaultRefresher
	now       func() time.Time
	logger    *logger.Logger

	// mu serializes state transitions. It is never held across I/O.
	mu sync.Mutex
	// epoch changes whenever the session is dropped, so that an attempt
	// started before a logout cannot commit after it.
	epoch uint64

	state        atomic.Int32
	session      atomic.Pointer[models.Session]
	started      atomic.Bool
	bootstrapped atomic.Bool
}

// NewClientSessionService constructs the session manager. The vault refresh
// hook is attached by NewClientServices.
func NewClientSessionService(
	serverAdapter adapter.ServerAdapter,
	sessions store.SessionRepository,
	cacheStore *cache.Store,
	validator validators.Validator,
	publisher cache.Publisher,
	logger *logger.Logger,
) *clientSessionService {
	return &clientSessionService{
		adapter:   serverAdapter,
		sessions:  sessions,
		cache:     cacheStore,
		validator: validator,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *clientSessionService) Bootstrap(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyBootstrapped
	}
	defer s.bootstrapped.Store(true)

	epoch, err := s.beginAttempt()
	if err != nil {
		return err
	}

	stored, err := s.sessions.Load(ctx)
	switch {
	case err == nil && !stored.Empty():
		s.adapter.SetToken(stored.Token)
	case err != nil && !errors.Is(err, store.ErrLocalSessionNotFound):
		s.logger.Err(err).Msg("failed to load stored session")
	}

	user, err := s.adapter.CheckSession(ctx)
	if err != nil {
		err = mapAdapterError(err)
		s.abortAttempt(models.StateUnauthenticated)
		if errors.Is(err, ErrAuth) {
			s.logger.Info().Msg("stored session is not valid")
			s.forgetToken(ctx)
			return nil
		}
		s.logger.Err(err).Msg("session check failed during bootstrap")
		return err
	}

	session, ok := s.commitAttempt(epoch, user)
	if !ok {
		return ErrNotAuthenticated
	}
	s.logger.Info().Int64("user_id", session.UserID).Msg("session restored")

	if err = s.vault.Refresh(ctx); err != nil {
		s.logger.Err(err).Msg("initial vault refresh failed")
	}
	return nil
}

func (s *clientSessionService) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	if err := mapValidationError(s.validator.Validate(ctx, creds)); err != nil {
		return models.Session{}, err
	}

	return s.authenticate(ctx, func(ctx context.Context) (models.User, error) {
		return s.adapter.Login(ctx, creds)
	})
}

func (s *clientSessionService) Register(ctx context.Context, profile models.Profile) (models.Session, error) {
	if err := mapValidationError(s.validator.Validate(ctx, profile)); err != nil {
		return models.Session{}, err
	}

	session, err := s.authenticate(ctx, func(ctx context.Context) (models.User, error) {
		return s.adapter.Register(ctx, profile)
	})
	if errors.Is(err, ErrConflict) {
		err = s.explainConflict(ctx, profile, err)
	}
	return session, err
}

// authenticate runs a sign-in call between beginAttempt and commitAttempt.
func (s *clientSessionService) authenticate(
	ctx context.Context,
	call func(ctx context.Context) (models.User, error),
) (models.Session, error) {
	if !s.bootstrapped.Load() {
		return models.Session{}, ErrNotBootstrapped
	}

	prevState := s.State()
	epoch, err := s.beginAttempt()
	if err != nil {
		return models.Session{}, err
	}

	user, err := call(ctx)
	if err != nil {
		s.abortAttempt(prevState)
		err = mapAdapterError(err)
		s.logger.Warn().Err(err).Msg("sign-in failed")
		return models.Session{}, err
	}

	session, ok := s.commitAttempt(epoch, user)
	if !ok {
		return models.Session{}, ErrNotAuthenticated
	}
	s.persistToken(ctx, session.UserID)
	s.logger.Info().Int64("user_id", session.UserID).Msg("signed in")

	if err = s.vault.Refresh(ctx); err != nil {
		s.logger.Err(err).Msg("vault refresh after sign-in failed")
	}
	return session, nil
}

func (s *clientSessionService) Logout(ctx context.Context) error {
	if err := s.adapter.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("server logout failed, signing out locally")
	}

	s.reset()
	return s.forgetToken(ctx)
}

func (s *clientSessionService) Invalidate(reason error) {
	if s.State() != models.StateAuthenticated {
		return
	}

	s.logger.Warn().Err(reason).Msg("session invalidated")
	s.reset()
	_ = s.forgetToken(context.Background())
}

// Refresh keeps the session on network and server failures. Only a refused
// session is invalidated.
func (s *clientSessionService) Refresh(ctx context.Context) error {
	epoch, err := s.sessionEpoch()
	if err != nil {
		return err
	}

	user, err := s.adapter.CheckSession(ctx)
	if err != nil {
		return s.sessionCallFailed(err, "session check failed, keeping session")
	}

	if _, ok := s.replaceUser(epoch, user); !ok {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *clientSessionService) Current() (models.Session, bool) {
	session := s.session.Load()
	if session == nil {
		return models.Session{}, false
	}
	return *session, true
}

func (s *clientSessionService) State() models.SessionState {
	return models.SessionState(s.state.Load())
}

func (s *clientSessionService) Bootstrapped() bool {
	return s.bootstrapped.Load()
}

// beginAttempt moves to Authenticating and returns the epoch the attempt
// belongs to.
func (s *clientSessionService) beginAttempt() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == models.StateAuthenticating {
		return 0, ErrAuthInProgress
	}
	s.setState(models.StateAuthenticating)
	s.notify()
	return s.epoch, nil
}

func (s *clientSessionService) abortAttempt(back models.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != models.StateAuthenticating {
		return
	}
	s.setState(back)
	s.notify()
}

// commitAttempt installs the session unless the client was signed out while
// the attempt was in flight.
func (s *clientSessionService) commitAttempt(epoch uint64, user models.User) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.logger.Info().Msg("dropping sign-in that finished after a sign-out")
		return models.Session{}, false
	}

	session := s.buildSession(user)
	if prev := s.session.Load(); prev != nil && prev.UserID != session.UserID {
		s.cache.Clear()
	}
	s.session.Store(&session)
	s.setState(models.StateAuthenticated)
	s.notify()
	return session, true
}

// sessionEpoch returns the epoch of the current session, or
// ErrNotAuthenticated when there is none.
func (s *clientSessionService) sessionEpoch() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != models.StateAuthenticated {
		return 0, ErrNotAuthenticated
	}
	return s.epoch, nil
}

// replaceUser rebuilds the session from fresh user data, keeping its issue
// time. It does nothing if the session was dropped since epoch.
func (s *clientSessionService) replaceUser(epoch uint64, user models.User) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return models.Session{}, false
	}

	next := s.buildSession(user)
	if prev := s.session.Load(); prev != nil {
		next.IssuedAt = prev.IssuedAt
	}
	s.session.Store(&next)
	s.notify()
	return next, true
}

// sessionCallFailed maps err from a call made on behalf of the signed-in
// user. ErrAuth invalidates the session; anything else leaves it alone.
func (s *clientSessionService) sessionCallFailed(err error, msg string) error {
	err = mapAdapterError(err)
	if errors.Is(err, ErrAuth) {
		s.Invalidate(err)
		return err
	}
	s.logger.Warn().Err(err).Msg(msg)
	return err
}

// reset drops the session and the cached vault.
func (s *clientSessionService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.session.Store(nil)
	s.setState(models.StateUnauthenticated)
	s.cache.Clear()
	s.notify()
}

// buildSession combines the user returned by the server with the claims of
// the bearer token, when the server issued a JWT.
func (s *clientSessionService) buildSession(user models.User) models.Session {
	session := models.Session{
		UserID:      user.ID,
		DisplayName: user.DisplayName(),
		Email:       user.Email,
		IssuedAt:    s.now(),
	}

	token := s.adapter.Token()
	if token == "" {
		return session
	}
	claims, err := utils.ParseSessionClaims(token)
	if err != nil {
		if !errors.Is(err, utils.ErrNotJWT) {
			s.logger.Debug().Err(err).Msg("bearer token carries no usable claims")
		}
		return session
	}
	if session.UserID == 0 {
		session.UserID = claims.UserID
	}
	if !claims.IssuedAt.IsZero() {
		session.IssuedAt = claims.IssuedAt
	}
	return session
}

func (s *clientSessionService) persistToken(ctx context.Context, userID int64) {
	token := s.adapter.Token()
	if token == "" {
		return
	}

	err := s.sessions.Save(ctx, models.StoredToken{UserID: userID, Token: token, SavedAt: s.now()})
	if err != nil {
		s.logger.Err(err).Msg("failed to persist session token")
	}
}

func (s *clientSessionService) forgetToken(ctx context.Context) error {
	s.adapter.SetToken("")
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Err(err).Msg("failed to clear stored session")
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

func (s *clientSessionService) setState(state models.SessionState) {
	s.state.Store(int32(state))
	s.logger.Debug().Str("state", state.String()).Msg("session state changed")
}

func (s *clientSessionService) notify() {
	if s.publisher != nil {
		s.publisher.Publish(events.KindSessionChanged, 0)
	}
}
