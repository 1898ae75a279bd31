// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/adapter"
	"github.com/MKhiriev/go-vault-client/internal/cache"
	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/query"
	"github.com/MKhiriev/go-vault-client/internal/utils"
	"github.com/MKhiriev/go-vault-client/internal/validators"
	"github.com/MKhiriev/go-vault-client/models"
)

// sessionGate is the part of the session manager the vault service needs.
type sessionGate interface {
	State() models.SessionState
	Invalidate(reason error)
}

type clientVaultService struct {
	adapter   adapter.ServerAdapter
	cache     *cache.Store
	session   sessionGate
	validator validators.Validator
	publisher cache.Publisher
	ids       *utils.UUIDGenerator
	queue     *mutationQueue
	now       func() time.Time
	logger    *logger.Logger

	// lastTempID hands out temporary ids for pending creates: -1, -2, ...
	lastTempID atomic.Int64
}

// NewClientVaultService constructs the vault service on top of cacheStore.
func NewClientVaultService(
	serverAdapter adapter.ServerAdapter,
	cacheStore *cache.Store,
	session sessionGate,
	validator validators.Validator,
	publisher cache.Publisher,
	logger *logger.Logger,
) *clientVaultService {
	return &clientVaultService{
		adapter:   serverAdapter,
		cache:     cacheStore,
		session:   session,
		validator: validator,
		publisher: publisher,
		ids:       utils.NewUUIDGenerator(),
		queue:     newMutationQueue(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *clientVaultService) Items(filter models.Filter, sort models.Sort) []models.VaultItem {
	return query.Apply(s.cache.Current().Items(), filter, sort)
}

func (s *clientVaultService) Stats() models.Stats {
	return s.cache.Current().Stats()
}

func (s *clientVaultService) Categories() []string {
	return query.Categories(s.cache.Current().Items())
}

func (s *clientVaultService) Get(id int64) (models.VaultItem, bool) {
	return s.cache.Current().Get(id)
}

func (s *clientVaultService) Pending(id int64) (PendingMutation, bool) {
	return s.queue.pending(id)
}

func (s *clientVaultService) Refresh(ctx context.Context) error {
	if s.session.State() != models.StateAuthenticated {
		return ErrNotAuthenticated
	}

	gen := s.cache.BeginRefresh()
	items, err := s.adapter.ListItems(ctx)
	if err != nil {
		return s.fail(err)
	}

	if s.cache.ReplaceAll(gen, items) {
		s.logger.Debug().
			Uint64("generation", uint64(gen)).
			Int("items", len(items)).
			Msg("vault refreshed")
	}
	return nil
}

func (s *clientVaultService) Create(ctx context.Context, draft models.VaultItemDraft) (models.VaultItem, error) {
	if err := mapValidationError(s.validator.Validate(ctx, draft)); err != nil {
		return models.VaultItem{}, err
	}
	if s.session.State() != models.StateAuthenticated {
		return models.VaultItem{}, ErrNotAuthenticated
	}

	now := s.now()
	placeholder := models.VaultItem{ID: s.lastTempID.Add(-1)}.WithDraft(draft)
	placeholder.CreatedAt = &now
	placeholder.UpdatedAt = &now

	// Temporary ids are unique, so the queue never makes a create wait. It
	// only makes the placeholder visible through Pending.
	release, err := s.queue.acquire(ctx, placeholder.ID)
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer release()

	m := s.begin(MutationCreate, placeholder.ID, nil, s.cache.Current())
	s.cache.Upsert(placeholder)

	item, err := s.adapter.CreateItem(s.requestContext(ctx, m), draft)
	if err != nil {
		s.cache.Remove(placeholder.ID)
		s.settle(m, MutationRolledBack, err)
		return models.VaultItem{}, s.fail(err)
	}

	if !s.cache.Swap(placeholder.ID, item) {
		s.mutationLogger(m).Info().Int64("server_id", item.ID).Msg("placeholder gone before confirmation")
	}
	s.settle(m, MutationCommitted, nil)
	return item, nil
}

func (s *clientVaultService) Update(ctx context.Context, id int64, draft models.VaultItemDraft) (models.VaultItem, error) {
	if err := mapValidationError(s.validator.Validate(ctx, draft)); err != nil {
		return models.VaultItem{}, err
	}

	return s.mutate(ctx, MutationUpdate, id, func(ctx context.Context, prior models.VaultItem) (models.VaultItem, error) {
		edited := prior.WithDraft(draft)
		now := s.now()
		edited.UpdatedAt = &now
		s.cache.Replace(edited)

		item, err := s.adapter.UpdateItem(ctx, id, draft)
		if err != nil {
			return models.VaultItem{}, err
		}
		s.cache.Replace(item)
		return item, nil
	})
}

func (s *clientVaultService) ToggleFavorite(ctx context.Context, id int64) (models.VaultItem, error) {
	return s.mutate(ctx, MutationToggleFavorite, id, func(ctx context.Context, prior models.VaultItem) (models.VaultItem, error) {
		flipped := prior
		flipped.Favorite = !prior.Favorite
		s.cache.Replace(flipped)

		item, err := s.adapter.ToggleFavorite(ctx, id)
		if err != nil {
			return models.VaultItem{}, err
		}
		s.cache.Replace(item)
		return item, nil
	})
}

func (s *clientVaultService) Delete(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, MutationDelete, id, func(ctx context.Context, prior models.VaultItem) (models.VaultItem, error) {
		s.cache.Remove(id)

		if err := s.adapter.DeleteItem(ctx, id); err != nil {
			return models.VaultItem{}, err
		}
		// A refresh that finished meanwhile may have brought the item back.
		s.cache.Remove(id)
		return prior, nil
	})
	if errors.Is(err, ErrNotFound) && !errors.Is(err, errUnknownItem) {
		return nil
	}
	return err
}

// errUnknownItem marks an ErrNotFound raised locally, before any remote call.
var errUnknownItem = errors.New("item is not in the vault")

// mutate runs a write to an existing item once every earlier write to it has
// settled. apply performs the optimistic change and the remote call. On a
// remote failure the prior item is reinstated, except on NotFound where the
// server no longer has the item and it is dropped from the cache.
func (s *clientVaultService) mutate(
	ctx context.Context,
	kind MutationKind,
	id int64,
	apply func(ctx context.Context, prior models.VaultItem) (models.VaultItem, error),
) (models.VaultItem, error) {
	if s.session.State() != models.StateAuthenticated {
		return models.VaultItem{}, ErrNotAuthenticated
	}

	release, err := s.queue.acquire(ctx, id)
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer release()

	snapshot := s.cache.Current()
	prior, ok := snapshot.Get(id)
	if !ok {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrNotFound, errUnknownItem)
	}

	m := s.begin(kind, id, &prior, snapshot)

	item, err := apply(s.requestContext(ctx, m), prior)
	if err != nil {
		mapped := s.fail(err)
		if errors.Is(mapped, ErrNotFound) {
			s.cache.Remove(id)
			s.settle(m, MutationCommitted, err)
		} else {
			s.cache.Reinstate(prior, snapshot)
			s.settle(m, MutationRolledBack, err)
		}
		return models.VaultItem{}, mapped
	}

	s.settle(m, MutationCommitted, nil)
	return item, nil
}

// begin registers a mutation as pending.
func (s *clientVaultService) begin(kind MutationKind, id int64, prior *models.VaultItem, snapshot *cache.Snapshot) *PendingMutation {
	m := &PendingMutation{
		ID:            s.ids.Generate(),
		Kind:          kind,
		TargetID:      id,
		Prior:         prior,
		PriorSnapshot: snapshot,
		Status:        MutationPending,
		StartedAt:     s.now(),
	}

	s.queue.track(*m)
	s.publish(events.KindMutationStarted, id)
	s.mutationLogger(m).Debug().Msg("mutation started")
	return m
}

func (s *clientVaultService) settle(m *PendingMutation, status MutationStatus, cause error) {
	m.Status = status
	s.queue.untrack(m.TargetID)
	s.publish(events.KindMutationSettled, m.TargetID)

	l := s.mutationLogger(m)
	if status == MutationRolledBack {
		l.Warn().Err(cause).Str("status", status.String()).Msg("mutation rolled back")
		return
	}
	l.Debug().Err(cause).Dur("elapsed", s.now().Sub(m.StartedAt)).Str("status", status.String()).Msg("mutation settled")
}

// fail maps a remote error and invalidates the session on an authorization
// failure.
func (s *clientVaultService) fail(err error) error {
	mapped := mapAdapterError(err)
	if errors.Is(mapped, ErrAuth) {
		s.session.Invalidate(mapped)
	}
	return mapped
}

// requestContext tags the remote call with the mutation id.
func (s *clientVaultService) requestContext(ctx context.Context, m *PendingMutation) context.Context {
	return utils.WithRequestID(ctx, m.ID.String())
}

func (s *clientVaultService) mutationLogger(m *PendingMutation) *logger.Logger {
	l := s.logger.GetChildLogger()
	l.Logger = l.With().
		Str("mutation_id", m.ID.String()).
		Str("kind", m.Kind.String()).
		Int64("item_id", m.TargetID).
		Logger()
	return l
}

func (s *clientVaultService) publish(kind events.Kind, id int64) {
	if s.publisher != nil {
		s.publisher.Publish(kind, id)
	}
}
