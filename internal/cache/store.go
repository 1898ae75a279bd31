package cache

import (
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-vault-client/internal/events"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/models"
)

// Generation identifies a full refresh. Only the latest issued generation
// may replace the snapshot.
type Generation uint64

// Publisher receives a notification after every published change.
// Implementations must not block.
type Publisher interface {
	Publish(kind events.Kind, itemID int64)
}

// Store is the sole mutable owner of the current snapshot. Writers are
// serialized by a short mutex held only while building the next snapshot;
// readers use [Store.Current] and never lock.
type Store struct {
	mu         sync.Mutex
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
	epoch      uint64

	publisher Publisher
	logger    *logger.Logger
}

// NewStore returns an empty store. publisher may be nil.
func NewStore(publisher Publisher, logger *logger.Logger) *Store {
	s := &Store{publisher: publisher, logger: logger}
	s.current.Store(emptySnapshot(0))
	return s
}

// Current returns the current snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// BeginRefresh issues a new generation. Any refresh started earlier becomes
// stale.
func (s *Store) BeginRefresh() Generation {
	return Generation(s.generation.Add(1))
}

// ReplaceAll publishes items as the new content if gen is still the latest
// generation and reports whether it did. Placeholders of pending creates are
// kept after the server items so that their confirmation can find them.
func (s *Store) ReplaceAll(gen Generation, items []models.VaultItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uint64(gen) != s.generation.Load() {
		s.logger.Debug().
			Uint64("generation", uint64(gen)).
			Uint64("latest", s.generation.Load()).
			Msg("dropping stale refresh")
		return false
	}

	prev := s.current.Load()
	b := &builder{
		order: make([]int64, 0, len(items)),
		items: make(map[int64]models.VaultItem, len(items)),
		epoch: prev.epoch,
	}
	for _, item := range items {
		b.put(item)
	}
	for _, id := range prev.order {
		if item := prev.items[id]; item.IsPlaceholder() {
			b.put(item)
		}
	}

	s.publish(b.build(), events.KindVaultReplaced, 0)
	return true
}

// Upsert replaces the item with the same id in place or appends it.
func (s *Store) Upsert(item models.VaultItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.current.Load().edit()
	b.put(item)
	s.publish(b.build(), events.KindItemChanged, item.ID)
}

// Replace replaces an existing item in place and reports whether it was
// present. Absent items are not added.
func (s *Store) Replace(item models.VaultItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if !cur.Contains(item.ID) {
		return false
	}

	b := cur.edit()
	b.put(item)
	s.publish(b.build(), events.KindItemChanged, item.ID)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if !cur.Contains(id) {
		return false
	}

	b := cur.edit()
	b.remove(id)
	s.publish(b.build(), events.KindItemRemoved, id)
	return true
}

// Swap replaces oldID by item at the position of oldID in one step, so
// readers see either the old or the new entry and never both. If item.ID is
// already present elsewhere, that entry is dropped. Reports false without
// changes when oldID is absent (the cache was cleared meanwhile).
func (s *Store) Swap(oldID int64, item models.VaultItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	pos := cur.Index(oldID)
	if pos < 0 {
		return false
	}

	b := cur.edit()
	if oldID != item.ID {
		b.remove(item.ID)
		pos = b.index(oldID)
		delete(b.items, oldID)
		b.order[pos] = item.ID
	}
	b.items[item.ID] = item
	s.publish(b.build(), events.KindItemChanged, item.ID)
	return true
}

// Reinstate restores item as it was in prior. An item still present is
// replaced in place. An absent item is inserted right after the nearest
// entry that preceded it in prior and still exists, or first when none
// does. Nothing happens if prior belongs to another session, since the
// cache has been cleared after it was taken.
func (s *Store) Reinstate(item models.VaultItem, prior *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if prior != nil && prior.epoch != cur.epoch {
		return false
	}

	b := cur.edit()
	switch {
	case cur.Contains(item.ID):
		b.put(item)
	case prior == nil:
		b.put(item)
	default:
		b.insertAt(reinstatePosition(b, prior, item.ID), item)
	}
	s.publish(b.build(), events.KindItemChanged, item.ID)
	return true
}

func reinstatePosition(b *builder, prior *Snapshot, id int64) int {
	priorIdx := prior.Index(id)
	if priorIdx < 0 {
		return len(b.order)
	}
	for i := priorIdx - 1; i >= 0; i-- {
		if at := b.index(prior.order[i]); at >= 0 {
			return at + 1
		}
	}
	return 0
}

// Clear publishes an empty snapshot for a new epoch and invalidates any
// refresh in flight.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation.Add(1)
	s.epoch++
	s.publish(emptySnapshot(s.epoch), events.KindVaultCleared, 0)
}

// publish must be called with mu held.
func (s *Store) publish(next *Snapshot, kind events.Kind, itemID int64) {
	s.current.Store(next)
	if s.publisher != nil {
		s.publisher.Publish(kind, itemID)
	}
}
