package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-vault-client/internal/cache"
	"github.com/MKhiriev/go-vault-client/models"
)

// MutationKind is the kind of write a PendingMutation performs.
type MutationKind uint8

const (
	MutationCreate MutationKind = iota + 1
	MutationUpdate
	MutationDelete
	MutationToggleFavorite
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	case MutationToggleFavorite:
		return "toggleFavorite"
	default:
		return "unknown"
	}
}

// MutationStatus is the lifecycle state of a PendingMutation.
type MutationStatus uint8

const (
	MutationPending MutationStatus = iota
	MutationCommitted
	MutationRolledBack
)

func (s MutationStatus) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolledBack"
	default:
		return "unknown"
	}
}

// PendingMutation is a write that has been applied to the cache but not yet
// confirmed by the server.
type PendingMutation struct {
	ID       uuid.UUID
	Kind     MutationKind
	TargetID int64

	// Prior is the item before the write. Nil for creates.
	Prior *models.VaultItem
	// PriorSnapshot is the snapshot the write was applied to.
	PriorSnapshot *cache.Snapshot

	Status    MutationStatus
	StartedAt time.Time
}

// mutationQueue serializes writes per item id in arrival order. Writes to
// different ids do not wait for each other.
//
// Each waiter owns a channel that is closed when it is done; the next waiter
// for the same id blocks on it. The map only keeps the tail of each chain.
type mutationQueue struct {
	mu      sync.Mutex
	tails   map[int64]chan struct{}
	running map[int64]PendingMutation
}

func newMutationQueue() *mutationQueue {
	return &mutationQueue{
		tails:   make(map[int64]chan struct{}),
		running: make(map[int64]PendingMutation),
	}
}

// acquire waits for every earlier write to id and returns the function that
// lets the next one proceed. If ctx ends while waiting, the turn is still
// passed on in order once the predecessor finishes.
func (q *mutationQueue) acquire(ctx context.Context, id int64) (func(), error) {
	done := make(chan struct{})

	q.mu.Lock()
	prev := q.tails[id]
	q.tails[id] = done
	q.mu.Unlock()

	release := func() { q.release(id, done) }

	if prev == nil {
		return release, nil
	}

	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}

func (q *mutationQueue) release(id int64, done chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	close(done)
	if q.tails[id] == done {
		delete(q.tails, id)
	}
}

func (q *mutationQueue) track(m PendingMutation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running[m.TargetID] = m
}

func (q *mutationQueue) untrack(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.running, id)
}

func (q *mutationQueue) pending(id int64) (PendingMutation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	m, ok := q.running[id]
	return m, ok
}

// waiting reports how many ids have a write running or queued.
func (q *mutationQueue) waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tails)
}
