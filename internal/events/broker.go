// Package events fans out change notifications to the consumers of the
// session and the vault cache.
//
// Events carry no state: a subscriber that receives one re-reads whatever it
// renders. Delivery never blocks the emitter. When a subscriber's buffer is
// full the event is dropped, which is safe because the buffered events
// already guarantee a re-read that observes the newer state.
package events

import (
	"sync"
	"sync/atomic"
)

// Kind classifies a change.
type Kind uint8

const (
	// KindSessionChanged follows every session state transition.
	KindSessionChanged Kind = iota + 1
	// KindVaultReplaced follows a full refresh.
	KindVaultReplaced
	// KindVaultCleared follows a logout or invalidation.
	KindVaultCleared
	// KindItemChanged follows an insert or replacement of ItemID.
	KindItemChanged
	// KindItemRemoved follows the removal of ItemID.
	KindItemRemoved
	// KindMutationStarted is emitted when a write on ItemID starts.
	KindMutationStarted
	// KindMutationSettled is emitted when a write on ItemID is committed or
	// rolled back.
	KindMutationSettled
)

func (k Kind) String() string {
	switch k {
	case KindSessionChanged:
		return "session_changed"
	case KindVaultReplaced:
		return "vault_replaced"
	case KindVaultCleared:
		return "vault_cleared"
	case KindItemChanged:
		return "item_changed"
	case KindItemRemoved:
		return "item_removed"
	case KindMutationStarted:
		return "mutation_started"
	case KindMutationSettled:
		return "mutation_settled"
	default:
		return "unknown"
	}
}

// Event is a single notification. Seq increases by one per published event
// across all kinds.
type Event struct {
	Seq    uint64
	Kind   Kind
	ItemID int64
}

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Broker is a non-blocking publish/subscribe hub. The zero value is not
// usable; create one with NewBroker.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan Event
	nextID      uint64
	closed      bool

	buffer   int
	sequence atomic.Uint64
	dropped  atomic.Uint64
}

// NewBroker returns a Broker whose subscriber channels hold buffer events.
// A non-positive buffer selects DefaultBuffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subscribers: make(map[uint64]chan Event),
		buffer:      buffer,
	}
}

// Subscribe registers a new subscriber. The returned function unsubscribes
// and closes the channel; calling it more than once is safe.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}
}

// Publish delivers an event of the given kind to every subscriber.
// It is safe to call from any goroutine and never blocks.
func (b *Broker) Publish(kind Kind, itemID int64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	event := Event{Seq: b.sequence.Add(1), Kind: kind, ItemID: itemID}
	for _, sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns the number of deliveries skipped because a subscriber's
// buffer was full.
func (b *Broker) Dropped() uint64 {
	return b.dropped.Load()
}

// Close unsubscribes everybody and closes their channels. Later publishes
// are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subscribers {
		delete(b.subscribers, id)
		close(sub)
	}
}
