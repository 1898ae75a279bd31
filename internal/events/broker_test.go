package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroker_PublishToAllSubscribers(t *testing.T) {
	b := NewBroker(4)
	first, unsubFirst := b.Subscribe()
	second, unsubSecond := b.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	b.Publish(KindItemChanged, 7)

	for _, ch := range []<-chan Event{first, second} {
		ev := <-ch
		assert.Equal(t, uint64(1), ev.Seq)
		assert.Equal(t, KindItemChanged, ev.Kind)
		assert.Equal(t, int64(7), ev.ItemID)
	}
}

func TestBroker_SequenceIncreases(t *testing.T) {
	b := NewBroker(8)
	ch, unsub := b.Subscribe()
	defer unsub()

	b.Publish(KindVaultReplaced, 0)
	b.Publish(KindItemRemoved, 3)
	b.Publish(KindVaultCleared, 0)

	var seqs []uint64
	for i := 0; i < 3; i++ {
		seqs = append(seqs, (<-ch).Seq)
	}
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
}

// TestBroker_FullBufferNeverBlocks verifies that a subscriber that does not
// read cannot stall the publisher.
func TestBroker_FullBufferNeverBlocks(t *testing.T) {
	b := NewBroker(2)
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < 10; i++ {
		b.Publish(KindItemChanged, int64(i))
	}

	assert.Len(t, ch, 2)
	assert.Equal(t, uint64(8), b.Dropped())
	assert.Equal(t, int64(0), (<-ch).ItemID)
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker(2)
	ch, unsub := b.Subscribe()

	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	b.Publish(KindSessionChanged, 0)
	assert.Zero(t, b.Dropped())
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(2)
	ch, unsub := b.Subscribe()

	b.Close()
	_, open := <-ch
	assert.False(t, open)

	unsub()
	b.Publish(KindSessionChanged, 0)

	late, _ := b.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestBroker_ConcurrentPublish(t *testing.T) {
	b := NewBroker(1000)
	ch, unsub := b.Subscribe()
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Publish(KindItemChanged, int64(j))
			}
		}()
	}
	wg.Wait()

	require.Len(t, ch, 500)
	seen := make(map[uint64]bool)
	for i := 0; i < 500; i++ {
		seen[(<-ch).Seq] = true
	}
	assert.Len(t, seen, 500)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "item_changed", KindItemChanged.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
