// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache holds the in-memory mirror of the signed-in user's vault.
//
// The mirror is a sequence of immutable [Snapshot] values. [Store] publishes
// a new snapshot for every change and readers load the current one without
// locking, so a reader never observes a partially applied change.
package cache

import (
	"sync"

	"github.com/MKhiriev/go-vault-client/models"
)

// Snapshot is an immutable, insertion-ordered mapping id → item.
type Snapshot struct {
	order []int64
	items map[int64]models.VaultItem

	// epoch changes on every Clear; snapshots of different sessions never
	// share one.
	epoch uint64

	statsOnce sync.Once
	stats     models.Stats
}

func newSnapshot(order []int64, items map[int64]models.VaultItem, epoch uint64) *Snapshot {
	return &Snapshot{order: order, items: items, epoch: epoch}
}

func emptySnapshot(epoch uint64) *Snapshot {
	return newSnapshot(nil, map[int64]models.VaultItem{}, epoch)
}

// Len returns the number of items.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Get returns the item with the given id.
func (s *Snapshot) Get(id int64) (models.VaultItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Contains reports whether id is present.
func (s *Snapshot) Contains(id int64) bool {
	_, ok := s.items[id]
	return ok
}

// Items returns the items in insertion order. The slice is a fresh copy.
func (s *Snapshot) Items() []models.VaultItem {
	out := make([]models.VaultItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// IDs returns the ids in insertion order. The slice is a fresh copy.
func (s *Snapshot) IDs() []int64 {
	return append([]int64(nil), s.order...)
}

// Index returns the position of id or -1.
func (s *Snapshot) Index(id int64) int {
	if !s.Contains(id) {
		return -1
	}
	for i, v := range s.order {
		if v == id {
			return i
		}
	}
	return -1
}

// Epoch identifies the session the snapshot belongs to.
func (s *Snapshot) Epoch() uint64 {
	return s.epoch
}

// Stats aggregates the snapshot. The result is computed once per snapshot.
func (s *Snapshot) Stats() models.Stats {
	s.statsOnce.Do(func() {
		st := models.Stats{TotalItems: len(s.order)}
		for _, item := range s.items {
			switch item.Type {
			case models.ItemTypePassword:
				st.PasswordItems++
			case models.ItemTypeNote:
				st.NoteItems++
			}
			if item.Favorite {
				st.FavoriteItems++
			}
		}
		s.stats = st
	})
	return s.stats
}

// builder produces the next snapshot from s by copying it once.
type builder struct {
	order []int64
	items map[int64]models.VaultItem
	epoch uint64
}

func (s *Snapshot) edit() *builder {
	items := make(map[int64]models.VaultItem, len(s.items)+1)
	for id, item := range s.items {
		items[id] = item
	}
	return &builder{
		order: append(make([]int64, 0, len(s.order)+1), s.order...),
		items: items,
		epoch: s.epoch,
	}
}

func (b *builder) index(id int64) int {
	for i, v := range b.order {
		if v == id {
			return i
		}
	}
	return -1
}

// put replaces id in place or appends it.
func (b *builder) put(item models.VaultItem) {
	if _, ok := b.items[item.ID]; !ok {
		b.order = append(b.order, item.ID)
	}
	b.items[item.ID] = item
}

// insertAt inserts a new id at position pos.
func (b *builder) insertAt(pos int, item models.VaultItem) {
	b.order = append(b.order, 0)
	copy(b.order[pos+1:], b.order[pos:])
	b.order[pos] = item.ID
	b.items[item.ID] = item
}

func (b *builder) remove(id int64) {
	if _, ok := b.items[id]; !ok {
		return
	}
	delete(b.items, id)
	if i := b.index(id); i >= 0 {
		b.order = append(b.order[:i], b.order[i+1:]...)
	}
}

func (b *builder) build() *Snapshot {
	return newSnapshot(b.order, b.items, b.epoch)
}
