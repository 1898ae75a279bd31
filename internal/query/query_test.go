// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(days int) *time.Time {
	t := base.AddDate(0, 0, days)
	return &t
}

func boolPtr(v bool) *bool { return &v }

func ids(items []models.VaultItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func fixture() []models.VaultItem {
	return []models.VaultItem{
		{ID: 1, Title: "Bank", Type: models.ItemTypePassword, Category: "Finance", Favorite: true, UpdatedAt: at(3)},
		{ID: 2, Title: "email", Type: models.ItemTypePassword, SecretFields: models.SecretFields{Email: "me@mail.example"}, UpdatedAt: at(5)},
		{ID: 3, Title: "Recipes", Type: models.ItemTypeNote, Description: "grandma's bank of recipes", Category: "Home"},
		{ID: 4, Title: "Visa", Type: models.ItemTypeCreditCard, Category: "Finance", UpdatedAt: at(1)},
		{ID: 5, Title: "Straße", Type: models.ItemTypeSecureNote, SecretFields: models.SecretFields{Username: "GRÜNER"}},
	}
}

func TestApply_EmptyFilterKeepsOrder(t *testing.T) {
	items := fixture()
	assert.Equal(t, items, Apply(items, models.Filter{}, models.Sort{}))
}

func TestApply_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter models.Filter
		want   []int64
	}{
		{name: "query matches title case-insensitively", filter: models.Filter{Query: "BANK"}, want: []int64{1, 3}},
		{name: "query matches email", filter: models.Filter{Query: "mail.example"}, want: []int64{2}},
		{name: "query matches category", filter: models.Filter{Query: "fin"}, want: []int64{1, 4}},
		{name: "query matches username with folding", filter: models.Filter{Query: "grüner"}, want: []int64{5}},
		{name: "query folds sharp s", filter: models.Filter{Query: "STRASSE"}, want: []int64{5}},
		{name: "query is trimmed", filter: models.Filter{Query: "  visa "}, want: []int64{4}},
		{name: "type", filter: models.Filter{Type: models.ItemTypePassword}, want: []int64{1, 2}},
		{name: "category is exact", filter: models.Filter{Category: "finance"}, want: []int64{}},
		{name: "favorite true", filter: models.Filter{Favorite: boolPtr(true)}, want: []int64{1}},
		{name: "favorite false", filter: models.Filter{Favorite: boolPtr(false)}, want: []int64{2, 3, 4, 5}},
		{name: "conjunction", filter: models.Filter{Query: "bank", Type: models.ItemTypeNote}, want: []int64{3}},
		{name: "no match", filter: models.Filter{Query: "zzz"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(fixture(), tt.filter, models.Sort{})))
		})
	}
}

func TestApply_SortByUpdatedAtMissingLast(t *testing.T) {
	items := fixture()

	desc := Apply(items, models.Filter{}, models.Sort{Field: models.SortByUpdatedAt, Order: models.SortDesc})
	assert.Equal(t, []int64{2, 1, 4, 3, 5}, ids(desc))

	asc := Apply(items, models.Filter{}, models.Sort{Field: models.SortByUpdatedAt, Order: models.SortAsc})
	assert.Equal(t, []int64{4, 1, 2, 3, 5}, ids(asc))
}

func TestApply_SortByTitle(t *testing.T) {
	items := fixture()
	items = append(items, models.VaultItem{ID: 6, Title: ""}, models.VaultItem{ID: 7, Title: "bank"})

	asc := Apply(items, models.Filter{}, models.Sort{Field: models.SortByTitle, Order: models.SortAsc})
	assert.Equal(t, []int64{1, 7, 2, 3, 5, 4, 6}, ids(asc))

	desc := Apply(items, models.Filter{}, models.Sort{Field: models.SortByTitle, Order: models.SortDesc})
	assert.Equal(t, []int64{4, 5, 3, 2, 1, 7, 6}, ids(desc))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	items := fixture()
	before := append([]models.VaultItem(nil), items...)

	Apply(items, models.Filter{Query: "a"}, models.Sort{Field: models.SortByTitle, Order: models.SortDesc})
	assert.Equal(t, before, items)
}

func TestApply_UnknownSortFieldKeepsOrder(t *testing.T) {
	items := fixture()
	got := Apply(items, models.Filter{}, models.Sort{Field: "color", Order: models.SortAsc})
	assert.Equal(t, ids(items), ids(got))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Finance", "Home"}, Categories(fixture()))
	assert.Empty(t, Categories(nil))
}

// randomItems builds a reproducible vault with gaps in every sortable field.
func randomItems(r *rand.Rand, n int) []models.VaultItem {
	titles := []string{"alpha", "Beta", "gamma", "", "delta", "ALPHA"}
	categories := []string{"", "Work", "Home"}
	types := models.ItemTypes

	items := make([]models.VaultItem, 0, n)
	for i := 0; i < n; i++ {
		item := models.VaultItem{
			ID:       int64(i + 1),
			Title:    titles[r.Intn(len(titles))],
			Type:     types[r.Intn(len(types))],
			Category: categories[r.Intn(len(categories))],
			Favorite: r.Intn(2) == 0,
		}
		if r.Intn(4) != 0 {
			item.CreatedAt = at(r.Intn(10))
		}
		if r.Intn(4) != 0 {
			item.UpdatedAt = at(r.Intn(10))
		}
		if r.Intn(2) == 0 {
			item.LastAccessedAt = at(r.Intn(10))
		}
		items = append(items, item)
	}
	return items
}

// TestApply_Properties checks, for many random inputs, that the result is a
// subset of the input, that every returned item satisfies the filter and no
// dropped item does, and that adjacent items respect the sort.
func TestApply_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	filters := []models.Filter{
		{},
		{Query: "al"},
		{Type: models.ItemTypeNote},
		{Category: "Work", Favorite: boolPtr(true)},
		{Query: "A", Favorite: boolPtr(false)},
	}
	sorts := []models.Sort{
		{},
		{Field: models.SortByTitle, Order: models.SortAsc},
		{Field: models.SortByTitle, Order: models.SortDesc},
		{Field: models.SortByCreatedAt, Order: models.SortAsc},
		{Field: models.SortByUpdatedAt, Order: models.SortDesc},
		{Field: models.SortByLastAccessedAt, Order: models.SortDesc},
	}

	for round := 0; round < 30; round++ {
		items := randomItems(r, r.Intn(40))
		for fi, filter := range filters {
			for si, s := range sorts {
				t.Run(fmt.Sprintf("round%d/filter%d/sort%d", round, fi, si), func(t *testing.T) {
					got := Apply(items, filter, s)

					byID := make(map[int64]models.VaultItem, len(items))
					for _, item := range items {
						byID[item.ID] = item
					}
					kept := make(map[int64]bool, len(got))
					for _, item := range got {
						orig, ok := byID[item.ID]
						require.True(t, ok, "result contains an item not in the input")
						assert.Equal(t, orig, item)
						assert.True(t, Match(item, filter))
						kept[item.ID] = true
					}
					for _, item := range items {
						if !kept[item.ID] {
							assert.False(t, Match(item, filter), "item %d matches but was dropped", item.ID)
						}
					}

					assertOrdered(t, items, got, s)
				})
			}
		}
	}
}

func assertOrdered(t *testing.T, input, got []models.VaultItem, s models.Sort) {
	t.Helper()

	position := make(map[int64]int, len(input))
	for i, item := range input {
		position[item.ID] = i
	}

	key := keyFunc(s.Field)
	for i := 1; i < len(got); i++ {
		a, b := got[i-1], got[i]
		if key == nil {
			assert.Less(t, position[a.ID], position[b.ID])
			continue
		}

		ka, kb := key(a), key(b)
		switch {
		case ka.missing && kb.missing:
			assert.Less(t, position[a.ID], position[b.ID], "ties keep input order")
		case ka.missing:
			t.Errorf("item %d without value precedes item %d", a.ID, b.ID)
		case kb.missing:
		default:
			c := ka.compare(kb)
			if s.Order == models.SortDesc {
				c = -c
			}
			assert.LessOrEqual(t, c, 0)
			if c == 0 {
				assert.Less(t, position[a.ID], position[b.ID], "ties keep input order")
			}
		}
	}
}
