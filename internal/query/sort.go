package query

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/cases"

	"github.com/MKhiriev/go-vault-client/models"
)

// Sort orders items in place by s. The sort is stable. Items without a value
// for the sort field (an empty title, a nil time) go after all items that
// have one, whatever the order. A zero field leaves items untouched.
func Sort(items []models.VaultItem, s models.Sort) {
	if s.Field == models.SortByNone {
		return
	}

	desc := s.Order == models.SortDesc
	key := keyFunc(s.Field)
	if key == nil {
		return
	}

	slices.SortStableFunc(items, func(a, b models.VaultItem) int {
		ka, kb := key(a), key(b)
		switch {
		case ka.missing && kb.missing:
			return 0
		case ka.missing:
			return 1
		case kb.missing:
			return -1
		}

		c := ka.compare(kb)
		if desc {
			return -c
		}
		return c
	})
}

type sortKey struct {
	missing bool
	text    string
	at      time.Time
}

func (k sortKey) compare(o sortKey) int {
	if !k.at.IsZero() || !o.at.IsZero() {
		return k.at.Compare(o.at)
	}
	return cmp.Compare(k.text, o.text)
}

func keyFunc(field models.SortField) func(models.VaultItem) sortKey {
	switch field {
	case models.SortByTitle:
		folder := cases.Fold()
		return func(item models.VaultItem) sortKey {
			if item.Title == "" {
				return sortKey{missing: true}
			}
			return sortKey{text: folder.String(item.Title)}
		}
	case models.SortByCreatedAt:
		return timeKey(func(item models.VaultItem) *time.Time { return item.CreatedAt })
	case models.SortByUpdatedAt:
		return timeKey(func(item models.VaultItem) *time.Time { return item.UpdatedAt })
	case models.SortByLastAccessedAt:
		return timeKey(func(item models.VaultItem) *time.Time { return item.LastAccessedAt })
	default:
		return nil
	}
}

func timeKey(get func(models.VaultItem) *time.Time) func(models.VaultItem) sortKey {
	return func(item models.VaultItem) sortKey {
		t := get(item)
		if t == nil {
			return sortKey{missing: true}
		}
		return sortKey{at: *t}
	}
}
