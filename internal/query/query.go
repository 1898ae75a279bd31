// Package query derives ordered views of vault items. Every function is pure:
// inputs are never modified and equal inputs give equal outputs.
package query

import (
	"github.com/MKhiriev/go-vault-client/models"
)

// Apply returns the items that satisfy filter, ordered by sort. The result is
// a new slice and a subset of items; with a zero sort it keeps the order of
// items.
func Apply(items []models.VaultItem, filter models.Filter, sort models.Sort) []models.VaultItem {
	m := newMatcher(filter)

	out := make([]models.VaultItem, 0, len(items))
	for _, item := range items {
		if m.match(item) {
			out = append(out, item)
		}
	}

	Sort(out, sort)
	return out
}
