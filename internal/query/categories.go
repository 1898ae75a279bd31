package query

import (
	"slices"

	"github.com/MKhiriev/go-vault-client/models"
)

// Categories returns the distinct non-empty categories of items in
// ascending order.
func Categories(items []models.VaultItem) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	slices.Sort(out)
	return out
}
