package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/MKhiriev/go-vault-client/models"
)

// matcher evaluates a filter. The query is folded once per Apply.
type matcher struct {
	filter models.Filter
	folder cases.Caser
	query  string
}

func newMatcher(filter models.Filter) *matcher {
	m := &matcher{filter: filter, folder: cases.Fold()}
	m.query = m.fold(strings.TrimSpace(filter.Query))
	return m
}

func (m *matcher) fold(s string) string {
	return m.folder.String(s)
}

// Match reports whether item satisfies every constraint of filter.
func Match(item models.VaultItem, filter models.Filter) bool {
	return newMatcher(filter).match(item)
}

func (m *matcher) match(item models.VaultItem) bool {
	if m.filter.Type != "" && item.Type != m.filter.Type {
		return false
	}
	if m.filter.Category != "" && item.Category != m.filter.Category {
		return false
	}
	if m.filter.Favorite != nil && item.Favorite != *m.filter.Favorite {
		return false
	}
	if m.query == "" {
		return true
	}

	for _, field := range [...]string{item.Title, item.Description, item.Username, item.Email, item.Category} {
		if field != "" && strings.Contains(m.fold(field), m.query) {
			return true
		}
	}
	return false
}
