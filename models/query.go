// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Filter restricts a vault view. Every non-zero field is a constraint and an
// item must satisfy all of them.
type Filter struct {
	// Query is matched case-insensitively as a substring of the title,
	// description, username, email and category.
	Query string

	// Type keeps only items of the given type when non-empty.
	Type ItemType

	// Category keeps only items whose category equals it exactly when non-empty.
	Category string

	// Favorite keeps only items whose favorite flag equals *Favorite when set.
	Favorite *bool
}

// SortField names the item attribute a view is ordered by.
type SortField string

const (
	SortByNone           SortField = ""
	SortByTitle          SortField = "title"
	SortByCreatedAt      SortField = "createdAt"
	SortByUpdatedAt      SortField = "updatedAt"
	SortByLastAccessedAt SortField = "lastAccessedAt"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort describes the ordering of a vault view. The zero value keeps the
// insertion order of the cache.
type Sort struct {
	Field SortField
	Order SortOrder
}

// DefaultSort shows the most recently updated items first.
var DefaultSort = Sort{Field: SortByUpdatedAt, Order: SortDesc}

// Stats aggregates the content of the vault.
type Stats struct {
	TotalItems    int `json:"totalItems"`
	PasswordItems int `json:"passwordItems"`
	NoteItems     int `json:"noteItems"`
	FavoriteItems int `json:"favoriteItems"`
}
